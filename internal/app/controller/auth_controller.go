package controller

import (
	"errors"
	"net/http"

	"github.com/gemcompare/gemcompare-backend/internal/app/service"
	apperrors "github.com/gemcompare/gemcompare-backend/internal/errors"
	"github.com/gemcompare/gemcompare-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Flash keys consumed by the auth pages
const (
	flashLoginErrors     = "login_errors"
	flashRegisterMessage = "register_message"
	flashProfileMessage  = "profile_message"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
	sessionMW            *middleware.SessionMiddleware
}

func NewAuthController(
	authService service.AuthService,
	passwordResetService service.PasswordResetService,
	sessionMW *middleware.SessionMiddleware,
) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
		sessionMW:            sessionMW,
	}
}

// Requests arrive either as form posts or as JSON from fetch calls, so
// every request struct carries both tag sets.

type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier" binding:"required"`
	Password   string `form:"password" json:"password" binding:"required"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

type RegisterRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

type UpdateProfileRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	CurrentPassword string `form:"current_password" json:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

type ForgotPasswordRequest struct {
	Email string `form:"email" json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token           string `form:"token" json:"token" binding:"required"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

func userPayload(id uint, username, email string) gin.H {
	return gin.H{
		"id":       id,
		"username": username,
		"email":    email,
	}
}

// CSRFToken hands the session's CSRF token to JSON clients.
// GET /api/v1/auth/csrf
func (ctrl *AuthController) CSRFToken(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"csrf_token": s.EnsureCSRFToken(),
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	s, ok := middleware.GetSession(c)
	if !ok {
		apperrors.InternalError(c, "")
		return
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		s.SetFlash(flashLoginErrors, "Both identifier and password are required")
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Both identifier and password are required")
		return
	}

	user, err := ctrl.authService.Authenticate(req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			s.SetFlash(flashLoginErrors, "Invalid username/email or password")
			apperrors.RespondWithError(c, http.StatusUnauthorized,
				apperrors.AuthInvalidCredentials, "Invalid username/email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"identifier": req.Identifier,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "authenticate user")
		return
	}

	s.Login(user.ID, user.Username, user.Email, req.RememberMe)
	ctrl.sessionMW.RefreshCookie(c, s)

	// Send the user back where they were headed before the login wall
	redirectURL, _ := s.PopFlash(middleware.FlashRedirectURL)
	if redirectURL == "" {
		redirectURL = "/"
	}

	log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":      "Logged in successfully",
		"user":         userPayload(user.ID, user.Username, user.Email),
		"redirect_url": redirectURL,
	})
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	s, ok := middleware.GetSession(c)
	if !ok {
		apperrors.InternalError(c, "")
		return
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Registration details are not valid")
		return
	}

	user, err := ctrl.authService.Register(req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		var fields service.ValidationErrors
		switch {
		case errors.As(err, &fields):
			apperrors.RespondWithValidationError(c, fields)
		case errors.Is(err, service.ErrUsernameAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email is already registered")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"username": req.Username,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		}
		return
	}

	s.SetFlash(middleware.FlashLoginMessage, "Registration successful! Please log in")

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Please log in",
		"user":    userPayload(user.ID, user.Username, user.Email),
	})
}

// Logout ends the session's authenticated state
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	s, ok := middleware.GetSession(c)
	if ok {
		userID := s.UserID
		s.Logout()
		s.SetFlash(middleware.FlashLoginMessage, "You have been logged out")
		log.Info("User logged out", map[string]interface{}{
			"user_id": userID,
		})
	}
	ctrl.sessionMW.ClearCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetProfile returns the logged-in user's account details
// GET /api/v1/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Session references an account that no longer exists
			apperrors.RespondWithError(c, http.StatusInternalServerError,
				apperrors.AuthAccountLookup, "Your account could not be loaded")
			return
		}
		log.Error("Failed to load profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load user profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userPayload(user.ID, user.Username, user.Email),
	})
}

// UpdateProfile changes account details after re-verifying the password
// POST /api/v1/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	s, ok := middleware.GetSession(c)
	if !ok {
		apperrors.InternalError(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid profile update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Current password is required")
		return
	}

	user, err := ctrl.authService.UpdateProfile(
		userID, req.Username, req.Email, req.CurrentPassword, req.NewPassword, req.ConfirmPassword,
	)
	if err != nil {
		var fields service.ValidationErrors
		switch {
		case errors.As(err, &fields):
			apperrors.RespondWithValidationError(c, fields)
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusForbidden,
				apperrors.AuthInvalidCredentials, "Current password is incorrect")
		case errors.Is(err, service.ErrUsernameAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email is already registered")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.RespondWithError(c, http.StatusInternalServerError,
				apperrors.AuthAccountLookup, "Your account could not be loaded")
		default:
			log.Error("Profile update failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user profile")
		}
		return
	}

	// Keep the session's identity in step with the account
	s.Username = user.Username
	s.Email = user.Email
	s.SetFlash(flashProfileMessage, "Profile updated successfully")

	log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userPayload(user.ID, user.Username, user.Email),
	})
}

// ForgotPassword issues a reset token. The response is the same whether or
// not the email belongs to an account.
// POST /api/v1/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Email is required")
		return
	}

	token, err := ctrl.passwordResetService.RequestReset(req.Email)
	if err != nil && !errors.Is(err, service.ErrUserNotFound) {
		log.Error("Failed to issue reset token", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "request password reset")
		return
	}

	response := gin.H{
		"message": "If that email belongs to an account, a reset link has been issued",
	}
	// No mailer is wired up, so the token rides back in the response the
	// way the reset link is shown on the forgot-password page.
	if token != "" {
		response["reset_token"] = token
	}
	c.JSON(http.StatusOK, response)
}

// ResetPassword consumes a reset token and sets a new password
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Reset token is required")
		return
	}

	err := ctrl.passwordResetService.ResetPassword(req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		var fields service.ValidationErrors
		switch {
		case errors.As(err, &fields):
			apperrors.RespondWithValidationError(c, fields)
		case errors.Is(err, service.ErrResetTokenExpired):
			apperrors.BadRequest(c, apperrors.AuthResetTokenExpired, "Reset link has expired. Please request a new one")
		case errors.Is(err, service.ErrResetTokenInvalid):
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, "Reset link is invalid or has already been used")
		default:
			log.Error("Password reset failed", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reset password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset. Please log in",
	})
}
