package service

import (
	"errors"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"github.com/gemcompare/gemcompare-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUserNotFound          = errors.New("user not found")
)

type AuthService interface {
	Register(username, email, password, confirmPassword string) (*model.User, error)
	Authenticate(identifier, password string) (*model.User, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, username, email, currentPassword, newPassword, confirmPassword string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(username, email, password, confirmPassword string) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"email":    email,
	})

	// Run every rule so the form can show all problems at once
	fields := ValidationErrors{}
	validateUsername(fields, username)
	validateEmail(fields, email)
	validatePassword(fields, "password", password)
	validatePasswordConfirmation(fields, password, confirmPassword)
	if len(fields) > 0 {
		logger.Warn("Registration failed validation", map[string]interface{}{
			"username":     username,
			"field_errors": len(fields),
		})
		return nil, fields
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing username", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameAlreadyExists
	}

	existing, err = s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})

	return user, nil
}

// Authenticate verifies a login. The identifier may be a username or an
// email address. Unknown identifiers and wrong passwords both return
// ErrInvalidCredentials so the two cases are indistinguishable.
func (s *authService) Authenticate(identifier, password string) (*model.User, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"identifier": identifier,
	})

	user, err := s.userRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"identifier": identifier,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"identifier": identifier,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"identifier": identifier,
			"user_id":    user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes account details after re-verifying the current
// password. A blank newPassword keeps the existing one.
func (s *authService) UpdateProfile(userID uint, username, email, currentPassword, newPassword, confirmPassword string) (*model.User, error) {
	logger.Info("Attempting profile update", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Profile update failed: current password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidCredentials
	}

	fields := ValidationErrors{}
	validateUsername(fields, username)
	validateEmail(fields, email)
	if newPassword != "" {
		validatePassword(fields, "new_password", newPassword)
		validatePasswordConfirmation(fields, newPassword, confirmPassword)
	}
	if len(fields) > 0 {
		logger.Warn("Profile update failed validation", map[string]interface{}{
			"user_id":      userID,
			"field_errors": len(fields),
		})
		return nil, fields
	}

	if username != user.Username {
		existing, err := s.userRepo.FindByUsername(username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameAlreadyExists
		}
	}

	if email != user.Email {
		existing, err := s.userRepo.FindByEmail(email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
	}

	user.Username = username
	user.Email = email
	if newPassword != "" {
		hashed, err := util.HashPassword(newPassword)
		if err != nil {
			logger.Error("Failed to hash new password", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Profile updated successfully", map[string]interface{}{
		"user_id": userID,
	})

	return user, nil
}
