package service

import (
	"errors"
	"time"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"github.com/gemcompare/gemcompare-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrResetTokenInvalid = errors.New("reset token is invalid or already used")
	ErrResetTokenExpired = errors.New("reset token has expired")
)

type PasswordResetService interface {
	RequestReset(email string) (string, error)
	ResetPassword(token, newPassword, confirmPassword string) error
	CleanupExpired() error
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
	secret    string
	expiry    time.Duration
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	secret string,
	expiry time.Duration,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		secret:    secret,
		expiry:    expiry,
	}
}

// RequestReset issues a single-use reset token for the account behind
// email. Callers should respond identically whether or not the account
// exists, so the endpoint cannot be used to enumerate users.
func (s *passwordResetService) RequestReset(email string) (string, error) {
	logger.Info("Password reset requested", map[string]interface{}{
		"email": email,
	})

	if _, err := s.userRepo.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return "", ErrUserNotFound
		}
		logger.Error("Failed to look up account for reset", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	token, jti, err := util.GenerateResetToken(email, s.secret, s.expiry)
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	reset := &model.PasswordReset{
		Email:     email,
		TokenID:   jti,
		ExpiresAt: time.Now().Add(s.expiry),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to persist reset record", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	logger.Info("Password reset token issued", map[string]interface{}{
		"email": email,
	})
	return token, nil
}

func (s *passwordResetService) ResetPassword(token, newPassword, confirmPassword string) error {
	logger.Info("Attempting password reset")

	claims, err := util.ValidateResetToken(token, s.secret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			logger.Warn("Password reset failed: token expired")
			return ErrResetTokenExpired
		}
		logger.Warn("Password reset failed: token invalid")
		return ErrResetTokenInvalid
	}

	reset, err := s.resetRepo.FindByTokenID(claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset failed: unknown token ID")
			return ErrResetTokenInvalid
		}
		logger.Error("Failed to load reset record", err, nil)
		return err
	}
	if reset.Used {
		logger.Warn("Password reset failed: token already used", map[string]interface{}{
			"reset_id": reset.ID,
		})
		return ErrResetTokenInvalid
	}
	if time.Now().After(reset.ExpiresAt) {
		logger.Warn("Password reset failed: record expired", map[string]interface{}{
			"reset_id": reset.ID,
		})
		return ErrResetTokenExpired
	}

	fields := ValidationErrors{}
	validatePassword(fields, "password", newPassword)
	validatePasswordConfirmation(fields, newPassword, confirmPassword)
	if len(fields) > 0 {
		return fields
	}

	user, err := s.userRepo.FindByEmail(reset.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset failed: account no longer exists", map[string]interface{}{
				"email": reset.Email,
			})
			return ErrResetTokenInvalid
		}
		return err
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, nil)
		return err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Error("Failed to mark reset token as used", err, map[string]interface{}{
			"reset_id": reset.ID,
		})
		return err
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *passwordResetService) CleanupExpired() error {
	return s.resetRepo.DeleteExpired()
}
