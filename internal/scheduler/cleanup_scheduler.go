package scheduler

import (
	"github.com/gemcompare/gemcompare-backend/internal/app/service"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CleanupScheduler prunes expired password reset records overnight.
type CleanupScheduler struct {
	cron                 *cron.Cron
	passwordResetService service.PasswordResetService
}

func NewCleanupScheduler(passwordResetService service.PasswordResetService) *CleanupScheduler {
	return &CleanupScheduler{
		cron:                 cron.New(),
		passwordResetService: passwordResetService,
	}
}

// Start registers the nightly job and kicks off the cron loop.
func (s *CleanupScheduler) Start() error {
	// Every day at 03:00
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled password reset cleanup", nil)

		if err := s.passwordResetService.CleanupExpired(); err != nil {
			logger.Error("Failed to clean up expired password resets", err)
			return
		}

		logger.Info("Expired password resets cleaned up", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for reset cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop halts the cron loop.
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cleanup scheduler stopped", nil)
}
