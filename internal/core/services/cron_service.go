package services

import (
	"context"
	"fmt"
	"time"

	"memberhub/internal/config"
	"memberhub/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// CronService runs the scheduled maintenance jobs
type CronService struct {
	cron          *cron.Cron
	memberService *MemberService
	authService   *AuthService
	cfg           config.CronConfig
}

// NewCronService creates a scheduler in UTC
func NewCronService(memberService *MemberService, authService *AuthService, cfg config.CronConfig) *CronService {
	return &CronService{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		memberService: memberService,
		authService:   authService,
		cfg:           cfg,
	}
}

// Start registers the jobs and starts the scheduler. Jobs run on the
// scheduler's own goroutines.
func (s *CronService) Start() error {
	if !s.cfg.Enabled {
		logger.Info("Cron disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.ExpirySpec, s.expireMemberships); err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", s.cfg.ExpirySpec, err)
	}
	// Expired refresh tokens are pruned once a day, after the expiry sweep
	if _, err := s.cron.AddFunc("30 1 * * *", s.cleanupTokens); err != nil {
		return fmt.Errorf("failed to schedule token cleanup: %w", err)
	}

	s.cron.Start()
	logger.Info("Cron started", "expirySpec", s.cfg.ExpirySpec, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron stopped")
}

func (s *CronService) expireMemberships() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.memberService.UpdateExpiredMembers(ctx)
	if err != nil {
		logger.Error("Membership expiry sweep failed", "error", err)
		return
	}
	logger.Info("Membership expiry sweep completed", "expired", count)
}

func (s *CronService) cleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.authService.CleanupExpiredTokens(ctx)
	if err != nil {
		logger.Error("Refresh token cleanup failed", "error", err)
		return
	}
	logger.Info("Refresh token cleanup completed", "deleted", count)
}
