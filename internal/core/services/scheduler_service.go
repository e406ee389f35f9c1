package services

import (
	"context"
	"log"
	"time"

	"palika-console/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the nightly maintenance jobs: flagging overdue
// monthly reports as delayed and purging expired refresh tokens.
type SchedulerService struct {
	reportRepo       repositories.ReportRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	reportRepo repositories.ReportRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *SchedulerService {
	return &SchedulerService{
		reportRepo:       reportRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start registers the jobs and starts the cron loop
func (s *SchedulerService) Start() error {
	// Nightly at 00:30: past-due reports that never completed go delayed
	if _, err := s.cron.AddFunc("30 0 * * *", s.sweepDelayedReports); err != nil {
		return err
	}

	// Nightly at 01:00: drop refresh tokens past their expiry
	if _, err := s.cron.AddFunc("0 1 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Scheduler started (delayed-report sweep, token purge)")
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Scheduler stopped")
}

// sweepDelayedReports flags pending and in-progress reports from past
// months as delayed.
func (s *SchedulerService) sweepDelayedReports() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	changed, err := s.reportRepo.MarkDelayed(ctx, now.Year(), int(now.Month()))
	if err != nil {
		log.Printf("⚠️ Delayed-report sweep failed: %v", err)
		return
	}
	if changed > 0 {
		log.Printf("✅ Delayed-report sweep: %d report(s) flagged", changed)
	}
}

// purgeExpiredTokens deletes refresh tokens past their expiry
func (s *SchedulerService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Expired-token purge failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
