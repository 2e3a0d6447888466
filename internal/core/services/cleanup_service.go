package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/pkg/jwt"
)

// CleanupService runs scheduled maintenance: pruning expired refresh
// tokens from storage and expired entries from the revocation set.
type CleanupService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	revocations      *jwt.RevocationSet
	cron             *cron.Cron
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(refreshTokenRepo repositories.RefreshTokenRepository, revocations *jwt.RevocationSet) *CleanupService {
	return &CleanupService{
		refreshTokenRepo: refreshTokenRepo,
		revocations:      revocations,
		cron:             cron.New(),
	}
}

// Start schedules the cleanup jobs and launches the scheduler
func (s *CleanupService) Start() error {
	// Expired refresh tokens hourly
	if _, err := s.cron.AddFunc("@hourly", s.pruneRefreshTokens); err != nil {
		return err
	}

	// Revocation set every 10 minutes; entries outlive their token's
	// expiry only until this fires
	if _, err := s.cron.AddFunc("@every 10m", s.pruneRevocations); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 CleanupService started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CleanupService stopped")
}

func (s *CleanupService) pruneRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Refresh token cleanup error: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🗑️ Pruned %d expired refresh tokens", deleted)
	}
}

func (s *CleanupService) pruneRevocations() {
	if pruned := s.revocations.PruneExpired(time.Now()); pruned > 0 {
		log.Printf("🗑️ Pruned %d expired revocation entries", pruned)
	}
}
