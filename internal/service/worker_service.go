package service

import (
	"context"
	"time"

	"hcp-visit-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// TokenCleanupWorker periodically deletes expired and revoked refresh tokens
type TokenCleanupWorker struct {
	userRepo *repository.UserRepository
	interval time.Duration
	log      zerolog.Logger
}

func NewTokenCleanupWorker(userRepo *repository.UserRepository, interval time.Duration, log zerolog.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		userRepo: userRepo,
		interval: interval,
		log:      log.With().Str("worker", "token_cleanup").Logger(),
	}
}

// Start runs one purge immediately, then one per interval until ctx is cancelled
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", w.interval).Msg("Background worker started")
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce purges tokens that are revoked or past their expiry
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) int64 {
	purged, err := w.userRepo.PurgeRefreshTokens(ctx, time.Now())
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Error purging refresh tokens")
		}
		return 0
	}
	if purged > 0 {
		w.log.Info().Int64("purged", purged).Msg("Purged refresh tokens")
	}
	return purged
}
