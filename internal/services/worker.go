package services

import (
	"context"
	"sync"
	"time"

	"github.com/workbridge/workbridge/internal/logger"
)

// LaunchSweeper launches a goroutine that periodically retires stale
// pending invitations. The sweep itself is a single idempotent
// operation, so the interval only bounds staleness; it is not a
// real-time guarantee.
func LaunchSweeper(ctx context.Context, wg *sync.WaitGroup, invitations *InvitationService, interval time.Duration) {
	defer wg.Done()

	logger.Infof("Invitation sweeper started (interval %s)", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Invitation sweeper received shutdown signal, stopping...")
			return
		case <-ticker.C:
			if _, err := invitations.SweepExpired(ctx); err != nil {
				logger.Errorf("Invitation sweep failed: %v", err)
			}
		}
	}
}
