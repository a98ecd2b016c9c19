package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
)

// Relay forwards events published by other instances to local subscribers.
type Relay interface {
	Run(ctx context.Context) error
}

const (
	minRelayBackoff = time.Second
	maxRelayBackoff = 30 * time.Second
)

// StartNotificationWorker registers notification handlers and, when a relay
// is given, keeps it running until ctx is cancelled. The returned function
// unsubscribes the handlers and waits for the relay to stop.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, relay Relay, logger *zap.Logger) (stop func()) {
	unsubscribe := func() {}
	if notificationService != nil {
		unsubscribe = notificationService.RegisterHandlers()
	}

	var wg sync.WaitGroup
	if relay != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runRelay(ctx, relay, logger)
		}()
	}

	return func() {
		unsubscribe()
		wg.Wait()
	}
}

// runRelay restarts the relay with exponential backoff when the subscription
// drops.
func runRelay(ctx context.Context, relay Relay, logger *zap.Logger) {
	backoff := minRelayBackoff
	for {
		err := relay.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("event relay stopped; retrying", zap.Error(err), zap.Duration("backoff", backoff))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < maxRelayBackoff {
			backoff *= 2
		}
	}
}
