package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
)

type blockingRelay struct {
	runs atomic.Int32
}

func (r *blockingRelay) Run(ctx context.Context) error {
	r.runs.Add(1)
	<-ctx.Done()
	return nil
}

type failingRelay struct{}

func (failingRelay) Run(context.Context) error { return errors.New("connection refused") }

func TestWorkerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	relay := &blockingRelay{}
	dispatcher := events.NewInMemoryDispatcher(nil)
	stop := StartNotificationWorker(ctx, service.NewNotificationService(dispatcher, nil), relay, zap.NewNop())

	deadline := time.Now().Add(time.Second)
	for relay.runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	if relay.runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", relay.runs.Load())
	}
}

func TestRunRelayReturnsOnCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runRelay(ctx, failingRelay{}, zap.NewNop())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runRelay kept retrying after cancel")
	}
}

func TestWorkerWithoutRelay(t *testing.T) {
	stop := StartNotificationWorker(context.Background(), nil, nil, zap.NewNop())
	stop()
}
