package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vortisllc/memre-backend/internal/services"
)

// Worker periodically sweeps every provisioned user for due reminders and
// dispatches them, so delivery does not depend on clients polling the API.
type Worker struct {
	meta     *services.MetaStore
	dispatch *services.DispatchService
	interval time.Duration
	done     chan struct{}
}

func New(meta *services.MetaStore, dispatch *services.DispatchService, interval time.Duration) *Worker {
	return &Worker{
		meta:     meta,
		dispatch: dispatch,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called.
func (w *Worker) Start() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		slog.Info("reminder sweep worker started", "interval", w.interval)
		for {
			select {
			case <-ticker.C:
				w.sweep()
			case <-w.done:
				slog.Info("reminder sweep worker stopped")
				return
			}
		}
	}()
}

func (w *Worker) Stop() {
	close(w.done)
}

func (w *Worker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	userIDs, err := w.meta.ProvisionedUserIDs()
	if err != nil {
		slog.Error("sweep failed to list users", "error", err)
		return
	}

	now := time.Now().UTC()
	dispatched := 0
	for _, userID := range userIDs {
		items, err := w.dispatch.ScanAndDispatch(ctx, userID, now)
		if err != nil {
			slog.Error("sweep failed for user", "user_id", userID, "error", err)
			continue
		}
		dispatched += len(items)
	}

	if dispatched > 0 {
		slog.Info("sweep finished", "users", len(userIDs), "dispatched", dispatched)
	}
}
