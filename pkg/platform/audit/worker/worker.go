// Package worker persists audit events delivered over a channel.
package worker

import (
	"context"

	audit "onboard/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them, keeping
// store writes off the handler and service paths: emitters enqueue, the
// worker owns the write.
type Worker struct {
	store audit.Store
	inbox <-chan audit.Event
}

func NewWorker(store audit.Store, inbox <-chan audit.Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run appends events until ctx is cancelled or a write fails. On shutdown it
// drains events already buffered in the inbox before returning, so a clean
// stop does not drop accepted events.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return
			}
		default:
			return
		}
	}
}
