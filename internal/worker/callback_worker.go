// Package worker hosts the background loops that run alongside the HTTP server.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yashvavaliya/DBC-new-section/internal/service"
)

// CallbackWorker drains the webhook retry queue on a fixed interval. Failed
// catalog deliveries stay queued with a backoff schedule; this loop is what
// picks them back up.
type CallbackWorker struct {
	callbacks *service.CallbackService
	interval  time.Duration
}

// NewCallbackWorker constructs a CallbackWorker.
func NewCallbackWorker(callbacks *service.CallbackService, interval time.Duration) *CallbackWorker {
	return &CallbackWorker{callbacks: callbacks, interval: interval}
}

// Start runs the retry loop until ctx is cancelled. One pass runs immediately
// so deliveries queued before a restart are not stuck waiting a full interval.
func (w *CallbackWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting callback worker")

	w.drain()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.drain()
		case <-ctx.Done():
			log.Info().Msg("Callback worker stopped")
			return
		}
	}
}

func (w *CallbackWorker) drain() {
	n, err := w.callbacks.RetryPendingCallbacks()
	if err != nil {
		log.Error().Err(err).Msg("Failed to process pending callbacks")
		return
	}
	if n > 0 {
		log.Info().Int("count", n).Msg("Retried pending callbacks")
	}
}
