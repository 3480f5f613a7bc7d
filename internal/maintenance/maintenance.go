// Package maintenance runs the gateway's periodic, request-independent
// housekeeping: pruning expired rate-limit records from the in-memory store
// and probing downstream health. Redis records expire through their own TTLs
// and need no pruning.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
	"github.com/bl1nk-platform/edge-gateway/internal/metrics"
	"github.com/bl1nk-platform/edge-gateway/internal/ratelimit"
)

// Runner executes maintenance tasks on a fixed interval until stopped.
// Safe to Stop at most once; Stop waits for the loop to exit.
type Runner struct {
	interval  time.Duration
	store     *ratelimit.MemoryStore
	forwarder *forwarder.Forwarder
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a runner. store may be nil when rate limiting uses Redis;
// forwarder may not be nil.
func New(interval time.Duration, store *ratelimit.MemoryStore, f *forwarder.Forwarder, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		interval:  interval,
		store:     store,
		forwarder: f,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the background loop.
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Stop cancels the loop and waits for it to finish.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(r.ctx)
		}
	}
}

// RunOnce executes one maintenance pass. Exposed for tests and for an
// eager pass at startup.
func (r *Runner) RunOnce(ctx context.Context) {
	if r.store != nil {
		pruned := r.store.Prune(time.Now())
		if pruned > 0 {
			metrics.RateLimitRecordsPruned.Add(float64(pruned))
			r.logger.Debug("pruned expired rate-limit records", slog.Int("count", pruned))
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.forwarder.Probe(probeCtx); err != nil {
		metrics.DownstreamUp.Set(0)
		r.logger.Warn("downstream health probe failed", slog.String("error", err.Error()))
		return
	}
	metrics.DownstreamUp.Set(1)
}
