// Package cleanup provides background worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
)

// Worker periodically purges expired fragments
type Worker struct {
	cache  interfaces.FragmentCache
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache interfaces.FragmentCache, config *Config, logger *logging.ChanneledLogger) *Worker {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Worker{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Start runs until ctx is cancelled. A non-positive interval or TTL disables the worker.
func (w *Worker) Start(ctx context.Context) {
	if w.config.CleanupInterval <= 0 || w.config.FragmentCacheTTL <= 0 {
		w.logger.Cache().Info("Cache cleanup worker disabled")
		return
	}

	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.config.CleanupInterval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single cleanup pass and returns the number of purged chunks
func (w *Worker) RunOnce() int {
	start := time.Now()
	purged := w.cache.PurgeExpiredChunks()
	if purged > 0 {
		w.logger.Cache().Info("Purged expired fragments", "count", purged, "duration", time.Since(start))
	}
	return purged
}
