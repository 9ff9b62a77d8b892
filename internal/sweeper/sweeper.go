// Package sweeper evicts devices and services whose registrations have
// gone stale. Entities refresh their lastUpdate by re-registering over
// HTTP or by publishing an MQTT heartbeat; anything silent for longer
// than the configured threshold is removed on the next pass.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/verdantech/greenhouse-core/internal/catalog"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/logging"
)

// registry is the slice of the catalog the sweeper needs.
type registry interface {
	SweepInactive(threshold time.Duration, now time.Time) (catalog.SweepResult, error)
}

// Metrics receives sweep outcomes. Optional.
type Metrics interface {
	WriteSweep(evictedDevices, evictedServices int, took time.Duration)
}

// Sweeper periodically removes inactive devices and services.
type Sweeper struct {
	registry  registry
	interval  time.Duration
	threshold time.Duration
	log       *logging.Logger
	metrics   Metrics

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates a sweeper. metrics may be nil.
func New(reg registry, interval, threshold time.Duration, log *logging.Logger, m Metrics) *Sweeper {
	if log == nil {
		log = logging.Default()
	}
	return &Sweeper{
		registry:  reg,
		interval:  interval,
		threshold: threshold,
		log:       log,
		metrics:   m,
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop. The first pass runs after one full
// interval, not immediately, so devices registered before a restart get
// a chance to heartbeat.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.Info("sweeper started",
			"interval", s.interval.String(),
			"inactive_threshold", s.threshold.String(),
		)

		for {
			select {
			case <-ctx.Done():
				s.log.Info("sweeper stopped")
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// sweep runs one pass.
func (s *Sweeper) sweep() {
	start := time.Now()
	result, err := s.registry.SweepInactive(s.threshold, start)
	if err != nil {
		s.log.Error("sweep failed", "error", err)
		return
	}
	took := time.Since(start)

	if len(result.Devices) > 0 || len(result.Services) > 0 {
		s.log.Info("sweep evicted inactive entries",
			"devices", result.Devices,
			"services", result.Services,
			"took", took.String(),
		)
	}
	if s.metrics != nil {
		s.metrics.WriteSweep(len(result.Devices), len(result.Services), took)
	}
}

// Close stops the sweep loop and waits for the in-flight pass to finish.
func (s *Sweeper) Close() error {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
	})
	return nil
}
