package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MaintenanceScheduler runs periodic cache maintenance against a
// LazyLoader: TTL eviction plus a change scan, on a cron schedule.
type MaintenanceScheduler struct {
	loader   *LazyLoader
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewMaintenanceScheduler creates a scheduler for the loader. The
// schedule uses standard cron syntax, e.g. "*/10 * * * *" for every ten
// minutes. An empty schedule disables the scheduler.
func NewMaintenanceScheduler(loader *LazyLoader, schedule string, logger *slog.Logger) *MaintenanceScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MaintenanceScheduler{
		loader:   loader,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "rule.scheduler"),
	}
}

// Start begins scheduled maintenance. If the schedule is empty this is a
// no-op.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("maintenance schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runMaintenance); err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cache maintenance scheduler started",
		"schedule", s.schedule,
		"ttl", s.loader.ttl.String(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runMaintenance executes one maintenance cycle.
func (s *MaintenanceScheduler) runMaintenance() {
	evicted := s.loader.ClearExpiredCache()
	reloaded := s.loader.ScanForChanges()

	if evicted > 0 || reloaded > 0 {
		s.logger.Info("cache maintenance completed",
			"evicted", evicted,
			"reloaded", reloaded,
		)
	} else {
		s.logger.Debug("cache maintenance completed, nothing to do")
	}
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("cache maintenance scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled maintenance time.
func (s *MaintenanceScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
