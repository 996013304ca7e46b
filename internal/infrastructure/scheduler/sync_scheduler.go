// Package scheduler runs the periodic background jobs of the sync engine:
// the backlog sweep and the paid-invoice reconciliation.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when a scheduler interval or timeout is
// zero or negative
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// SyncRunner is the slice of the sync service the scheduler drives
type SyncRunner interface {
	// SyncBacklogScheduled sweeps pending submitted requests, honoring
	// the backlog toggle
	SyncBacklogScheduled(ctx context.Context) (int, error)

	// ReconcilePaid marks requests paid for invoices settled upstream
	ReconcilePaid(ctx context.Context) (int, error)
}

// SyncSchedulerConfig holds configuration for the sync scheduler
type SyncSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// BacklogInterval is the time between backlog sweeps
	BacklogInterval time.Duration
	// ReconcileInterval is the time between reconciliation runs
	ReconcileInterval time.Duration
	// JobTimeout is the maximum time a single run can take
	JobTimeout time.Duration
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Enabled:           true,
		BacklogInterval:   15 * time.Minute,
		ReconcileInterval: 1 * time.Hour,
		JobTimeout:        10 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.BacklogInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.ReconcileInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncScheduler periodically runs the backlog sweep and the paid-invoice
// reconciliation against the sync service
type SyncScheduler struct {
	config SyncSchedulerConfig
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner SyncRunner, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SyncScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}, nil
}

// Start starts the periodic job loops
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.backlogLoop(ctx)
	go s.reconcileLoop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("backlog_interval", s.config.BacklogInterval),
		zap.Duration("reconcile_interval", s.config.ReconcileInterval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler loops are active
func (s *SyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// backlogLoop periodically sweeps pending requests
func (s *SyncScheduler) backlogLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.BacklogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runBacklog(ctx)
		}
	}
}

// reconcileLoop periodically reconciles paid invoices
func (s *SyncScheduler) reconcileLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runReconcile(ctx)
		}
	}
}

// runBacklog executes one backlog sweep with the configured timeout
func (s *SyncScheduler) runBacklog(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	attempted, err := s.runner.SyncBacklogScheduled(jobCtx)
	if err != nil {
		s.logger.Error("Backlog sweep failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(started)))
		return
	}
	s.logger.Info("Backlog sweep finished",
		zap.Int("attempted", attempted),
		zap.Duration("elapsed", time.Since(started)))
}

// runReconcile executes one reconciliation run with the configured timeout
func (s *SyncScheduler) runReconcile(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	updated, err := s.runner.ReconcilePaid(jobCtx)
	if err != nil {
		s.logger.Error("Reconciliation failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(started)))
		return
	}
	s.logger.Info("Reconciliation finished",
		zap.Int("updated", updated),
		zap.Duration("elapsed", time.Since(started)))
}
