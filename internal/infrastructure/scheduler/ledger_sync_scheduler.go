// Package scheduler runs the periodic offer reconciliation against the ledger.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crm/backend/internal/application/quote"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Run triggers
const (
	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerStartup  = "startup"
)

// OfferSyncer reconciles all ledger-linked offers
type OfferSyncer interface {
	SyncAll(ctx context.Context) (*quote.BatchSyncResponse, error)
}

// SyncRunObserver records the outcome of a run
type SyncRunObserver interface {
	ObserveSyncRun(ctx context.Context, trigger string, stats telemetry.SyncRunStats, duration time.Duration, runErr error)
}

// LedgerSyncConfig holds configuration for the ledger sync scheduler
type LedgerSyncConfig struct {
	// Interval between two runs
	Interval time.Duration
	// JobTimeout bounds a single run
	JobTimeout time.Duration
	// RunOnStart runs once right after Start
	RunOnStart bool
}

// DefaultLedgerSyncConfig returns default configuration
func DefaultLedgerSyncConfig() LedgerSyncConfig {
	return LedgerSyncConfig{
		Interval:   time.Hour,
		JobTimeout: 10 * time.Minute,
	}
}

// Validate validates the configuration
func (c *LedgerSyncConfig) Validate() error {
	if c.Interval <= 0 || c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// RunResult describes the last completed run
type RunResult struct {
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      telemetry.SyncRunStats
	Err        error
}

// LedgerSyncScheduler periodically reconciles offers with their remote
// quotations. At most one run is active at a time.
type LedgerSyncScheduler struct {
	config   LedgerSyncConfig
	syncer   OfferSyncer
	observer SyncRunObserver
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  atomic.Bool

	lastMu  sync.RWMutex
	lastRun *RunResult
}

// NewLedgerSyncScheduler creates a ledger sync scheduler. observer may be nil.
func NewLedgerSyncScheduler(config LedgerSyncConfig, syncer OfferSyncer, observer SyncRunObserver, logger *zap.Logger) (*LedgerSyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if syncer == nil {
		return nil, errors.New("scheduler: offer syncer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerSyncScheduler{
		config:   config,
		syncer:   syncer,
		observer: observer,
		logger:   logger.Named("ledger_sync"),
	}, nil
}

// Start starts the run loop
func (s *LedgerSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Ledger sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels the loop and waits for an active run to finish or for ctx to expire
func (s *LedgerSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Ledger sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Ledger sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *LedgerSyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// TriggerNow runs a sync immediately in the caller's goroutine
func (s *LedgerSyncScheduler) TriggerNow(ctx context.Context) (*RunResult, error) {
	if !s.IsRunning() {
		return nil, ErrSchedulerNotRunning
	}
	result, ok := s.runOnce(ctx, TriggerManual)
	if !ok {
		return nil, ErrSyncInProgress
	}
	return result, nil
}

// LastRun returns the most recent completed run, or nil
func (s *LedgerSyncScheduler) LastRun() *RunResult {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.lastRun == nil {
		return nil
	}
	r := *s.lastRun
	return &r
}

func (s *LedgerSyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runOnce(ctx, TriggerStartup)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, TriggerInterval)
		}
	}
}

// runOnce returns false when another run holds the slot
func (s *LedgerSyncScheduler) runOnce(ctx context.Context, trigger string) (*RunResult, bool) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Info("Skipping ledger sync, previous run still active", zap.String("trigger", trigger))
		return nil, false
	}
	defer s.inFlight.Store(false)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	jobCtx, span := telemetry.StartServiceSpan(jobCtx, "scheduler", "ledger_sync",
		telemetry.WithAttribute("trigger", trigger))
	defer span.End()

	result := &RunResult{Trigger: trigger, StartedAt: time.Now()}
	resp, err := s.syncer.SyncAll(jobCtx)
	result.FinishedAt = time.Now()
	result.Err = err
	var failures []quote.SyncFailure
	if resp != nil {
		failures = resp.Failures
		result.Stats = telemetry.SyncRunStats{
			Total:   resp.Total,
			Synced:  resp.Synced,
			Deleted: resp.Deleted,
			Failed:  len(resp.Failures),
		}
	}
	duration := result.FinishedAt.Sub(result.StartedAt)

	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Ledger sync failed",
			zap.String("trigger", trigger),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		telemetry.SetOK(span)
		s.logger.Info("Ledger sync completed",
			zap.String("trigger", trigger),
			zap.Duration("duration", duration),
			zap.Int("total", result.Stats.Total),
			zap.Int("synced", result.Stats.Synced),
			zap.Int("deleted", result.Stats.Deleted),
			zap.Int("failed", result.Stats.Failed),
		)
		for _, f := range failures {
			s.logger.Warn("Offer sync failed",
				zap.String("offer_id", f.OfferID.String()),
				zap.String("error", f.Error),
			)
		}
	}

	if s.observer != nil {
		s.observer.ObserveSyncRun(ctx, trigger, result.Stats, duration, err)
	}

	s.lastMu.Lock()
	s.lastRun = result
	s.lastMu.Unlock()

	return result, true
}
