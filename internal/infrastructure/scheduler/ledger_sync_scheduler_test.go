package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crm/backend/internal/application/quote"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubSyncer struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	resp    *quote.BatchSyncResponse
	err     error
}

func (s *stubSyncer) SyncAll(ctx context.Context) (*quote.BatchSyncResponse, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

type MockSyncRunObserver struct {
	mock.Mock
}

func (m *MockSyncRunObserver) ObserveSyncRun(ctx context.Context, trigger string, stats telemetry.SyncRunStats, duration time.Duration, runErr error) {
	m.Called(ctx, trigger, stats, duration, runErr)
}

func testConfig() LedgerSyncConfig {
	return LedgerSyncConfig{Interval: time.Hour, JobTimeout: time.Second}
}

func TestLedgerSyncConfig_Validate(t *testing.T) {
	cfg := DefaultLedgerSyncConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Interval = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultLedgerSyncConfig()
	cfg.JobTimeout = -time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestNewLedgerSyncScheduler_RequiresSyncer(t *testing.T) {
	_, err := NewLedgerSyncScheduler(testConfig(), nil, nil, nil)
	assert.Error(t, err)
}

func TestLedgerSyncScheduler_TriggerNow(t *testing.T) {
	syncer := &stubSyncer{resp: &quote.BatchSyncResponse{
		Total:    3,
		Synced:   1,
		Deleted:  1,
		Failures: []quote.SyncFailure{{OfferID: uuid.New(), Error: "ledger unavailable"}},
	}}
	observer := new(MockSyncRunObserver)
	want := telemetry.SyncRunStats{Total: 3, Synced: 1, Deleted: 1, Failed: 1}
	observer.On("ObserveSyncRun", mock.Anything, TriggerManual, want, mock.AnythingOfType("time.Duration"), nil).Once()

	s, err := NewLedgerSyncScheduler(testConfig(), syncer, observer, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = s.TriggerNow(context.Background())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	result, err := s.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, result.Stats)
	assert.Equal(t, TriggerManual, result.Trigger)
	assert.NoError(t, result.Err)

	last := s.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, result.StartedAt, last.StartedAt)
	observer.AssertExpectations(t)
}

func TestLedgerSyncScheduler_RunErrorIsReported(t *testing.T) {
	runErr := errors.New("ledger system is not configured")
	syncer := &stubSyncer{err: runErr}
	observer := new(MockSyncRunObserver)
	observer.On("ObserveSyncRun", mock.Anything, TriggerManual, telemetry.SyncRunStats{}, mock.Anything, runErr).Once()

	s, err := NewLedgerSyncScheduler(testConfig(), syncer, observer, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	result, err := s.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, result.Err, runErr)
	observer.AssertExpectations(t)
}

func TestLedgerSyncScheduler_SkipsOverlappingRuns(t *testing.T) {
	syncer := &stubSyncer{
		resp:    &quote.BatchSyncResponse{},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	cfg := testConfig()
	cfg.RunOnStart = true

	s, err := NewLedgerSyncScheduler(cfg, syncer, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-syncer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("startup run did not begin")
	}

	_, err = s.TriggerNow(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(syncer.release)
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, int32(1), syncer.calls.Load())
	assert.False(t, s.IsRunning())
}

func TestLedgerSyncScheduler_StopCancelsActiveRun(t *testing.T) {
	syncer := &stubSyncer{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	cfg := testConfig()
	cfg.RunOnStart = true

	s, err := NewLedgerSyncScheduler(cfg, syncer, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	<-syncer.started

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	last := s.LastRun()
	require.NotNil(t, last)
	assert.ErrorIs(t, last.Err, context.Canceled)
	assert.Equal(t, TriggerStartup, last.Trigger)
}

func TestLedgerSyncScheduler_IntervalRuns(t *testing.T) {
	syncer := &stubSyncer{resp: &quote.BatchSyncResponse{}}
	cfg := LedgerSyncConfig{Interval: 10 * time.Millisecond, JobTimeout: time.Second}

	s, err := NewLedgerSyncScheduler(cfg, syncer, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return syncer.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, TriggerInterval, s.LastRun().Trigger)
}

func TestLedgerSyncScheduler_StartStopIdempotent(t *testing.T) {
	s, err := NewLedgerSyncScheduler(testConfig(), &stubSyncer{}, nil, nil)
	require.NoError(t, err)

	assert.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
