package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/integration"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Ledger call outcomes
const (
	OutcomeOK              = "ok"
	OutcomeNotFound        = "not_found"
	OutcomeUnavailable     = "unavailable"
	OutcomeRequestFailed   = "request_failed"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeError           = "error"
)

// SyncRunStats summarises one reconciliation run
type SyncRunStats struct {
	Total   int
	Synced  int
	Deleted int
	Failed  int
}

// PipelineMetrics records ledger traffic and offer reconciliation.
// It satisfies the ledger client's call observer.
type PipelineMetrics struct {
	ledgerCalls    *Counter
	ledgerDuration *Histogram

	syncRuns     *Counter
	syncOffers   *Counter
	syncDuration *Histogram
	lastSyncSize *Gauge
}

// NewPipelineMetrics creates the instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &PipelineMetrics{}

	var err error
	if m.ledgerCalls, err = NewCounter(meter, "crm_ledger_calls_total",
		"Ledger API calls by operation and outcome", "{call}"); err != nil {
		return nil, err
	}
	if m.ledgerDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "crm_ledger_call_duration_seconds",
		Description: "Ledger API call latency",
		Unit:        "s",
		Boundaries:  LedgerDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.syncRuns, err = NewCounter(meter, "crm_offer_sync_runs_total",
		"Batch reconciliation runs by trigger and outcome", "{run}"); err != nil {
		return nil, err
	}
	if m.syncOffers, err = NewCounter(meter, "crm_offer_sync_offers_total",
		"Offers processed by batch reconciliation by outcome", "{offer}"); err != nil {
		return nil, err
	}
	if m.syncDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "crm_offer_sync_duration_seconds",
		Description: "Duration of batch reconciliation runs",
		Unit:        "s",
		Boundaries:  SyncDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.lastSyncSize, err = NewGauge(meter, "crm_offer_sync_linked_offers",
		"Offers linked to a ledger quotation at the last run", "{offer}"); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveLedgerCall records one ledger call
func (m *PipelineMetrics) ObserveLedgerCall(ctx context.Context, operation string, duration time.Duration, err error) {
	outcome := LedgerOutcome(err)
	m.ledgerCalls.Inc(ctx, AttrLedgerOperation.String(operation), AttrLedgerOutcome.String(outcome))
	m.ledgerDuration.RecordDuration(ctx, duration, AttrLedgerOperation.String(operation))
}

// ObserveSyncRun records one batch reconciliation run. runErr is the error that
// aborted the run, nil when it completed.
func (m *PipelineMetrics) ObserveSyncRun(ctx context.Context, trigger string, stats SyncRunStats, duration time.Duration, runErr error) {
	outcome := OutcomeOK
	if runErr != nil {
		outcome = OutcomeError
	}
	m.syncRuns.Inc(ctx, AttrTrigger.String(trigger), AttrSyncOutcome.String(outcome))
	m.syncDuration.RecordDuration(ctx, duration, AttrTrigger.String(trigger))
	m.lastSyncSize.Record(ctx, int64(stats.Total))

	updated := stats.Synced - stats.Deleted
	if updated > 0 {
		m.syncOffers.Add(ctx, int64(updated), AttrSyncOutcome.String("updated"))
	}
	if stats.Deleted > 0 {
		m.syncOffers.Add(ctx, int64(stats.Deleted), AttrSyncOutcome.String("removed"))
	}
	if stats.Failed > 0 {
		m.syncOffers.Add(ctx, int64(stats.Failed), AttrSyncOutcome.String("failed"))
	}
}

// LedgerOutcome classifies a ledger call error
func LedgerOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, integration.ErrLedgerNotFound):
		return OutcomeNotFound
	case errors.Is(err, integration.ErrLedgerUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, integration.ErrLedgerRequestFailed):
		return OutcomeRequestFailed
	case errors.Is(err, integration.ErrLedgerInvalidResponse):
		return OutcomeInvalidResponse
	default:
		return OutcomeError
	}
}
