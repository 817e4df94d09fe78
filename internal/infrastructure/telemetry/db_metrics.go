package telemetry

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DefaultPoolStatsInterval is how often connection pool stats are sampled
const DefaultPoolStatsInterval = 15 * time.Second

// DBPoolMetrics samples database/sql pool statistics into gauges.
type DBPoolMetrics struct {
	connections    *Gauge
	maxConnections *Gauge
	waitCount      *Gauge

	sqlDB    *sql.DB
	interval time.Duration
	logger   *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBPoolMetrics creates the pool gauges for sqlDB
func NewDBPoolMetrics(meter metric.Meter, sqlDB *sql.DB, interval time.Duration, logger *zap.Logger) (*DBPoolMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if interval <= 0 {
		interval = DefaultPoolStatsInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &DBPoolMetrics{sqlDB: sqlDB, interval: interval, logger: logger, stopCh: make(chan struct{})}
	var err error
	if m.connections, err = NewGauge(meter, "db_pool_connections",
		"Number of connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.maxConnections, err = NewGauge(meter, "db_pool_connections_max",
		"Maximum number of open connections", "{connection}"); err != nil {
		return nil, err
	}
	if m.waitCount, err = NewGauge(meter, "db_pool_wait_count",
		"Total number of connections waited for", "{wait}"); err != nil {
		return nil, err
	}
	return m, nil
}

// Start samples immediately and then on every interval until Stop or ctx ends
func (m *DBPoolMetrics) Start(ctx context.Context) {
	if m.sqlDB == nil {
		m.logger.Warn("Cannot start pool stats collection: sql.DB not set")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.Collect(ctx)
		for {
			select {
			case <-ticker.C:
				m.Collect(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Collect records the current pool statistics once
func (m *DBPoolMetrics) Collect(ctx context.Context) {
	if m.sqlDB == nil {
		return
	}
	stats := m.sqlDB.Stats()
	m.maxConnections.Record(ctx, int64(stats.MaxOpenConnections))
	m.waitCount.Record(ctx, stats.WaitCount)
	m.connections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.connections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.connections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends collection; safe to call more than once
func (m *DBPoolMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}
