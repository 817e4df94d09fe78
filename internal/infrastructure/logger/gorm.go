package logger

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultSlowThreshold = 200 * time.Millisecond
	defaultMaxSQLLength  = 2000
)

// tablePattern finds the main table of a statement for the "table" field
var tablePattern = regexp.MustCompile(`(?i)\b(?:from|into|update|join)\s+"?([a-z_][a-z0-9_]*)"?`)

// GormLogger routes GORM statements through zap. Statement logs carry the
// request id and trace ids of the context they ran in.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	maxSQLLength  int
	// Lookups by id report a missing row as ErrRecordNotFound; that is not an error here.
	logNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged at WARN.
// Zero disables slow statement logging.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = threshold }
}

// WithRecordNotFound logs gorm.ErrRecordNotFound as an error
func WithRecordNotFound() GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = true }
}

// WithMaxSQLLength truncates logged statements. Zero keeps them whole.
func WithMaxSQLLength(n int) GormLoggerOption {
	return func(l *GormLogger) { l.maxSQLLength = n }
}

// NewGormLogger creates a GORM logger writing to the "gorm" child of zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		level:         level,
		slowThreshold: defaultSlowThreshold,
		maxSQLLength:  defaultMaxSQLLength,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.enabled(gormlogger.Info) {
		Enrich(ctx, l.logger).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.enabled(gormlogger.Warn) {
		Enrich(ctx, l.logger).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.enabled(gormlogger.Error) {
		Enrich(ctx, l.logger).Sugar().Errorf(msg, data...)
	}
}

// Trace logs a finished statement: failures at ERROR, slow statements at WARN
// and everything else at DEBUG when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && l.enabled(gormlogger.Error) &&
		(l.logNotFound || !errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold && l.enabled(gormlogger.Warn)
	if !failed && !slow && !l.enabled(gormlogger.Info) {
		return
	}

	sql, rows := fc()
	fields := l.statementFields(sql, rows, elapsed)
	log := Enrich(ctx, l.logger)

	switch {
	case failed:
		log.Error("SQL statement failed", append(fields, zap.Error(err))...)
	case slow:
		log.Warn("Slow SQL statement", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	default:
		log.Debug("SQL statement", fields...)
	}
}

func (l *GormLogger) enabled(level gormlogger.LogLevel) bool {
	return l.level >= level
}

func (l *GormLogger) statementFields(sql string, rows int64, elapsed time.Duration) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if m := tablePattern.FindStringSubmatch(sql); m != nil {
		fields = append(fields, zap.String("table", strings.ToLower(m[1])))
	}
	if l.maxSQLLength > 0 && len(sql) > l.maxSQLLength {
		sql = sql[:l.maxSQLLength] + "..."
	}
	// rows is -1 when GORM does not know the count
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	return append(fields, zap.Duration("elapsed", elapsed), zap.String("sql", sql))
}

// MapGormLogLevel maps the application log level to a GORM log level.
// Statements are only logged at "debug"; "info" keeps slow statements and errors.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
