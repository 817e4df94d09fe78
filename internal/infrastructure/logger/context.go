package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	subjectKey   contextKey = "subject"
	roleKey      contextKey = "role"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, a no-op logger if none is set
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithCaller stores the authenticated subject and its role in the context
func WithCaller(ctx context.Context, subject, role string) context.Context {
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, roleKey, role)
}

// GetRequestID retrieves the request id from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetSubject retrieves the caller subject from context
func GetSubject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// GetRole retrieves the caller role from context
func GetRole(ctx context.Context) string {
	r, _ := ctx.Value(roleKey).(string)
	return r
}

// L returns the context logger enriched with request, caller and trace fields.
//
//	logger.L(ctx).Info("Offer synced", zap.String("offer_id", id))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the correlation fields found in ctx to l
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	fields := make([]zap.Field, 0, 5)
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if s := GetSubject(ctx); s != "" {
		fields = append(fields, zap.String("subject", s))
	}
	if r := GetRole(ctx); r != "" {
		fields = append(fields, zap.String("role", r))
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
