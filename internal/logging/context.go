package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{ name string }

var (
	topicKey  = contextKey{"topic"}
	recordKey = contextKey{"record_id"}
)

// WithTopic stores the publish topic on ctx for WithContext.
func WithTopic(ctx context.Context, topic string) context.Context {
	if topic == "" {
		return ctx
	}
	return context.WithValue(ctx, topicKey, topic)
}

// WithRecordID stores the history record ID on ctx for WithContext.
func WithRecordID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, recordKey, id)
}

// WithContext returns logger enriched with the topic and record ID found on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var attrs []any
	if topic, ok := ctx.Value(topicKey).(string); ok {
		attrs = append(attrs, String(FieldTopic, topic))
	}
	if id, ok := ctx.Value(recordKey).(string); ok {
		attrs = append(attrs, String(FieldRecordID, id))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
