package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the structured logging key for ledger run identifiers.
	FieldRunID = "run_id"
	// FieldDocID is the structured logging key for document identifiers.
	FieldDocID = "doc_id"
	// FieldReason is the structured logging key for rejection reasons.
	FieldReason = "reason"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
)

type contextKey int

const (
	runIDKey contextKey = iota
	docIDKey
)

// WithRunID stores the run identifier on ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithDocID stores the document identifier on ctx.
func WithDocID(ctx context.Context, docID string) context.Context {
	return context.WithValue(ctx, docIDKey, docID)
}

// DocIDFromContext returns the document identifier stored by WithDocID.
func DocIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(docIDKey).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := DocIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldDocID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
