package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging across coredata.
const (
	// Registry
	FieldCore      = "core"
	FieldNamespace = "namespace"
	FieldGroup     = "group"
	FieldType      = "type"
	FieldRecordID  = "record_id"

	// Storage
	FieldAdapter   = "adapter"
	FieldExtension = "extension"
	FieldTable     = "table"
	FieldPath      = "path"

	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Counts and timing
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

type contextKey string

const (
	componentKey contextKey = "logger_component"
	coreKey      contextKey = "logger_core"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithCore adds a data core name to the context for logging
func WithCore(ctx context.Context, core string) context.Context {
	return context.WithValue(ctx, coreKey, core)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if core, ok := ctx.Value(coreKey).(string); ok && core != "" {
		fields = append(fields, FieldCore, core)
	}

	return fields
}

// LoggerFromContext returns the global logger with the context fields attached.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Pool struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewPool() *Pool {
//	    return &Pool{logger: logger.ComponentLogger("storage.pool")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
