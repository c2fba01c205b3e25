package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QueryTracingConfig controls GORM statement instrumentation. Callers decide
// whether to instrument at all; this type only shapes what the spans carry.
type QueryTracingConfig struct {
	// LogFullSQL includes bound query variables in span statements.
	// Leave off outside development: identifiers and actor IDs would
	// otherwise end up in the trace backend.
	LogFullSQL bool
	// SlowThreshold marks statements slower than this on their span.
	SlowThreshold time.Duration
}

// DefaultQueryTracingConfig returns the production defaults: variables
// stripped, 200ms slow-statement threshold.
func DefaultQueryTracingConfig() QueryTracingConfig {
	return QueryTracingConfig{
		LogFullSQL:    false,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// QueryTracer instruments a GORM connection with otelgorm spans plus a
// timing callback that flags slow statements and records statement errors
// on the active span.
type QueryTracer struct {
	cfg QueryTracingConfig
	log *zap.Logger
}

// NewQueryTracer creates a QueryTracer with the given configuration.
func NewQueryTracer(cfg QueryTracingConfig, log *zap.Logger) *QueryTracer {
	return &QueryTracer{cfg: cfg, log: log}
}

// Instrument registers the otelgorm plugin and the timing callbacks on db.
// It always instruments; gating on configuration belongs to the caller.
func (t *QueryTracer) Instrument(db *gorm.DB) error {
	var opts []otelgorm.Option
	if !t.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := t.registerTiming(db); err != nil {
		return err
	}

	t.log.Info("Database query tracing enabled",
		zap.Bool("log_full_sql", t.cfg.LogFullSQL),
		zap.Duration("slow_threshold", t.cfg.SlowThreshold),
	)
	return nil
}

// registerTiming hooks every statement kind with a start-time marker and a
// finishing callback.
func (t *QueryTracer) registerTiming(db *gorm.DB) error {
	hooks := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
		fn       func(*gorm.DB)
	}{
		{"query_tracing:start_create", db.Callback().Create().Before("gorm:create").Register, markStatementStart},
		{"query_tracing:start_query", db.Callback().Query().Before("gorm:query").Register, markStatementStart},
		{"query_tracing:start_update", db.Callback().Update().Before("gorm:update").Register, markStatementStart},
		{"query_tracing:start_delete", db.Callback().Delete().Before("gorm:delete").Register, markStatementStart},
		{"query_tracing:start_row", db.Callback().Row().Before("gorm:row").Register, markStatementStart},
		{"query_tracing:start_raw", db.Callback().Raw().Before("gorm:raw").Register, markStatementStart},
		{"query_tracing:finish_create", db.Callback().Create().After("gorm:create").Register, t.finishStatement},
		{"query_tracing:finish_query", db.Callback().Query().After("gorm:query").Register, t.finishStatement},
		{"query_tracing:finish_update", db.Callback().Update().After("gorm:update").Register, t.finishStatement},
		{"query_tracing:finish_delete", db.Callback().Delete().After("gorm:delete").Register, t.finishStatement},
		{"query_tracing:finish_row", db.Callback().Row().After("gorm:row").Register, t.finishStatement},
		{"query_tracing:finish_raw", db.Callback().Raw().After("gorm:raw").Register, t.finishStatement},
	}
	for _, h := range hooks {
		if err := h.register(h.name, h.fn); err != nil {
			return err
		}
	}
	return nil
}

type statementStartKey struct{}

func markStatementStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, statementStartKey{}, time.Now())
	}
}

// finishStatement annotates the active span after a statement runs: rows
// affected, table, errors, and a slow_query marker when the statement took
// longer than the configured threshold.
func (t *QueryTracer) finishStatement(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// Not-found is an ordinary outcome for lookups, never a span error.
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(statementStartKey{}).(time.Time); ok {
		elapsed := time.Since(start)
		if elapsed > t.cfg.SlowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", t.cfg.SlowThreshold.Milliseconds()),
			))
		}
	}
}
