package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/query"
)

// Extractor turns free text into a ParsedQuery. Failures are carried in the
// result, not returned.
type Extractor interface {
	Extract(ctx context.Context, q string) model.ParsedQuery
}

// Executor runs a compiled filter query. Failures are carried in the result.
type Executor interface {
	Execute(ctx context.Context, q query.FilterQuery) model.ExecutionResult
}

// State is the per-run record threaded through the stages. It is created
// fresh for every run and never shared.
type State struct {
	Query       string
	ParsedQuery model.ParsedQuery
	FilterQuery query.FilterQuery
	Result      model.ExecutionResult
}

// Pipeline owns one search: extract → build → execute → format.
type Pipeline struct {
	extractor Extractor
	builder   *query.Builder
	executor  Executor
	logger    *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(extractor Extractor, builder *query.Builder, executor Executor, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		builder:   builder,
		executor:  executor,
		logger:    logger,
	}
}

type requestIDKey struct{}

// WithRequestID attaches id to ctx so Run logs under it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Run executes one search and always returns an envelope. An extraction
// failure short-circuits before the builder and executor.
func (p *Pipeline) Run(ctx context.Context, q string) model.Envelope {
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	logger := p.logger.With("request_id", id)
	start := time.Now()

	st := State{Query: q}

	st.ParsedQuery = p.extractor.Extract(ctx, q)
	if st.ParsedQuery.Failed() {
		logger.Warn("search aborted: extraction failed", "error", st.ParsedQuery.Error)
		return Format(st)
	}

	fq, err := p.builder.Build(st.ParsedQuery)
	if err != nil {
		logger.Warn("search aborted: build failed", "error", err)
		st.ParsedQuery = model.ExtractionFailure(err.Error())
		return Format(st)
	}
	st.FilterQuery = fq

	st.Result = p.executor.Execute(ctx, fq)
	if st.Result.Failed() {
		logger.Error("search failed: execution", "error", st.Result.Err, "sql", fq.String())
		return Format(st)
	}

	logger.Info("search completed",
		"terms", len(st.ParsedQuery.Terms),
		"clauses", len(fq.Clauses),
		"rows", len(st.Result.Rows),
		"duration", time.Since(start),
	)
	return Format(st)
}
