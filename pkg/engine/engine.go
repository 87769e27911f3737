package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
	"github.com/ocotillo-ai/ocotillo/pkg/observability"
	"github.com/ocotillo-ai/ocotillo/pkg/runner"
	"github.com/ocotillo-ai/ocotillo/pkg/transport"
	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

// Engine orchestrates request processing between the transport layer
// and the runner backend. It implements transport.CompletionCreator.
type Engine struct {
	runner runner.Runner
	store  transport.CompletionStore
	cfg    Config
	logger *slog.Logger
}

// Ensure Engine implements transport.CompletionCreator at compile time.
var _ transport.CompletionCreator = (*Engine)(nil)

// New creates a new Engine. The runner must not be nil. The store can
// be nil for stateless operation.
func New(r runner.Runner, store transport.CompletionStore, cfg Config, logger *slog.Logger) (*Engine, error) {
	if r == nil {
		return nil, fmt.Errorf("engine: runner must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		runner: r,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// CreateCompletion handles a completion request end to end: decode the
// wire payloads, run inference, extract function calls, persist.
func (e *Engine) CreateCompletion(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
	model := req.Model
	if model == "" {
		if e.cfg.DefaultModel == "" {
			return nil, api.NewInvalidRequestError("model", "model is required")
		}
		model = e.cfg.DefaultModel
	}

	turns, err := wire.DecodeMessages(string(req.Messages))
	if err != nil {
		return nil, api.NewInvalidRequestError("messages", err.Error())
	}
	if len(turns) == 0 {
		return nil, api.NewInvalidRequestError("messages", "at least one message is required")
	}

	// Tool decoding is lenient: malformed descriptors are skipped, an
	// absent or empty payload means no tools.
	tools := wire.DecodeTools(string(req.Tools))

	opts := wire.DefaultSamplingOptions()
	if len(req.Options) > 0 {
		opts, err = wire.DecodeOptions(string(req.Options))
		if err != nil {
			return nil, api.NewInvalidRequestError("options", err.Error())
		}
	}
	if e.cfg.MaxTokensCeiling > 0 && opts.MaxTokens > e.cfg.MaxTokensCeiling {
		opts.MaxTokens = e.cfg.MaxTokensCeiling
	}

	if len(tools) > 0 {
		turns = append([]wire.ChatTurn{{Role: "system", Content: toolSystemPrompt(tools)}}, turns...)
	}

	started := time.Now()
	out, err := e.runner.Complete(ctx, &runner.Request{
		Model:   model,
		Turns:   turns,
		Options: opts,
	})
	elapsed := time.Since(started).Seconds()
	if err != nil {
		observability.RecordEngineRequest(e.runner.Name(), model, "error", elapsed, 0, 0)
		return nil, err
	}
	observability.RecordEngineRequest(e.runner.Name(), model, "ok", elapsed,
		out.Metrics.PrefillTokens, out.Metrics.DecodeTokens)

	result := wire.ExtractFunctionCalls(out.Text)
	if len(result.FunctionCalls) > 0 {
		observability.FunctionCallsTotal.WithLabelValues(model).Add(float64(len(result.FunctionCalls)))
	}

	completion := &api.Completion{
		ID:            api.NewCompletionID(),
		Object:        "completion",
		Model:         model,
		ResponseText:  result.ResponseText,
		FunctionCalls: result.FunctionCalls,
		Metrics:       out.Metrics,
		CreatedAt:     time.Now().Unix(),
	}

	if e.store != nil && req.Stateful() {
		if err := e.store.SaveCompletion(ctx, completion); err != nil {
			// Persistence is best-effort for the request itself: the
			// caller still gets the completion.
			e.logger.LogAttrs(ctx, slog.LevelError, "failed to store completion",
				slog.String("completion_id", completion.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return completion, nil
}
