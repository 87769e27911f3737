package runner

import (
	"context"

	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

// Runner abstracts an LLM inference backend. The interface is
// protocol-agnostic: each adapter handles its own backend protocol
// (llama.cpp server, OpenAI-compatible endpoints) internally.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Runner interface {
	// Name returns the runner identifier (e.g., "llamacpp").
	Name() string

	// Complete performs a single blocking inference pass.
	Complete(ctx context.Context, req *Request) (*Output, error)

	// Health checks whether the backend is reachable and ready.
	Health(ctx context.Context) error

	// Close releases runner resources (HTTP clients, connections).
	Close() error
}

// Request is a backend-neutral inference request. Turns carry the
// conversation in order; a tool prompt, when present, is injected by
// the caller as a leading system turn.
type Request struct {
	Model   string
	Turns   []wire.ChatTurn
	Options wire.SamplingOptions
}

// Output is the backend's answer together with timing metrics. When a
// backend does not report timings the adapter fills Metrics from
// wall-clock measurements and token usage.
type Output struct {
	Text    string
	Metrics wire.Metrics
}
