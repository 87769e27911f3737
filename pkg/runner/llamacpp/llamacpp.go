package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
	"github.com/ocotillo-ai/ocotillo/pkg/debug"
	"github.com/ocotillo-ai/ocotillo/pkg/runner"
)

// LlamaRunner implements runner.Runner for llama.cpp and other
// OpenAI-compatible Chat Completions backends.
type LlamaRunner struct {
	cfg    Config
	client *http.Client
}

// Ensure LlamaRunner implements runner.Runner at compile time.
var _ runner.Runner = (*LlamaRunner)(nil)

// New creates a new LlamaRunner with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*LlamaRunner, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("llamacpp: BaseURL is required")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &LlamaRunner{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Name returns the runner identifier.
func (r *LlamaRunner) Name() string {
	return "llamacpp"
}

// Complete performs a blocking inference pass against the Chat
// Completions endpoint.
func (r *LlamaRunner) Complete(ctx context.Context, req *runner.Request) (*runner.Output, error) {
	chatReq := translateToChat(req)

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	url := r.cfg.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	debug.Log("runner", "engine request", "url", url, "model", req.Model, "turns", len(req.Turns))
	if debug.TraceIsEnabled("runner") {
		debug.Raw("runner", string(body))
	}

	start := time.Now()
	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, api.NewEngineError(fmt.Sprintf("failed to parse engine response: %s", err.Error()))
	}
	wallMS := float64(time.Since(start)) / float64(time.Millisecond)

	if len(chatResp.Choices) == 0 {
		return nil, api.NewEngineError("engine returned no choices")
	}

	debug.Log("runner", "engine response",
		"wall_ms", wallMS,
		"content_len", len(chatResp.Choices[0].Message.Content),
	)

	return &runner.Output{
		Text:    chatResp.Choices[0].Message.Content,
		Metrics: translateMetrics(&chatResp, wallMS),
	}, nil
}

// Health checks the llama-server /health endpoint. Backends without a
// health endpoint report 404, which is treated as healthy since the
// server answered at all.
func (r *LlamaRunner) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("llamacpp: create health request: %w", err)
	}

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("llamacpp: health check: %w", err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusOK, httpResp.StatusCode == http.StatusNotFound:
		return nil
	case httpResp.StatusCode == http.StatusServiceUnavailable:
		var hr healthResponse
		if err := json.NewDecoder(httpResp.Body).Decode(&hr); err == nil && hr.Status != "" {
			return fmt.Errorf("llamacpp: engine not ready: %s", hr.Status)
		}
		return fmt.Errorf("llamacpp: engine not ready")
	default:
		return fmt.Errorf("llamacpp: health check returned HTTP %d", httpResp.StatusCode)
	}
}

// Close releases runner resources.
func (r *LlamaRunner) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
