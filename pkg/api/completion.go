package api

import (
	"encoding/json"

	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

// CompletionRequest is the envelope for POST /v1/completions. The
// envelope itself is ordinary JSON; the three payload fields are kept
// as raw text and handed verbatim to the wire decoders, preserving the
// lenient/strict parsing asymmetries of the existing format.
type CompletionRequest struct {
	Model    string          `json:"model,omitempty"`
	Messages json.RawMessage `json:"messages"`
	Tools    json.RawMessage `json:"tools,omitempty"`
	Options  json.RawMessage `json:"options,omitempty"`
	Store    *bool           `json:"store,omitempty"`
}

// Stateful reports whether the completion should be persisted.
// Defaults to true unless explicitly disabled.
func (r *CompletionRequest) Stateful() bool {
	if r.Store == nil {
		return true
	}
	return *r.Store
}

// Completion is a completed inference pass: the visible response text,
// any extracted function-call fragments, and the engine's timing
// metrics. It is the record stored and served by the management
// endpoints; the POST result itself is written in the wire format via
// wire.EncodeResult.
type Completion struct {
	ID            string       `json:"id"`
	Object        string       `json:"object"`
	Model         string       `json:"model"`
	ResponseText  string       `json:"response"`
	FunctionCalls []string     `json:"function_calls,omitempty"`
	Metrics       wire.Metrics `json:"metrics"`
	CreatedAt     int64        `json:"created_at"`
}

// Result returns the wire-format view of the completion.
func (c *Completion) Result() wire.Result {
	return wire.Result{
		ResponseText:  c.ResponseText,
		FunctionCalls: c.FunctionCalls,
	}
}

// ErrorResponse wraps an APIError for JSON serialization on the
// management endpoints.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}
