package api

import (
	"encoding/json"
	"testing"

	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

func TestCompletionRequestStateful(t *testing.T) {
	yes := true
	no := false
	tests := []struct {
		name  string
		store *bool
		want  bool
	}{
		{"default", nil, true},
		{"explicit true", &yes, true},
		{"explicit false", &no, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CompletionRequest{Store: tt.store}
			if got := req.Stateful(); got != tt.want {
				t.Errorf("Stateful() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionRequestRawPayloads(t *testing.T) {
	body := `{"model":"llama3","messages":[{"role":"user","content":"hi"}],"tools":"[]","options":{"top_k":40}}`

	var req CompletionRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if req.Model != "llama3" {
		t.Errorf("Model = %q, want %q", req.Model, "llama3")
	}
	if string(req.Messages) != `[{"role":"user","content":"hi"}]` {
		t.Errorf("Messages not preserved verbatim: %s", req.Messages)
	}
	if string(req.Options) != `{"top_k":40}` {
		t.Errorf("Options not preserved verbatim: %s", req.Options)
	}
}

func TestCompletionResult(t *testing.T) {
	c := Completion{
		ID:            "cmpl_abcdefghijklmnopqrstuvwx",
		ResponseText:  "hello",
		FunctionCalls: []string{`{"name":"lookup"}`},
		Metrics:       wire.Metrics{PrefillTokens: 3, DecodeTokens: 4},
	}

	got := c.Result()
	if got.ResponseText != "hello" {
		t.Errorf("ResponseText = %q, want %q", got.ResponseText, "hello")
	}
	if len(got.FunctionCalls) != 1 || got.FunctionCalls[0] != `{"name":"lookup"}` {
		t.Errorf("FunctionCalls = %v", got.FunctionCalls)
	}
}
