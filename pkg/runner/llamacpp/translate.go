package llamacpp

import (
	"github.com/ocotillo-ai/ocotillo/pkg/runner"
	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

// translateToChat converts a runner.Request into a chatCompletionRequest
// suitable for the /v1/chat/completions endpoint. Sampling options use
// the unset sentinels of wire.SamplingOptions: negative floats and a
// zero top_k mean "backend default" and are omitted from the request.
func translateToChat(req *runner.Request) chatCompletionRequest {
	cr := chatCompletionRequest{
		Model:  req.Model,
		N:      1,
		Stream: false,
	}

	for _, turn := range req.Turns {
		cr.Messages = append(cr.Messages, chatMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	opts := req.Options
	if opts.Temperature >= 0 {
		t := opts.Temperature
		cr.Temperature = &t
	}
	if opts.TopP >= 0 {
		p := opts.TopP
		cr.TopP = &p
	}
	if opts.TopK > 0 {
		k := int(opts.TopK)
		cr.TopK = &k
	}
	if opts.MaxTokens > 0 {
		m := int(opts.MaxTokens)
		cr.MaxTokens = &m
	}
	cr.Stop = opts.StopSequences

	return cr
}

// translateMetrics builds wire.Metrics from a backend response. The
// llama-server timings block is authoritative when present; otherwise
// metrics are derived from the measured wall-clock duration and token
// usage.
func translateMetrics(resp *chatCompletionResponse, wallMS float64) wire.Metrics {
	if t := resp.Timings; t != nil {
		return wire.Metrics{
			TimeToFirstTokenMS: t.PromptMS,
			TotalTimeMS:        t.PromptMS + t.PredictedMS,
			TokensPerSecond:    t.PredictedPerSecond,
			PrefillTokens:      t.PromptN,
			DecodeTokens:       t.PredictedN,
		}
	}

	m := wire.Metrics{TotalTimeMS: wallMS}
	if u := resp.Usage; u != nil {
		m.PrefillTokens = u.PromptTokens
		m.DecodeTokens = u.CompletionTokens
		if wallMS > 0 {
			m.TokensPerSecond = float64(u.CompletionTokens) / (wallMS / 1000.0)
		}
	}
	return m
}
