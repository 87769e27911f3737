package llamacpp

import (
	"testing"

	"github.com/ocotillo-ai/ocotillo/pkg/runner"
	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

func TestTranslateToChat_Options(t *testing.T) {
	tests := []struct {
		name string
		opts wire.SamplingOptions
		want func(t *testing.T, cr chatCompletionRequest)
	}{
		{
			"defaults omit unset sampling",
			wire.DefaultSamplingOptions(),
			func(t *testing.T, cr chatCompletionRequest) {
				if cr.Temperature != nil {
					t.Errorf("Temperature = %v, want nil", *cr.Temperature)
				}
				if cr.TopP != nil {
					t.Errorf("TopP = %v, want nil", *cr.TopP)
				}
				if cr.TopK != nil {
					t.Errorf("TopK = %v, want nil", *cr.TopK)
				}
				if cr.MaxTokens == nil || *cr.MaxTokens != 100 {
					t.Errorf("MaxTokens = %v, want 100", cr.MaxTokens)
				}
			},
		},
		{
			"explicit sampling carried over",
			wire.SamplingOptions{
				Temperature:   0.7,
				TopP:          0.9,
				TopK:          40,
				MaxTokens:     256,
				StopSequences: []string{"END"},
			},
			func(t *testing.T, cr chatCompletionRequest) {
				if cr.Temperature == nil || *cr.Temperature != 0.7 {
					t.Errorf("Temperature = %v, want 0.7", cr.Temperature)
				}
				if cr.TopP == nil || *cr.TopP != 0.9 {
					t.Errorf("TopP = %v, want 0.9", cr.TopP)
				}
				if cr.TopK == nil || *cr.TopK != 40 {
					t.Errorf("TopK = %v, want 40", cr.TopK)
				}
				if cr.MaxTokens == nil || *cr.MaxTokens != 256 {
					t.Errorf("MaxTokens = %v, want 256", cr.MaxTokens)
				}
				if len(cr.Stop) != 1 || cr.Stop[0] != "END" {
					t.Errorf("Stop = %v, want [END]", cr.Stop)
				}
			},
		},
		{
			"zero temperature is explicit",
			wire.SamplingOptions{Temperature: 0, TopP: -1, TopK: 0, MaxTokens: 0},
			func(t *testing.T, cr chatCompletionRequest) {
				if cr.Temperature == nil || *cr.Temperature != 0 {
					t.Errorf("Temperature = %v, want 0", cr.Temperature)
				}
				if cr.MaxTokens != nil {
					t.Errorf("MaxTokens = %v, want nil", *cr.MaxTokens)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := translateToChat(&runner.Request{Options: tt.opts})
			if cr.N != 1 {
				t.Errorf("N = %d, want 1", cr.N)
			}
			if cr.Stream {
				t.Error("Stream = true, want false")
			}
			tt.want(t, cr)
		})
	}
}

func TestTranslateToChat_Turns(t *testing.T) {
	req := &runner.Request{
		Model: "llama3",
		Turns: []wire.ChatTurn{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
		Options: wire.DefaultSamplingOptions(),
	}

	cr := translateToChat(req)
	if len(cr.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(cr.Messages))
	}
	for i, turn := range req.Turns {
		if cr.Messages[i].Role != turn.Role || cr.Messages[i].Content != turn.Content {
			t.Errorf("message %d = %+v, want %+v", i, cr.Messages[i], turn)
		}
	}
}

func TestTranslateMetrics(t *testing.T) {
	t.Run("timings preferred", func(t *testing.T) {
		resp := &chatCompletionResponse{
			Usage: &chatUsage{PromptTokens: 1, CompletionTokens: 2},
			Timings: &chatTimings{
				PromptN:            10,
				PromptMS:           50,
				PredictedN:         20,
				PredictedMS:        150,
				PredictedPerSecond: 133.3,
			},
		}
		m := translateMetrics(resp, 999)
		if m.TimeToFirstTokenMS != 50 || m.TotalTimeMS != 200 {
			t.Errorf("times = %v/%v, want 50/200", m.TimeToFirstTokenMS, m.TotalTimeMS)
		}
		if m.PrefillTokens != 10 || m.DecodeTokens != 20 {
			t.Errorf("tokens = %d/%d, want 10/20", m.PrefillTokens, m.DecodeTokens)
		}
		if m.TokensPerSecond != 133.3 {
			t.Errorf("TokensPerSecond = %v, want 133.3", m.TokensPerSecond)
		}
	})

	t.Run("wall clock fallback", func(t *testing.T) {
		resp := &chatCompletionResponse{
			Usage: &chatUsage{PromptTokens: 4, CompletionTokens: 10},
		}
		m := translateMetrics(resp, 500)
		if m.TotalTimeMS != 500 {
			t.Errorf("TotalTimeMS = %v, want 500", m.TotalTimeMS)
		}
		if m.TokensPerSecond != 20 {
			t.Errorf("TokensPerSecond = %v, want 20", m.TokensPerSecond)
		}
		if m.PrefillTokens != 4 || m.DecodeTokens != 10 {
			t.Errorf("tokens = %d/%d, want 4/10", m.PrefillTokens, m.DecodeTokens)
		}
	})

	t.Run("no usage", func(t *testing.T) {
		m := translateMetrics(&chatCompletionResponse{}, 100)
		if m.TotalTimeMS != 100 || m.TokensPerSecond != 0 {
			t.Errorf("metrics = %+v", m)
		}
	})
}
