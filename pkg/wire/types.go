package wire

// ChatTurn is one role-tagged message in a conversation history.
// Content holds unescaped text: the wire sequences \n and \" have
// already been resolved to a literal newline and quote.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolDescriptor describes a callable function exposed to the model:
// its name, description, and parameter schema. The Parameters map holds
// at most one entry keyed "schema" whose value is the verbatim JSON
// object text of the schema, never parsed further.
type ToolDescriptor struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}

// Schema returns the verbatim parameter schema text, or "" when the
// descriptor carries none.
func (t ToolDescriptor) Schema() string {
	return t.Parameters["schema"]
}

// SamplingOptions holds the generation-control parameters for one
// inference call. Temperature and TopP use -1.0 to mean "engine
// default"; TopK uses 0 for the same.
type SamplingOptions struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	TopK          uint     `json:"top_k"`
	MaxTokens     uint     `json:"max_tokens"`
	StopSequences []string `json:"stop_sequences"`
}

// DefaultSamplingOptions returns the documented field defaults applied
// before any decoding.
func DefaultSamplingOptions() SamplingOptions {
	return SamplingOptions{
		Temperature:   -1.0,
		TopP:          -1.0,
		TopK:          0,
		MaxTokens:     100,
		StopSequences: []string{},
	}
}

// Result is the split form of the engine's raw output: the visible
// response text and the verbatim function-call JSON fragments found
// embedded in it, in order of appearance.
type Result struct {
	ResponseText  string   `json:"response"`
	FunctionCalls []string `json:"function_calls,omitempty"`
}

// Metrics carries the timing and throughput figures reported for one
// completed inference pass.
type Metrics struct {
	TimeToFirstTokenMS float64 `json:"time_to_first_token_ms"`
	TotalTimeMS        float64 `json:"total_time_ms"`
	TokensPerSecond    float64 `json:"tokens_per_second"`
	PrefillTokens      int     `json:"prefill_tokens"`
	DecodeTokens       int     `json:"decode_tokens"`
}

// TotalTokens is the derived prefill + decode sum; the encoder never
// accepts it as a separate input.
func (m Metrics) TotalTokens() int {
	return m.PrefillTokens + m.DecodeTokens
}
