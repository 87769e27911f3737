// Package llamacpp implements runner.Runner against a llama.cpp server
// (llama-server) or any OpenAI-compatible Chat Completions backend.
//
// The adapter prefers the llama-server "timings" block for metrics and
// falls back to wall-clock measurement plus token usage when the
// backend does not report timings.
package llamacpp
