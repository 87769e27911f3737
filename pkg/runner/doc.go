// Package runner abstracts an LLM inference backend. Each adapter
// handles its own backend protocol internally and reports timing
// metrics alongside the generated text.
package runner
