// Package engine implements the core orchestration logic for Ocotillo.
// The Engine struct implements transport.CompletionCreator, bridging
// incoming completion requests to the runner backend. It decodes the
// wire-format payloads, renders tool descriptors into a system prompt,
// invokes the runner, splits function-call fragments out of the raw
// output, and persists the finished completion. Optional capabilities
// (storage) use nil-safe composition for graceful degradation.
package engine
