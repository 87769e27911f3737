// Package api defines the gateway-facing types for the completion
// surface: the request envelope, the stored completion record, the
// error taxonomy, and ID generation. The inner payload fields of the
// envelope (messages, tools, options) are raw text decoded by pkg/wire,
// not by a JSON library.
package api
