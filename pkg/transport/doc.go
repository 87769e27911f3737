// Package transport defines the handler contracts between the HTTP
// layer and the engine: the completion creator, the completion store,
// and the middleware chain that wraps the creator with cross-cutting
// behavior (recovery, request IDs, logging).
package transport
