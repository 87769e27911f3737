package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
	"github.com/ocotillo-ai/ocotillo/pkg/storage"
	"github.com/ocotillo-ai/ocotillo/pkg/transport"
	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

// Adapter serves the completion API over HTTP. It routes requests to
// the appropriate handler and serializes responses.
type Adapter struct {
	creator transport.CompletionCreator
	store   transport.CompletionStore // nil if stateless-only
	mux     *http.ServeMux
	config  Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr        string
	MaxBodySize int64

	// MaxResultSize bounds the encoded result document for the create
	// endpoint. A result that does not fit is replaced by an error
	// document rather than written truncated.
	MaxResultSize int
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		MaxBodySize:   10 << 20, // 10 MB
		MaxResultSize: 4 << 20,  // 4 MB
	}
}

// NewAdapter creates an HTTP adapter with the given CompletionCreator
// and options. The CompletionStore is optional; when nil, GET and
// DELETE endpoints return an error indicating the operation is not
// available. Middleware is applied to the CompletionCreator in the
// given order.
func NewAdapter(creator transport.CompletionCreator, store transport.CompletionStore, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		creator = transport.Chain(middlewares...)(creator)
	}
	if cfg.MaxResultSize <= 0 {
		cfg.MaxResultSize = DefaultConfig().MaxResultSize
	}

	a := &Adapter{
		creator: creator,
		store:   store,
		mux:     http.NewServeMux(),
		config:  cfg,
	}

	a.mux.HandleFunc("POST /v1/completions", a.handleCreateCompletion)
	a.mux.HandleFunc("GET /v1/completions/{id}", a.handleGetCompletion)
	a.mux.HandleFunc("GET /v1/completions", a.handleListCompletions)
	a.mux.HandleFunc("DELETE /v1/completions/{id}", a.handleDeleteCompletion)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to
// integrate with an http.Server or test with httptest. The returned
// handler includes HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// httpRequestIDMiddleware is HTTP-level middleware that propagates the
// X-Request-ID header. If present in the request, it is forwarded to
// the response. After the handler runs, it checks the context for a
// request ID (set by the transport-level RequestID middleware) and adds
// it to the response headers if not already set.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx := transport.ContextWithRequestID(r.Context(), id)
			r = r.WithContext(ctx)
		}
		rw := &requestIDResponseWriter{ResponseWriter: w, r: r}
		next.ServeHTTP(rw, r)
	})
}

// requestIDResponseWriter wraps http.ResponseWriter to inject the
// X-Request-ID header before the first write.
type requestIDResponseWriter struct {
	http.ResponseWriter
	r           *http.Request
	headersSent bool
}

func (w *requestIDResponseWriter) WriteHeader(statusCode int) {
	w.ensureRequestIDHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *requestIDResponseWriter) Write(b []byte) (int, error) {
	w.ensureRequestIDHeader()
	return w.ResponseWriter.Write(b)
}

func (w *requestIDResponseWriter) ensureRequestIDHeader() {
	if w.headersSent {
		return
	}
	w.headersSent = true
	if id := transport.RequestIDFromContext(w.r.Context()); id != "" {
		w.ResponseWriter.Header().Set("X-Request-ID", id)
	}
}

// handleCreateCompletion handles POST /v1/completions. The request
// envelope is ordinary JSON; the result is the single-line wire
// document.
func (a *Adapter) handleCreateCompletion(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	completion, err := a.creator.CreateCompletion(r.Context(), &req)
	if err != nil {
		var apiErr *api.APIError
		if !errors.As(err, &apiErr) {
			apiErr = api.NewServerError(err.Error())
		}
		transport.WriteWireError(w, apiErr)
		return
	}

	doc := wire.EncodeResult(completion.Result(), completion.Metrics)
	buf := make([]byte, a.config.MaxResultSize)
	n, ok := wire.WriteBounded(buf, doc)
	if !ok {
		transport.WriteWireError(w, api.NewServerError("result exceeds maximum response size"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Completion-ID", completion.ID)
	w.Write(buf[:n])
}

// handleGetCompletion handles GET /v1/completions/{id}.
func (a *Adapter) handleGetCompletion(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("", "completion retrieval is not available (no store configured)"),
			http.StatusNotImplemented,
		)
		return
	}

	id := r.PathValue("id")
	if !api.ValidateCompletionID(id) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("id", "malformed completion ID"),
			http.StatusBadRequest,
		)
		return
	}

	completion, err := a.store.GetCompletion(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, id, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(completion)
}

// handleDeleteCompletion handles DELETE /v1/completions/{id}.
func (a *Adapter) handleDeleteCompletion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !api.ValidateCompletionID(id) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("id", "malformed completion ID"),
			http.StatusBadRequest,
		)
		return
	}

	if a.store == nil {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("", "completion deletion is not available (no store configured)"),
			http.StatusNotImplemented,
		)
		return
	}

	if err := a.store.DeleteCompletion(r.Context(), id); err != nil {
		a.writeStoreError(w, id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListCompletions handles GET /v1/completions.
func (a *Adapter) handleListCompletions(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("", "completion listing is not available (no store configured)"),
			http.StatusNotImplemented,
		)
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		transport.WriteErrorResponse(w, err, http.StatusBadRequest)
		return
	}

	result, storeErr := a.store.ListCompletions(r.Context(), opts)
	if storeErr != nil {
		var apiErr *api.APIError
		if errors.As(storeErr, &apiErr) {
			transport.WriteAPIError(w, apiErr)
		} else {
			transport.WriteAPIError(w, api.NewServerError(storeErr.Error()))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// writeStoreError maps store failures to API errors.
func (a *Adapter) writeStoreError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		transport.WriteAPIError(w, api.NewNotFoundError("completion "+id+" not found"))
		return
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		transport.WriteAPIError(w, apiErr)
	} else {
		transport.WriteAPIError(w, api.NewServerError(err.Error()))
	}
}

// parseListOptions extracts pagination parameters from the query string.
func parseListOptions(r *http.Request) (transport.ListOptions, *api.APIError) {
	q := r.URL.Query()
	opts := transport.ListOptions{
		After:  q.Get("after"),
		Before: q.Get("before"),
		Model:  q.Get("model"),
		Order:  q.Get("order"),
	}

	if opts.After != "" && opts.Before != "" {
		return opts, api.NewInvalidRequestError("after", "cannot use both 'after' and 'before' cursors")
	}

	if opts.Order != "" && opts.Order != "asc" && opts.Order != "desc" {
		return opts, api.NewInvalidRequestError("order", "order must be 'asc' or 'desc'")
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return opts, api.NewInvalidRequestError("limit", "limit must be a positive integer")
		}
		opts.Limit = limit
	}

	return opts, nil
}
