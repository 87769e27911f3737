package transport

import (
	"encoding/json"
	"net/http"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP
// status code. Transport-level errors (body too large, unsupported
// content type, method not allowed) are handled separately by the HTTP
// adapter.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeTooManyRequests:
		return http.StatusTooManyRequests
	case api.ErrorTypeServerError, api.ErrorTypeEngineError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteWireError writes an error in the single-line wire format used by
// the completion endpoint itself. The message passes through the crude
// sanitizer of wire.EncodeError, so quotes and newlines are flattened
// rather than escaped.
func WriteWireError(w http.ResponseWriter, apiErr *api.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusFromError(apiErr))
	w.Write([]byte(wire.EncodeError(apiErr.Message)))
}

// WriteErrorResponse writes a JSON error response using the
// ErrorResponse wrapper format from pkg/api. Used by the management
// endpoints, which speak ordinary JSON.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status
// code from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
