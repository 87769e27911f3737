package llamacpp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

// mapHTTPError converts an HTTP response with a non-2xx status code
// into an APIError. It attempts to parse the response body as a
// chatErrorResponse to extract a descriptive message.
func mapHTTPError(resp *http.Response) *api.APIError {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid request to engine"
		}
		return api.NewInvalidRequestError("", message)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "engine authentication failed"
		}
		return api.NewEngineError(message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "engine resource not found"
		}
		return api.NewNotFoundError(message)

	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "engine rate limit exceeded"
		}
		return api.NewTooManyRequestsError(message)

	case resp.StatusCode == http.StatusServiceUnavailable:
		if message == "" {
			message = "engine is still loading the model"
		}
		return api.NewEngineError(message)

	case resp.StatusCode >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("engine server error (HTTP %d)", resp.StatusCode)
		}
		return api.NewEngineError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected engine error (HTTP %d)", resp.StatusCode)
		}
		return api.NewEngineError(message)
	}
}

// mapNetworkError converts a network-level error (connection refused,
// timeout, DNS resolution failure) into an APIError.
func mapNetworkError(err error) *api.APIError {
	return api.NewEngineError(fmt.Sprintf("engine connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse the response body as a
// chatErrorResponse and returns the error message if found.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp chatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
