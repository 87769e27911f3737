package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  *api.APIError
		want int
	}{
		{"invalid request", api.NewInvalidRequestError("messages", "bad"), http.StatusBadRequest},
		{"not found", api.NewNotFoundError("gone"), http.StatusNotFound},
		{"too many requests", api.NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{"server error", api.NewServerError("boom"), http.StatusInternalServerError},
		{"engine error", api.NewEngineError("down"), http.StatusInternalServerError},
		{"unknown type", &api.APIError{Type: "mystery"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromError(tt.err); got != tt.want {
				t.Errorf("HTTPStatusFromError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteWireError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteWireError(rec, api.NewInvalidRequestError("messages", `bad "input"`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	want := `{"success":false,"error":"bad 'input'"}`
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, api.NewNotFoundError("completion not found"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Error.Type != api.ErrorTypeNotFound {
		t.Errorf("Error.Type = %q, want %q", resp.Error.Type, api.ErrorTypeNotFound)
	}
	if resp.Error.Message != "completion not found" {
		t.Errorf("Error.Message = %q", resp.Error.Message)
	}
}
