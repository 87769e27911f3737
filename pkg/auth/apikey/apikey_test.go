package apikey

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ocotillo-ai/ocotillo/pkg/auth"
)

func newTestAuthenticator() *Authenticator {
	return New([]RawKeyEntry{
		{
			Key: "sk-test-valid-key",
			Identity: auth.Identity{
				Subject:     "svc-batch",
				ServiceTier: "pro",
				Metadata:    map[string]string{"tenant_id": "acme"},
			},
		},
		{
			Key:      "sk-test-other-key",
			Identity: auth.Identity{Subject: "svc-other"},
		},
	})
}

func requestWithAuth(header string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/v1/completions", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestAuthenticateValidKey(t *testing.T) {
	a := newTestAuthenticator()

	result := a.Authenticate(context.Background(), requestWithAuth("Bearer sk-test-valid-key"))
	if result.Decision != auth.Yes {
		t.Fatalf("Decision = %v, want Yes (err: %v)", result.Decision, result.Err)
	}
	if result.Identity.Subject != "svc-batch" {
		t.Errorf("Subject = %q, want svc-batch", result.Identity.Subject)
	}
	if result.Identity.ServiceTier != "pro" {
		t.Errorf("ServiceTier = %q, want pro", result.Identity.ServiceTier)
	}
	if result.Identity.TenantID() != "acme" {
		t.Errorf("TenantID() = %q, want acme", result.Identity.TenantID())
	}
}

func TestAuthenticateUnknownKey(t *testing.T) {
	a := newTestAuthenticator()

	result := a.Authenticate(context.Background(), requestWithAuth("Bearer sk-wrong"))
	if result.Decision != auth.No {
		t.Errorf("Decision = %v, want No", result.Decision)
	}
	if result.Err == nil {
		t.Error("expected an error for unknown key")
	}
}

func TestAuthenticateAbstains(t *testing.T) {
	a := newTestAuthenticator()

	tests := []struct {
		name   string
		header string
	}{
		{"no authorization header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Authenticate(context.Background(), requestWithAuth(tt.header))
			if result.Decision != auth.Abstain {
				t.Errorf("Decision = %v, want Abstain", result.Decision)
			}
		})
	}
}

func TestAuthenticateEmptyBearer(t *testing.T) {
	a := newTestAuthenticator()

	result := a.Authenticate(context.Background(), requestWithAuth("Bearer "))
	if result.Decision != auth.No {
		t.Errorf("Decision = %v, want No", result.Decision)
	}
}

func TestIdentityIsCopied(t *testing.T) {
	a := newTestAuthenticator()

	first := a.Authenticate(context.Background(), requestWithAuth("Bearer sk-test-valid-key"))
	first.Identity.Subject = "mutated"

	second := a.Authenticate(context.Background(), requestWithAuth("Bearer sk-test-valid-key"))
	if second.Identity.Subject != "svc-batch" {
		t.Errorf("Subject = %q, identity state leaked between requests", second.Identity.Subject)
	}
}
