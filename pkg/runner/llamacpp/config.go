package llamacpp

import "time"

// Config holds configuration for the llama.cpp runner adapter.
type Config struct {
	// BaseURL is the llama-server URL (e.g., "http://localhost:8080").
	BaseURL string

	// APIKey for backend authentication (optional; llama-server
	// accepts --api-key).
	APIKey string

	// Timeout for individual HTTP requests. Defaults to 120s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 120 * time.Second,
	}
}
