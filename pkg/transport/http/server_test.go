package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

func TestServerLifecycle(t *testing.T) {
	creator := &fixedCreator{completion: testCompletion()}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(creator, nil,
		WithAddr("127.0.0.1:0"),
		WithLogger(logger),
		WithShutdownTimeout(2*time.Second),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.ServeOn(ln)
	}()

	url := "http://" + ln.Addr().String() + "/v1/completions"
	body := `{"model":"m","messages":[{"role":"user","content":"hi"}]}`

	var resp *http.Response
	for i := 0; i < 20; i++ {
		resp, err = http.Post(url, "application/json", strings.NewReader(body))
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeOn returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Error("server did not stop after shutdown")
	}
}

func TestServerDefaultMiddleware(t *testing.T) {
	// A panicking creator is converted to a 500 by the default
	// recovery middleware.
	panicking := panicCreator{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(panicking, nil, WithLogger(logger))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.ServeOn(ln)
	}()

	url := "http://" + ln.Addr().String() + "/v1/completions"
	var resp *http.Response
	for i := 0; i < 20; i++ {
		resp, err = http.Post(url, "application/json", strings.NewReader(`{}`))
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	<-done
}

type panicCreator struct{}

func (panicCreator) CreateCompletion(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
	panic("boom")
}
