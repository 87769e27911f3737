package transport

import (
	"context"
	"testing"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

func TestChainOrder(t *testing.T) {
	var order []string

	tag := func(name string) Middleware {
		return func(next CompletionCreator) CompletionCreator {
			return CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
				order = append(order, name)
				return next.CreateCompletion(ctx, req)
			})
		}
	}

	handler := CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
		order = append(order, "handler")
		return &api.Completion{}, nil
	})

	chained := Chain(tag("a"), tag("b"), tag("c"))(handler)
	if _, err := chained.CreateCompletion(context.Background(), &api.CompletionRequest{}); err != nil {
		t.Fatalf("CreateCompletion: %v", err)
	}

	want := []string{"a", "b", "c", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRecovery(t *testing.T) {
	handler := CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
		panic("boom")
	})

	c, err := Recovery()(handler).CreateCompletion(context.Background(), &api.CompletionRequest{})
	if c != nil {
		t.Errorf("completion = %+v, want nil", c)
	}
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	apiErr, ok := err.(*api.APIError)
	if !ok {
		t.Fatalf("expected *api.APIError, got %T", err)
	}
	if apiErr.Type != api.ErrorTypeServerError {
		t.Errorf("Type = %q, want %q", apiErr.Type, api.ErrorTypeServerError)
	}
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		var seen string
		handler := CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
			seen = RequestIDFromContext(ctx)
			return &api.Completion{}, nil
		})

		if _, err := RequestID()(handler).CreateCompletion(context.Background(), &api.CompletionRequest{}); err != nil {
			t.Fatalf("CreateCompletion: %v", err)
		}
		if seen == "" {
			t.Error("expected generated request ID, got empty string")
		}
	})

	t.Run("preserves existing", func(t *testing.T) {
		var seen string
		handler := CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
			seen = RequestIDFromContext(ctx)
			return &api.Completion{}, nil
		})

		ctx := ContextWithRequestID(context.Background(), "req-abc")
		if _, err := RequestID()(handler).CreateCompletion(ctx, &api.CompletionRequest{}); err != nil {
			t.Fatalf("CreateCompletion: %v", err)
		}
		if seen != "req-abc" {
			t.Errorf("request ID = %q, want %q", seen, "req-abc")
		}
	})
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}
