package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

// Logging returns middleware that emits structured log entries for each
// request. The log entry includes the model, duration, request ID (from
// context), and whether the request succeeded or failed.
//
// Note: The HTTP method and path are not available at the
// CompletionCreator level. For full HTTP-level logging (including
// status codes), use HTTP-level middleware in the adapter.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next CompletionCreator) CompletionCreator {
		return CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			c, err := next.CreateCompletion(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("model", req.Model),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			} else {
				attrs = append(attrs,
					slog.String("completion_id", c.ID),
					slog.Int("function_calls", len(c.FunctionCalls)),
				)
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
			}

			return c, err
		})
	}
}
