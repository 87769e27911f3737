package transport

import (
	"context"
	"fmt"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next CompletionCreator) CompletionCreator {
		return CompletionCreatorFunc(func(ctx context.Context, req *api.CompletionRequest) (c *api.Completion, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					c = nil
					retErr = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.CreateCompletion(ctx, req)
		})
	}
}
