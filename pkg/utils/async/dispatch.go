package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
)

// Dispatch executes a handler function asynchronously in a new goroutine.
// The handler gets a fresh background context that keeps the caller's
// logger; errors and panics are logged, never propagated. Used for
// fire-and-forget work such as notification fan-out, which must not block
// or fail the transition that triggered it.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
