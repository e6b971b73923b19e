package http

import (
	"context"
	"net/http"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// ActorHeader carries the acting user's ID. The surrounding deployment is
// expected to authenticate and set it; the engine only passes it through to
// the audit log.
const ActorHeader = "X-Actor-ID"

type actorKey struct{}

// actorContext stores the acting user from the request header in the
// context. Requests without the header act as "anonymous".
func actorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := types.UserID(r.Header.Get(ActorHeader))
		if actor == "" {
			actor = "anonymous"
		}
		ctx := context.WithValue(r.Context(), actorKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(ctx context.Context) types.UserID {
	if actor, ok := ctx.Value(actorKey{}).(types.UserID); ok {
		return actor
	}
	return "anonymous"
}
