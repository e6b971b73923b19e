package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// Notifier delivers best-effort messages to users. Dispatch failures must
// never fail the transition that triggered them; callers log and move on.
type Notifier interface {
	Notify(ctx context.Context, userIDs []types.UserID, title, message string, demandID int64) error
}
