package slack

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
)

// noop logs notifications instead of delivering them. Used when no bot
// token is configured, typically with the in-memory backend.
type noop struct{}

// NewNoop creates a notifier that only logs
func NewNoop() interfaces.Notifier {
	return &noop{}
}

func (n *noop) Notify(ctx context.Context, userIDs []types.UserID, title, message string, demandID int64) error {
	logging.From(ctx).Info("notification (not delivered: Slack is not configured)",
		"recipients", len(userIDs),
		"title", title,
		"demandID", demandID,
	)
	return nil
}
