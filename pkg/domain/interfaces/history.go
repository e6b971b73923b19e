package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/model"
)

// HistoryRepository is the append-only audit log for demands. Entries are
// written once per accepted action, never for rejected attempts, and are
// never modified afterwards.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.HistoryEntry) error
	ListByDemand(ctx context.Context, demandID int64) ([]*model.HistoryEntry, error)
}
