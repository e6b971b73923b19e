package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// ApprovalRepository persists approval records. Records are immutable;
// there is no update or delete. Uniqueness on (demand, approver, level) is
// the store's responsibility so that the quorum decision after an insert is
// made by exactly one writer.
type ApprovalRepository interface {
	// InsertIfAbsent writes the record unless a final (approved or
	// rejected) one already exists for the same (demand, approver, level).
	// Returns false when the slot was already taken; that is a benign
	// duplicate, not an error. Pending records always insert and never
	// occupy the slot.
	InsertIfAbsent(ctx context.Context, rec *model.ApprovalRecord) (bool, error)

	ListByDemand(ctx context.Context, demandID int64) ([]*model.ApprovalRecord, error)
	ListByDemandLevel(ctx context.Context, demandID int64, level types.ApprovalLevel) ([]*model.ApprovalRecord, error)
}
