package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// MembershipRoster resolves the live approver roster for a quorum level.
// Committee lookups are global; IT lookups are scoped to the demand's
// company. The counts returned here are the quorum denominators.
type MembershipRoster interface {
	ActiveCount(ctx context.Context, level types.ApprovalLevel, companyID types.CompanyID) (int, error)
	ActiveUserIDs(ctx context.Context, level types.ApprovalLevel, companyID types.CompanyID) ([]types.UserID, error)
}
