package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// MemberRepository persists roster memberships. The engine only reads it;
// membership maintenance belongs to the surrounding application. CompanyID
// is ignored for the global committee roster.
type MemberRepository interface {
	Put(ctx context.Context, m *model.Member) error
	ListActive(ctx context.Context, role types.MemberRole, companyID types.CompanyID) ([]*model.Member, error)
	CountActive(ctx context.Context, role types.MemberRole, companyID types.CompanyID) (int, error)
}
