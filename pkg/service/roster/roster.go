package roster

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// Service resolves approval rosters from the member repository. The
// committee roster is global; the IT roster is the company's scrum
// masters. Manager approvals have no roster: the acting manager is the
// single required approver.
type Service struct {
	members interfaces.MemberRepository
}

var _ interfaces.MembershipRoster = &Service{}

func New(members interfaces.MemberRepository) *Service {
	return &Service{members: members}
}

func (s *Service) ActiveCount(ctx context.Context, level types.ApprovalLevel, companyID types.CompanyID) (int, error) {
	role, ok := types.RosterRole(level)
	if !ok {
		return 0, goerr.New("approval level has no roster", goerr.V("level", level))
	}
	if !role.IsCompanyScoped() {
		companyID = ""
	}

	count, err := s.members.CountActive(ctx, role, companyID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count active roster members",
			goerr.V("level", level), goerr.V("companyID", companyID))
	}
	return count, nil
}

func (s *Service) ActiveUserIDs(ctx context.Context, level types.ApprovalLevel, companyID types.CompanyID) ([]types.UserID, error) {
	role, ok := types.RosterRole(level)
	if !ok {
		return nil, goerr.New("approval level has no roster", goerr.V("level", level))
	}
	if !role.IsCompanyScoped() {
		companyID = ""
	}

	members, err := s.members.ListActive(ctx, role, companyID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active roster members",
			goerr.V("level", level), goerr.V("companyID", companyID))
	}

	ids := make([]types.UserID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
