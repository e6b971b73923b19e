package model

import (
	"time"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// Member is one entry in an approval roster. Committee members are global;
// scrum masters and managers are scoped to a company. Only active members
// count toward quorum denominators.
type Member struct {
	UserID    types.UserID
	Role      types.MemberRole
	CompanyID types.CompanyID
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
