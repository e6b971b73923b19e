package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

type memberKey struct {
	userID    types.UserID
	role      types.MemberRole
	companyID types.CompanyID
}

type memberRepository struct {
	mu      sync.RWMutex
	members map[memberKey]*model.Member
}

func newMemberRepository() *memberRepository {
	return &memberRepository{
		members: make(map[memberKey]*model.Member),
	}
}

func copyMember(m *model.Member) *model.Member {
	copied := *m
	return &copied
}

func memberKeyFor(m *model.Member) memberKey {
	key := memberKey{userID: m.UserID, role: m.Role}
	if m.Role.IsCompanyScoped() {
		key.companyID = m.CompanyID
	}
	return key
}

func (r *memberRepository) Put(ctx context.Context, m *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyMember(m)
	key := memberKeyFor(m)
	if existing, exists := r.members[key]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.members[key] = stored
	return nil
}

func (r *memberRepository) ListActive(ctx context.Context, role types.MemberRole, companyID types.CompanyID) ([]*model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Member
	for _, m := range r.members {
		if !r.matches(m, role, companyID) {
			continue
		}
		result = append(result, copyMember(m))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})

	return result, nil
}

func (r *memberRepository) CountActive(ctx context.Context, role types.MemberRole, companyID types.CompanyID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.members {
		if r.matches(m, role, companyID) {
			count++
		}
	}

	return count, nil
}

func (r *memberRepository) matches(m *model.Member, role types.MemberRole, companyID types.CompanyID) bool {
	if !m.Active || m.Role != role {
		return false
	}
	if role.IsCompanyScoped() && m.CompanyID != companyID {
		return false
	}
	return true
}
