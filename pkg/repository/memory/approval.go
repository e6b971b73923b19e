package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// approvalKey enforces the uniqueness constraint on (demand, approver,
// level). Only final (Approved/Rejected) records occupy the slot; pending
// input requests are stored separately and never block a later vote.
type approvalKey struct {
	demandID   int64
	approverID types.UserID
	level      types.ApprovalLevel
}

type approvalRepository struct {
	mu      sync.RWMutex
	votes   map[approvalKey]*model.ApprovalRecord
	pending []*model.ApprovalRecord
}

func newApprovalRepository() *approvalRepository {
	return &approvalRepository{
		votes: make(map[approvalKey]*model.ApprovalRecord),
	}
}

func copyApproval(rec *model.ApprovalRecord) *model.ApprovalRecord {
	copied := *rec
	return &copied
}

func (r *approvalRepository) InsertIfAbsent(ctx context.Context, rec *model.ApprovalRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyApproval(rec)
	if created.ID == "" {
		created.ID = model.NewApprovalRecordID()
	}
	created.CreatedAt = time.Now().UTC()

	if !rec.Outcome.IsFinal() {
		r.pending = append(r.pending, created)
		return true, nil
	}

	key := approvalKey{demandID: rec.DemandID, approverID: rec.ApproverID, level: rec.Level}
	if _, exists := r.votes[key]; exists {
		return false, nil
	}

	r.votes[key] = created
	return true, nil
}

func (r *approvalRepository) ListByDemand(ctx context.Context, demandID int64) ([]*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.ApprovalRecord
	for key, rec := range r.votes {
		if key.demandID == demandID {
			result = append(result, copyApproval(rec))
		}
	}
	for _, rec := range r.pending {
		if rec.DemandID == demandID {
			result = append(result, copyApproval(rec))
		}
	}

	sortApprovals(result)
	return result, nil
}

func (r *approvalRepository) ListByDemandLevel(ctx context.Context, demandID int64, level types.ApprovalLevel) ([]*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.ApprovalRecord
	for key, rec := range r.votes {
		if key.demandID == demandID && key.level == level {
			result = append(result, copyApproval(rec))
		}
	}
	for _, rec := range r.pending {
		if rec.DemandID == demandID && rec.Level == level {
			result = append(result, copyApproval(rec))
		}
	}

	sortApprovals(result)
	return result, nil
}

func sortApprovals(recs []*model.ApprovalRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
}
