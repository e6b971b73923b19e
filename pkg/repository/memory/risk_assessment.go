package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/model"
)

type riskAssessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.RiskAssessment
}

func newRiskAssessmentRepository() *riskAssessmentRepository {
	return &riskAssessmentRepository{
		assessments: make(map[int64]*model.RiskAssessment),
	}
}

func copyRiskAssessment(ra *model.RiskAssessment) *model.RiskAssessment {
	copied := *ra
	return &copied
}

func (r *riskAssessmentRepository) Put(ctx context.Context, ra *model.RiskAssessment) (*model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyRiskAssessment(ra)
	if existing, exists := r.assessments[ra.DemandID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.assessments[ra.DemandID] = stored
	return copyRiskAssessment(stored), nil
}

func (r *riskAssessmentRepository) Get(ctx context.Context, demandID int64) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ra, exists := r.assessments[demandID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("demandID", demandID))
	}

	return copyRiskAssessment(ra), nil
}
