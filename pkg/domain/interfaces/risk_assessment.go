package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/model"
)

// RiskAssessmentRepository persists at most one assessment per demand per
// cycle. Put is an upsert: repeating the risk step before the demand
// progresses replaces the previous inputs.
type RiskAssessmentRepository interface {
	Put(ctx context.Context, ra *model.RiskAssessment) (*model.RiskAssessment, error)
	Get(ctx context.Context, demandID int64) (*model.RiskAssessment, error)
}
