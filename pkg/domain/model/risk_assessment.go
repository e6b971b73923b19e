package model

import (
	"time"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// RiskAssessment holds the manager-supplied risk inputs and the computed
// index for a demand. At most one assessment exists per demand per cycle;
// it may be updated in place while the demand has not progressed past the
// risk step.
type RiskAssessment struct {
	DemandID        int64
	ProbabilityBand types.ProbabilityBand
	Impact          types.ImpactLevel
	Classification  types.Classification
	RiskIndex       float64
	Band            types.RiskBand
	ResponsePlan    types.ResponsePlan
	MitigationNotes string
	AssessorID      types.UserID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
