package model

import (
	"time"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// Demand represents a corporate project or improvement request moving
// through the approval lifecycle.
type Demand struct {
	ID                       int64
	Title                    string
	Description              string
	Status                   types.DemandStatus
	Priority                 types.Priority
	Classification           types.Classification
	CompanyID                types.CompanyID
	SquadID                  types.SquadID
	RequesterID              types.UserID
	IsRegulatory             bool
	RiskAssessmentDone       bool
	TechnicalApprovalPresent bool
	CommitteeApprovalPercent int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// HasSquad reports whether a delivery squad has been assigned
func (d *Demand) HasSquad() bool {
	return d.SquadID != ""
}

// CanUpdateRiskAssessment reports whether the demand is still at the risk
// step. Risk assessments may only be edited while the demand has not
// progressed past submission.
func (d *Demand) CanUpdateRiskAssessment() bool {
	switch d.Status.Normalize() {
	case types.DemandStatusBacklog, types.DemandStatusStandBy:
		return true
	default:
		return false
	}
}
