package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// RiskUseCase performs the risk step: scoring, persistence and the
// committee escalation policy.
type RiskUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
}

// RiskInput carries the manager-supplied risk inputs
type RiskInput struct {
	Probability     types.ProbabilityBand
	Impact          types.ImpactLevel
	ResponsePlan    types.ResponsePlan
	MitigationNotes string
}

// Assess scores the demand's risk and stores the assessment. The
// assessment may be repeated while the demand has not progressed past the
// risk step; each run replaces the previous inputs. High-band results are
// escalated to the committee but never change the demand status.
func (uc *RiskUseCase) Assess(ctx context.Context, demandID int64, assessorID types.UserID, input RiskInput) (*model.RiskAssessment, error) {
	demand, err := uc.repo.Demand().Get(ctx, demandID)
	if err != nil {
		return nil, goerr.Wrap(ErrDemandNotFound, "demand not found", goerr.V(DemandIDKey, demandID))
	}

	if !demand.CanUpdateRiskAssessment() {
		return nil, goerr.Wrap(ErrRiskAssessmentLocked, "demand has progressed past the risk step",
			goerr.V(DemandIDKey, demandID),
			goerr.V(StatusKey, demand.Status))
	}

	if !input.Probability.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid probability band", goerr.V("probability", input.Probability))
	}
	if !input.Impact.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid impact level", goerr.V("impact", input.Impact))
	}

	score := model.ScoreRisk(input.Probability, input.Impact, demand.Classification)

	assessment := &model.RiskAssessment{
		DemandID:        demand.ID,
		ProbabilityBand: input.Probability,
		Impact:          input.Impact,
		Classification:  demand.Classification,
		RiskIndex:       score.Index,
		Band:            score.Band,
		MitigationNotes: input.MitigationNotes,
		AssessorID:      assessorID,
	}

	// A response plan only applies while the index stays treatable;
	// high-band risks are escalated instead.
	if score.AcceptsResponsePlan() {
		if input.ResponsePlan == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "a response plan is required for this risk level",
				goerr.V("riskIndex", score.Index))
		}
		if !input.ResponsePlan.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid response plan", goerr.V("responsePlan", input.ResponsePlan))
		}
		assessment.ResponsePlan = input.ResponsePlan
	}

	stored, err := uc.repo.RiskAssessment().Put(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store risk assessment", goerr.V(DemandIDKey, demandID))
	}

	if !demand.RiskAssessmentDone {
		demand.RiskAssessmentDone = true
		if _, err := uc.repo.Demand().Update(ctx, demand); err != nil {
			return nil, goerr.Wrap(err, "failed to mark risk assessment done", goerr.V(DemandIDKey, demandID))
		}
	}

	appendHistory(ctx, uc.repo, &model.HistoryEntry{
		DemandID:    demand.ID,
		ActorID:     assessorID,
		Kind:        types.HistoryKindRiskAssessment,
		After:       stored.Band.String(),
		Description: fmt.Sprintf("risk index %.1f (%s)", stored.RiskIndex, stored.Band),
	})

	if model.ShouldNotifyCommittee(score, demand.Priority) {
		notifyRole(ctx, uc.repo, uc.notifier, demand, types.MemberRoleCommittee,
			"Risk escalation",
			fmt.Sprintf("Demand %q scored a %s risk (index %.1f, priority %s)",
				demand.Title, score.Band, score.Index, demand.Priority))
	}

	return stored, nil
}

// Get returns the stored assessment for a demand
func (uc *RiskUseCase) Get(ctx context.Context, demandID int64) (*model.RiskAssessment, error) {
	assessment, err := uc.repo.RiskAssessment().Get(ctx, demandID)
	if err != nil {
		return nil, goerr.Wrap(ErrRiskAssessmentNotFound, "no assessment stored for demand", goerr.V(DemandIDKey, demandID))
	}
	return assessment, nil
}
