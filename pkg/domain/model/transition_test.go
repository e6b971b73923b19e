package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

func newDemand(status types.DemandStatus) *model.Demand {
	return &model.Demand{
		ID:             1,
		Title:          "Test demand",
		Status:         status,
		Priority:       types.PriorityMedium,
		Classification: types.ClassificationImprovement,
		CompanyID:      "acme",
	}
}

func TestTransitionValidator_AdjacencyClosure(t *testing.T) {
	v := model.NewTransitionValidator()

	for _, status := range types.AllDemandStatuses() {
		targets := v.Targets(status)
		if status.IsTerminal() {
			gt.Number(t, len(targets)).Equal(0)
		} else {
			gt.Number(t, len(targets)).NotEqual(0)
		}
	}
}

func TestTransitionValidator_TerminalImmutability(t *testing.T) {
	v := model.NewTransitionValidator()

	for _, terminal := range []types.DemandStatus{types.DemandStatusCompleted, types.DemandStatusArchived} {
		d := newDemand(terminal)
		for _, target := range types.AllDemandStatuses() {
			decision := v.Validate(d, target)
			gt.B(t, decision.Allowed).False()
			gt.S(t, decision.Message).Contains("cycle has ended")
		}
	}
}

func TestTransitionValidator_UnknownTarget(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusBacklog)

	decision := v.Validate(d, types.DemandStatus("NOWHERE"))
	gt.B(t, decision.Allowed).False()
}

func TestTransitionValidator_StructuralDenial(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusStandBy)

	decision := v.Validate(d, types.DemandStatusInProgress)
	gt.B(t, decision.Allowed).False()
	gt.S(t, decision.Message).Contains("cannot move from STAND_BY to IN_PROGRESS")
}

func TestTransitionValidator_ManagerApprovalGuard(t *testing.T) {
	// AwaitingManager -> Approved is allowed iff priority is Low or Medium,
	// independent of any other field
	tests := []struct {
		priority types.Priority
		allowed  bool
	}{
		{types.PriorityLow, true},
		{types.PriorityMedium, true},
		{types.PriorityHigh, false},
		{types.PriorityCritical, false},
	}

	v := model.NewTransitionValidator()
	for _, tt := range tests {
		t.Run(tt.priority.String(), func(t *testing.T) {
			d := newDemand(types.DemandStatusAwaitingManager)
			d.Priority = tt.priority
			d.IsRegulatory = true
			d.TechnicalApprovalPresent = true

			decision := v.Validate(d, types.DemandStatusApproved)
			gt.Value(t, decision.Allowed).Equal(tt.allowed)
			if !tt.allowed {
				gt.S(t, decision.Message).Contains("committee")
			}
		})
	}
}

func TestTransitionValidator_ManagerApprovedGPToInProgress(t *testing.T) {
	v := model.NewTransitionValidator()

	t.Run("high priority denied", func(t *testing.T) {
		d := newDemand(types.DemandStatusManagerApprovedGP)
		d.Priority = types.PriorityHigh

		decision := v.Validate(d, types.DemandStatusInProgress)
		gt.B(t, decision.Allowed).False()
	})

	t.Run("low priority allowed with confirmation", func(t *testing.T) {
		d := newDemand(types.DemandStatusManagerApprovedGP)
		d.Priority = types.PriorityLow

		decision := v.Validate(d, types.DemandStatusInProgress)
		gt.B(t, decision.Allowed).True()
		gt.B(t, decision.RequiresConfirmation).True()
	})
}

func TestTransitionValidator_CommitteeSubmissionRequiresITOpinion(t *testing.T) {
	v := model.NewTransitionValidator()

	d := newDemand(types.DemandStatusManagerApprovedGP)
	decision := v.Validate(d, types.DemandStatusAwaitingCommittee)
	gt.B(t, decision.Allowed).False()
	gt.S(t, decision.Message).Contains("IT opinion")

	d.TechnicalApprovalPresent = true
	decision = v.Validate(d, types.DemandStatusAwaitingCommittee)
	gt.B(t, decision.Allowed).True()
}

func TestTransitionValidator_DirectorReviewThreshold(t *testing.T) {
	t.Run("default threshold", func(t *testing.T) {
		v := model.NewTransitionValidator()
		d := newDemand(types.DemandStatusAwaitingCommittee)

		d.CommitteeApprovalPercent = 79
		gt.B(t, v.Validate(d, types.DemandStatusDirectorReview).Allowed).False()

		d.CommitteeApprovalPercent = 80
		gt.B(t, v.Validate(d, types.DemandStatusDirectorReview).Allowed).True()
	})

	t.Run("custom threshold", func(t *testing.T) {
		v := model.NewTransitionValidator(model.WithCommitteeThreshold(100))
		d := newDemand(types.DemandStatusAwaitingCommittee)

		d.CommitteeApprovalPercent = 99
		gt.B(t, v.Validate(d, types.DemandStatusDirectorReview).Allowed).False()

		d.CommitteeApprovalPercent = 100
		gt.B(t, v.Validate(d, types.DemandStatusDirectorReview).Allowed).True()
	})
}

func TestTransitionValidator_ExecutionRequiresSquad(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusApproved)

	decision := v.Validate(d, types.DemandStatusInProgress)
	gt.B(t, decision.Allowed).False()
	gt.S(t, decision.Message).Contains("squad")

	d.SquadID = "squad-7"
	decision = v.Validate(d, types.DemandStatusInProgress)
	gt.B(t, decision.Allowed).True()
}

func TestTransitionValidator_ArchiveAlwaysConfirmed(t *testing.T) {
	v := model.NewTransitionValidator()

	for _, status := range types.AllDemandStatuses() {
		if status.IsTerminal() {
			continue
		}
		d := newDemand(status)
		decision := v.Validate(d, types.DemandStatusArchived)
		gt.B(t, decision.Allowed).True()
		gt.B(t, decision.RequiresConfirmation).True()
	}
}

func TestTransitionValidator_CompletionConfirmed(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusInProgress)

	decision := v.Validate(d, types.DemandStatusCompleted)
	gt.B(t, decision.Allowed).True()
	gt.B(t, decision.RequiresConfirmation).True()
}

func TestTransitionValidator_UnguardedEdge(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusBacklog)

	decision := v.Validate(d, types.DemandStatusStandBy)
	gt.B(t, decision.Allowed).True()
	gt.B(t, decision.RequiresConfirmation).False()
}
