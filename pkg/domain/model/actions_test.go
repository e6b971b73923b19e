package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

func findAction(actions []model.Action, key types.ActionKey) (model.Action, bool) {
	for _, a := range actions {
		if a.Key == key {
			return a, true
		}
	}
	return model.Action{}, false
}

func TestAvailableActions_Backlog(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusBacklog)

	actions := v.AvailableActions(d)

	for _, key := range []types.ActionKey{
		types.ActionView,
		types.ActionRequestITOpinion,
		types.ActionRequestInput,
		types.ActionAssessRisk,
		types.ActionEdit,
		types.ActionComment,
		types.ActionCancel,
	} {
		a, ok := findAction(actions, key)
		gt.B(t, ok).True()
		gt.B(t, a.Enabled).True()
	}

	// move actions come from the same adjacency data as the validator
	move, ok := findAction(actions, types.MoveActionKey(types.DemandStatusStandBy))
	gt.B(t, ok).True()
	gt.B(t, move.Enabled).True()

	_, ok = findAction(actions, types.MoveActionKey(types.DemandStatusInProgress))
	gt.B(t, ok).False()
}

func TestAvailableActions_Predicates(t *testing.T) {
	v := model.NewTransitionValidator()

	t.Run("cancel disabled once technical approval exists", func(t *testing.T) {
		d := newDemand(types.DemandStatusBacklog)
		d.TechnicalApprovalPresent = true

		actions := v.AvailableActions(d)
		cancel, ok := findAction(actions, types.ActionCancel)
		gt.B(t, ok).True()
		gt.B(t, cancel.Enabled).False()
		gt.S(t, cancel.Reason).Contains("technical approval")
	})

	t.Run("assess risk disabled once done", func(t *testing.T) {
		d := newDemand(types.DemandStatusBacklog)
		d.RiskAssessmentDone = true

		actions := v.AvailableActions(d)
		assess, ok := findAction(actions, types.ActionAssessRisk)
		gt.B(t, ok).True()
		gt.B(t, assess.Enabled).False()
	})

	t.Run("request IT opinion disabled once present", func(t *testing.T) {
		d := newDemand(types.DemandStatusBacklog)
		d.TechnicalApprovalPresent = true

		actions := v.AvailableActions(d)
		req, ok := findAction(actions, types.ActionRequestITOpinion)
		gt.B(t, ok).True()
		gt.B(t, req.Enabled).False()
	})
}

func TestAvailableActions_MoveGuardsSurface(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusApproved)

	actions := v.AvailableActions(d)
	move, ok := findAction(actions, types.MoveActionKey(types.DemandStatusInProgress))
	gt.B(t, ok).True()
	gt.B(t, move.Enabled).False()
	gt.S(t, move.Reason).Contains("squad")
}

func TestAvailableActions_Terminal(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusCompleted)

	actions := v.AvailableActions(d)
	gt.Number(t, len(actions)).Equal(1)
	gt.Value(t, actions[0].Key).Equal(types.ActionView)
}

func TestAvailableActions_ArchiveOffered(t *testing.T) {
	v := model.NewTransitionValidator()
	d := newDemand(types.DemandStatusBlocked)

	actions := v.AvailableActions(d)
	archive, ok := findAction(actions, types.MoveActionKey(types.DemandStatusArchived))
	gt.B(t, ok).True()
	gt.B(t, archive.Enabled).True()
}
