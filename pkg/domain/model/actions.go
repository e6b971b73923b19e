package model

import "github.com/opsdesk/demandflow/pkg/domain/types"

// Action is one user-facing action offered for a demand, together with
// whether it is currently enabled and, when disabled, why.
type Action struct {
	Key     types.ActionKey
	Enabled bool
	Reason  string
}

// statusActions lists the non-move action keys offered per status, in
// display order. Move-type actions are derived from the transition table
// and appended after these; they are never listed here.
var statusActions = map[types.DemandStatus][]types.ActionKey{
	types.DemandStatusStandBy: {
		types.ActionView,
		types.ActionEdit,
		types.ActionComment,
		types.ActionCancel,
	},
	types.DemandStatusBacklog: {
		types.ActionView,
		types.ActionRequestITOpinion,
		types.ActionRequestInput,
		types.ActionAssessRisk,
		types.ActionEdit,
		types.ActionComment,
		types.ActionCancel,
	},
	types.DemandStatusAwaitingManager: {
		types.ActionView,
		types.ActionApprove,
		types.ActionReject,
		types.ActionRequestInput,
		types.ActionComment,
		types.ActionCancel,
	},
	types.DemandStatusManagerApprovedGP: {
		types.ActionView,
		types.ActionRequestITOpinion,
		types.ActionComment,
		types.ActionCancel,
	},
	types.DemandStatusAwaitingITAssessment: {
		types.ActionView,
		types.ActionApprove,
		types.ActionReject,
		types.ActionRequestInput,
		types.ActionComment,
	},
	types.DemandStatusAwaitingCommittee: {
		types.ActionView,
		types.ActionApprove,
		types.ActionReject,
		types.ActionRequestInput,
		types.ActionComment,
	},
	types.DemandStatusDirectorReview: {
		types.ActionView,
		types.ActionComment,
	},
	types.DemandStatusApproved: {
		types.ActionView,
		types.ActionEdit,
		types.ActionComment,
	},
	types.DemandStatusInProgress: {
		types.ActionView,
		types.ActionComment,
	},
	types.DemandStatusBlocked: {
		types.ActionView,
		types.ActionComment,
	},
	types.DemandStatusCompleted: {
		types.ActionView,
	},
	types.DemandStatusArchived: {
		types.ActionView,
	},
}

// AvailableActions returns the ordered list of actions offered for the
// demand's current status. Non-move actions come first, each resolved
// against its enablement predicate; move-type actions follow, derived from
// the same transition table the validator uses, disabled moves carrying the
// validator's denial message.
func (v *TransitionValidator) AvailableActions(d *Demand) []Action {
	status := d.Status.Normalize()

	keys := statusActions[status]
	actions := make([]Action, 0, len(keys)+4)
	for _, key := range keys {
		actions = append(actions, resolveAction(key, d))
	}

	for _, target := range v.Targets(status) {
		decision := v.Validate(d, target)
		action := Action{
			Key:     types.MoveActionKey(target),
			Enabled: decision.Allowed,
		}
		if !decision.Allowed {
			action.Reason = decision.Message
		}
		actions = append(actions, action)
	}

	return actions
}

// resolveAction applies the status-independent enablement predicates. The
// two inputs are whether an IT opinion already exists and whether the risk
// assessment has been performed.
func resolveAction(key types.ActionKey, d *Demand) Action {
	action := Action{Key: key, Enabled: true}

	switch key {
	case types.ActionCancel:
		// Cancelling after a technical review would silently discard the
		// sunk review cost.
		if d.TechnicalApprovalPresent {
			action.Enabled = false
			action.Reason = "demand already has a technical approval and can no longer be cancelled"
		}
	case types.ActionAssessRisk:
		if d.RiskAssessmentDone {
			action.Enabled = false
			action.Reason = "risk assessment has already been performed"
		}
	case types.ActionRequestITOpinion:
		if d.TechnicalApprovalPresent {
			action.Enabled = false
			action.Reason = "an IT opinion is already present"
		}
	}

	return action
}
