package model

import (
	"fmt"

	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// DefaultCommitteeThreshold is the minimum committee approval percentage
// required to move a demand into director review.
const DefaultCommitteeThreshold = 80

// TransitionDecision is the outcome of validating a requested status
// change. It is always a value, never an error: a denied transition is a
// normal answer, not a failure.
type TransitionDecision struct {
	Allowed              bool
	Message              string
	RequiresConfirmation bool
}

func allow() TransitionDecision {
	return TransitionDecision{Allowed: true}
}

func allowWithConfirmation(msg string) TransitionDecision {
	return TransitionDecision{Allowed: true, RequiresConfirmation: true, Message: msg}
}

func deny(msg string) TransitionDecision {
	return TransitionDecision{Allowed: false, Message: msg}
}

// statusAdjacency is the closed transition table. Every non-terminal status
// additionally reaches ARCHIVED; the terminal statuses have no entries at
// all. Guards on individual edges live in transitionGuards.
var statusAdjacency = map[types.DemandStatus][]types.DemandStatus{
	types.DemandStatusStandBy: {
		types.DemandStatusBacklog,
		types.DemandStatusManagerApprovedGP,
	},
	types.DemandStatusBacklog: {
		types.DemandStatusManagerApprovedGP,
		types.DemandStatusStandBy,
		types.DemandStatusAwaitingManager,
	},
	types.DemandStatusAwaitingManager: {
		types.DemandStatusApproved,
		types.DemandStatusAwaitingCommittee,
		types.DemandStatusBacklog,
	},
	types.DemandStatusManagerApprovedGP: {
		types.DemandStatusInProgress,
		types.DemandStatusAwaitingCommittee,
		types.DemandStatusBacklog,
	},
	types.DemandStatusAwaitingITAssessment: {
		types.DemandStatusDirectorReview,
		types.DemandStatusBacklog,
	},
	types.DemandStatusAwaitingCommittee: {
		types.DemandStatusDirectorReview,
		types.DemandStatusAwaitingITAssessment,
		types.DemandStatusBacklog,
	},
	types.DemandStatusDirectorReview: {
		types.DemandStatusApproved,
		types.DemandStatusBacklog,
	},
	types.DemandStatusApproved: {
		types.DemandStatusInProgress,
		types.DemandStatusBacklog,
	},
	types.DemandStatusInProgress: {
		types.DemandStatusApproved,
		types.DemandStatusManagerApprovedGP,
		types.DemandStatusCompleted,
		types.DemandStatusArchived,
		types.DemandStatusBlocked,
	},
	types.DemandStatusBlocked: {
		types.DemandStatusInProgress,
		types.DemandStatusBacklog,
	},
	types.DemandStatusCompleted: {},
	types.DemandStatusArchived:  {},
}

type edge struct {
	from types.DemandStatus
	to   types.DemandStatus
}

// TransitionValidator validates requested status changes against the
// transition table and its edge guards.
type TransitionValidator struct {
	committeeThreshold int
	guards             map[edge]func(*Demand) TransitionDecision
}

// TransitionOption configures a TransitionValidator
type TransitionOption func(*TransitionValidator)

// WithCommitteeThreshold overrides the committee approval percentage
// required for the move into director review.
func WithCommitteeThreshold(percent int) TransitionOption {
	return func(v *TransitionValidator) {
		v.committeeThreshold = percent
	}
}

// NewTransitionValidator creates a validator with the default guard set
func NewTransitionValidator(opts ...TransitionOption) *TransitionValidator {
	v := &TransitionValidator{
		committeeThreshold: DefaultCommitteeThreshold,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.guards = map[edge]func(*Demand) TransitionDecision{
		{types.DemandStatusAwaitingManager, types.DemandStatusApproved}: func(d *Demand) TransitionDecision {
			if d.Priority.RequiresCommittee() {
				return deny(fmt.Sprintf("%s priority demands cannot be approved by the manager alone; submit to the committee instead", d.Priority))
			}
			return allow()
		},
		{types.DemandStatusManagerApprovedGP, types.DemandStatusInProgress}: func(d *Demand) TransitionDecision {
			if d.Priority.RequiresCommittee() {
				return deny(fmt.Sprintf("%s priority demands must pass committee approval before execution", d.Priority))
			}
			return allowWithConfirmation("demand will start execution without committee review")
		},
		{types.DemandStatusManagerApprovedGP, types.DemandStatusAwaitingCommittee}: func(d *Demand) TransitionDecision {
			if !d.TechnicalApprovalPresent {
				return deny("an IT opinion is required before committee submission")
			}
			return allow()
		},
		{types.DemandStatusAwaitingCommittee, types.DemandStatusDirectorReview}: func(d *Demand) TransitionDecision {
			if d.CommitteeApprovalPercent < v.committeeThreshold {
				return deny(fmt.Sprintf("committee approval is at %d%%, below the required %d%%", d.CommitteeApprovalPercent, v.committeeThreshold))
			}
			return allow()
		},
		{types.DemandStatusApproved, types.DemandStatusInProgress}: func(d *Demand) TransitionDecision {
			if !d.HasSquad() {
				return deny("a squad must be assigned before execution starts")
			}
			return allow()
		},
		{types.DemandStatusInProgress, types.DemandStatusCompleted}: func(d *Demand) TransitionDecision {
			return allowWithConfirmation("completing a demand ends its cycle permanently")
		},
	}

	return v
}

// Validate decides whether the demand may move to the target status. It
// never returns an error; a structurally impossible or guarded-off move is
// reported through the decision itself.
func (v *TransitionValidator) Validate(d *Demand, target types.DemandStatus) TransitionDecision {
	current := d.Status.Normalize()

	if current.IsTerminal() {
		return deny(fmt.Sprintf("demand cycle has ended: no transitions are possible from %s", current))
	}

	if !target.IsValid() {
		return deny(fmt.Sprintf("unknown target status: %s", target))
	}

	// Archiving is irreversible but reachable from every non-terminal state.
	if target == types.DemandStatusArchived {
		return allowWithConfirmation("archiving is irreversible")
	}

	if !v.structurallyAllowed(current, target) {
		return deny(fmt.Sprintf("cannot move from %s to %s", current, target))
	}

	if guard, ok := v.guards[edge{current, target}]; ok {
		return guard(d)
	}

	return allow()
}

func (v *TransitionValidator) structurallyAllowed(from, to types.DemandStatus) bool {
	for _, next := range statusAdjacency[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Targets returns the reachable target statuses for a given source status,
// including the always-available ARCHIVED edge for non-terminal states. The
// returned slice is a copy.
func (v *TransitionValidator) Targets(from types.DemandStatus) []types.DemandStatus {
	from = from.Normalize()
	if from.IsTerminal() {
		return nil
	}

	adjacent := statusAdjacency[from]
	targets := make([]types.DemandStatus, 0, len(adjacent)+1)
	targets = append(targets, adjacent...)

	hasArchived := false
	for _, t := range targets {
		if t == types.DemandStatusArchived {
			hasArchived = true
			break
		}
	}
	if !hasArchived {
		targets = append(targets, types.DemandStatusArchived)
	}

	return targets
}

// CommitteeThreshold returns the configured committee approval percentage
func (v *TransitionValidator) CommitteeThreshold() int {
	return v.committeeThreshold
}
