package types

import "strings"

// ActionKey identifies a user-facing action offered on a demand
type ActionKey string

const (
	ActionView             ActionKey = "view"
	ActionEdit             ActionKey = "edit"
	ActionComment          ActionKey = "comment"
	ActionApprove          ActionKey = "approve"
	ActionReject           ActionKey = "reject"
	ActionRequestInput     ActionKey = "request_input"
	ActionAssessRisk       ActionKey = "assess_risk"
	ActionRequestITOpinion ActionKey = "request_it_opinion"
	ActionCancel           ActionKey = "cancel"
)

// MoveActionKey derives the move-type action key for a target status,
// e.g. "move_to_backlog" for DemandStatusBacklog. Move keys are never
// declared as constants so that the transition table stays the single
// source of truth for which moves exist.
func MoveActionKey(target DemandStatus) ActionKey {
	return ActionKey("move_to_" + strings.ToLower(string(target)))
}

// IsMove reports whether the key is a derived move-type action
func (k ActionKey) IsMove() bool {
	return strings.HasPrefix(string(k), "move_to_")
}

// MoveTarget returns the target status encoded in a move-type action key.
// The second return value is false for non-move keys or unknown statuses.
func (k ActionKey) MoveTarget() (DemandStatus, bool) {
	if !k.IsMove() {
		return "", false
	}
	s := DemandStatus(strings.ToUpper(strings.TrimPrefix(string(k), "move_to_")))
	if !s.IsValid() {
		return "", false
	}
	return s, true
}

// String returns the string representation of the action key
func (k ActionKey) String() string {
	return string(k)
}
