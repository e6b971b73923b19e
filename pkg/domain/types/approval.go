package types

import "fmt"

// ApprovalLevel identifies which approval tier a record belongs to
type ApprovalLevel string

const (
	ApprovalLevelManager   ApprovalLevel = "MANAGER"
	ApprovalLevelCommittee ApprovalLevel = "COMMITTEE"
	ApprovalLevelIT        ApprovalLevel = "IT"
)

// AllApprovalLevels returns all valid approval levels in workflow order
func AllApprovalLevels() []ApprovalLevel {
	return []ApprovalLevel{
		ApprovalLevelManager,
		ApprovalLevelCommittee,
		ApprovalLevelIT,
	}
}

// IsValid checks if the approval level is valid
func (l ApprovalLevel) IsValid() bool {
	switch l {
	case ApprovalLevelManager, ApprovalLevelCommittee, ApprovalLevelIT:
		return true
	default:
		return false
	}
}

// Next returns the following level in the Manager -> Committee -> IT chain.
// The second return value is false when there is no next level.
func (l ApprovalLevel) Next() (ApprovalLevel, bool) {
	switch l {
	case ApprovalLevelManager:
		return ApprovalLevelCommittee, true
	case ApprovalLevelCommittee:
		return ApprovalLevelIT, true
	default:
		return "", false
	}
}

// String returns the string representation of the approval level
func (l ApprovalLevel) String() string {
	return string(l)
}

// ParseApprovalLevel parses a string into an ApprovalLevel
func ParseApprovalLevel(s string) (ApprovalLevel, error) {
	l := ApprovalLevel(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid approval level: %s", s)
	}
	return l, nil
}

// ApprovalOutcome represents the recorded decision of a single approver
type ApprovalOutcome string

const (
	ApprovalOutcomePending  ApprovalOutcome = "PENDING"
	ApprovalOutcomeApproved ApprovalOutcome = "APPROVED"
	ApprovalOutcomeRejected ApprovalOutcome = "REJECTED"
)

// AllApprovalOutcomes returns all valid approval outcomes
func AllApprovalOutcomes() []ApprovalOutcome {
	return []ApprovalOutcome{
		ApprovalOutcomePending,
		ApprovalOutcomeApproved,
		ApprovalOutcomeRejected,
	}
}

// IsValid checks if the approval outcome is valid
func (o ApprovalOutcome) IsValid() bool {
	switch o {
	case ApprovalOutcomePending, ApprovalOutcomeApproved, ApprovalOutcomeRejected:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the outcome counts as a vote. Pending records are
// input requests and never participate in quorum.
func (o ApprovalOutcome) IsFinal() bool {
	return o == ApprovalOutcomeApproved || o == ApprovalOutcomeRejected
}

// String returns the string representation of the approval outcome
func (o ApprovalOutcome) String() string {
	return string(o)
}

// ParseApprovalOutcome parses a string into an ApprovalOutcome
func ParseApprovalOutcome(s string) (ApprovalOutcome, error) {
	o := ApprovalOutcome(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid approval outcome: %s", s)
	}
	return o, nil
}
