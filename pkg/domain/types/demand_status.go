package types

import "fmt"

// DemandStatus represents the lifecycle status of a demand
type DemandStatus string

const (
	DemandStatusStandBy              DemandStatus = "STAND_BY"
	DemandStatusBacklog              DemandStatus = "BACKLOG"
	DemandStatusAwaitingManager      DemandStatus = "AWAITING_MANAGER"
	DemandStatusManagerApprovedGP    DemandStatus = "MANAGER_APPROVED_GP"
	DemandStatusAwaitingITAssessment DemandStatus = "AWAITING_IT_ASSESSMENT"
	DemandStatusAwaitingCommittee    DemandStatus = "AWAITING_COMMITTEE"
	DemandStatusDirectorReview       DemandStatus = "DIRECTOR_REVIEW"
	DemandStatusApproved             DemandStatus = "APPROVED"
	DemandStatusInProgress           DemandStatus = "IN_PROGRESS"
	DemandStatusBlocked              DemandStatus = "BLOCKED"
	DemandStatusCompleted            DemandStatus = "COMPLETED"
	DemandStatusArchived             DemandStatus = "ARCHIVED"
)

// AllDemandStatuses returns all valid demand statuses
func AllDemandStatuses() []DemandStatus {
	return []DemandStatus{
		DemandStatusStandBy,
		DemandStatusBacklog,
		DemandStatusAwaitingManager,
		DemandStatusManagerApprovedGP,
		DemandStatusAwaitingITAssessment,
		DemandStatusAwaitingCommittee,
		DemandStatusDirectorReview,
		DemandStatusApproved,
		DemandStatusInProgress,
		DemandStatusBlocked,
		DemandStatusCompleted,
		DemandStatusArchived,
	}
}

// IsValid checks if the demand status is valid
func (s DemandStatus) IsValid() bool {
	switch s {
	case DemandStatusStandBy,
		DemandStatusBacklog,
		DemandStatusAwaitingManager,
		DemandStatusManagerApprovedGP,
		DemandStatusAwaitingITAssessment,
		DemandStatusAwaitingCommittee,
		DemandStatusDirectorReview,
		DemandStatusApproved,
		DemandStatusInProgress,
		DemandStatusBlocked,
		DemandStatusCompleted,
		DemandStatusArchived:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is a terminal sink with no outgoing
// transitions. Completed and Archived demands are immutable.
func (s DemandStatus) IsTerminal() bool {
	return s == DemandStatusCompleted || s == DemandStatusArchived
}

// Normalize returns the status, treating empty as DemandStatusBacklog for
// records created before the status field existed.
func (s DemandStatus) Normalize() DemandStatus {
	if s == "" {
		return DemandStatusBacklog
	}
	return s
}

// String returns the string representation of the demand status
func (s DemandStatus) String() string {
	return string(s)
}

// ParseDemandStatus parses a string into a DemandStatus
func ParseDemandStatus(s string) (DemandStatus, error) {
	status := DemandStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid demand status: %s", s)
	}
	return status, nil
}
