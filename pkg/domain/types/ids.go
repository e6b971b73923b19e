package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// UserID identifies a user (requester, approver, assessor)
type UserID string

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// CompanyID identifies a company for company-scoped rosters
type CompanyID string

// Validate checks if the CompanyID is valid
func (c CompanyID) Validate() error {
	if c == "" {
		return goerr.New("company ID cannot be empty")
	}
	if !idPattern.MatchString(string(c)) {
		return goerr.New("company ID must be lowercase alphanumeric with hyphens", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CompanyID
func (c CompanyID) String() string {
	return string(c)
}

// SquadID identifies the delivery team assigned to execute a demand
type SquadID string

// String returns the string representation of SquadID
func (s SquadID) String() string {
	return string(s)
}

// HistoryKind classifies an entry in the demand history log
type HistoryKind string

const (
	HistoryKindStatusChange   HistoryKind = "STATUS_CHANGE"
	HistoryKindApproval       HistoryKind = "APPROVAL"
	HistoryKindRiskAssessment HistoryKind = "RISK_ASSESSMENT"
	HistoryKindInputRequest   HistoryKind = "INPUT_REQUEST"
)

// IsValid checks if the history kind is valid
func (k HistoryKind) IsValid() bool {
	switch k {
	case HistoryKindStatusChange, HistoryKindApproval, HistoryKindRiskAssessment, HistoryKindInputRequest:
		return true
	default:
		return false
	}
}

// String returns the string representation of the history kind
func (k HistoryKind) String() string {
	return string(k)
}
