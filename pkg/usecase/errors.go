package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrDemandNotFound         = errors.New("demand not found")
	ErrRiskAssessmentNotFound = errors.New("risk assessment not found")

	// Transition errors
	ErrTransitionDenied     = errors.New("status transition denied")
	ErrConfirmationRequired = errors.New("status transition requires confirmation")

	// Approval errors
	ErrApprovalNotOpen = errors.New("demand is not awaiting approval at this level")

	// Risk assessment errors
	ErrRiskAssessmentLocked = errors.New("risk assessment can no longer be updated")

	// Input validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// Context keys for error values
const (
	DemandIDKey = "demand_id"
	ActorIDKey  = "actor_id"
	StatusKey   = "status"
	TargetKey   = "target"
	LevelKey    = "level"
)
