package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// ApprovalRecordID is a unique identifier for an approval record
type ApprovalRecordID string

// NewApprovalRecordID generates a new random approval record ID
func NewApprovalRecordID() ApprovalRecordID {
	return ApprovalRecordID(uuid.NewString())
}

// String returns the string representation of ApprovalRecordID
func (id ApprovalRecordID) String() string {
	return string(id)
}

// ApprovalRecord is one approver's recorded decision at one level for one
// demand. Records are immutable once written; a correction requires a new
// demand cycle, not an edit. At most one final record may exist per
// (demand, approver, level).
type ApprovalRecord struct {
	ID         ApprovalRecordID
	DemandID   int64
	ApproverID types.UserID
	Level      types.ApprovalLevel
	Outcome    types.ApprovalOutcome
	Reason     string
	CreatedAt  time.Time
}
