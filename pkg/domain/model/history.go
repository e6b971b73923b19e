package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// HistoryEntryID is a unique identifier for a history entry
type HistoryEntryID string

// NewHistoryEntryID generates a new random history entry ID
func NewHistoryEntryID() HistoryEntryID {
	return HistoryEntryID(uuid.NewString())
}

// String returns the string representation of HistoryEntryID
func (id HistoryEntryID) String() string {
	return string(id)
}

// HistoryEntry is one append-only audit record for a demand. Entries are
// written once per accepted action, never for rejected attempts.
type HistoryEntry struct {
	ID          HistoryEntryID
	DemandID    int64
	ActorID     types.UserID
	Kind        types.HistoryKind
	Before      string
	After       string
	Description string
	CreatedAt   time.Time
}
