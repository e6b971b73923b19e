package memory

import (
	"context"
	"sync"
	"time"

	"github.com/opsdesk/demandflow/pkg/domain/model"
)

type historyRepository struct {
	mu      sync.RWMutex
	entries map[int64][]*model.HistoryEntry
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		entries: make(map[int64][]*model.HistoryEntry),
	}
}

func copyHistoryEntry(e *model.HistoryEntry) *model.HistoryEntry {
	copied := *e
	return &copied
}

func (r *historyRepository) Append(ctx context.Context, entry *model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyHistoryEntry(entry)
	if stored.ID == "" {
		stored.ID = model.NewHistoryEntryID()
	}
	stored.CreatedAt = time.Now().UTC()

	r.entries[stored.DemandID] = append(r.entries[stored.DemandID], stored)
	return nil
}

func (r *historyRepository) ListByDemand(ctx context.Context, demandID int64) ([]*model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[demandID]
	result := make([]*model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, copyHistoryEntry(e))
	}

	return result, nil
}
