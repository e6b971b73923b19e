package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) historyCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_history"
	}
	return "history"
}

func (r *historyRepository) Append(ctx context.Context, entry *model.HistoryEntry) error {
	stored := *entry
	if stored.ID == "" {
		stored.ID = model.NewHistoryEntryID()
	}
	stored.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.historyCollection()).Doc(stored.ID.String())
	if _, err := docRef.Create(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to append history entry", goerr.V("demandID", entry.DemandID))
	}

	return nil
}

func (r *historyRepository) ListByDemand(ctx context.Context, demandID int64) ([]*model.HistoryEntry, error) {
	// Requires the composite index maintained by the migrate command
	query := r.client.Collection(r.historyCollection()).
		Where("DemandID", "==", demandID).
		OrderBy("CreatedAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.HistoryEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate history")
		}

		var entry model.HistoryEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history entry")
		}
		result = append(result, &entry)
	}

	return result, nil
}
