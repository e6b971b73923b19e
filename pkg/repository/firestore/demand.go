package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type demandRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDemandRepository(client *firestore.Client) *demandRepository {
	return &demandRepository{client: client}
}

func (r *demandRepository) demandsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_demands"
	}
	return "demands"
}

func (r *demandRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *demandRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc("demand_counter")

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *demandRepository) Create(ctx context.Context, d *model.Demand) (*model.Demand, error) {
	nextID, err := r.getNextID(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := *d
	created.ID = nextID
	created.Status = d.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.demandsCollection()).Doc(docID).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create demand", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *demandRepository) Get(ctx context.Context, id int64) (*model.Demand, error) {
	docID := fmt.Sprintf("%d", id)
	doc, err := r.client.Collection(r.demandsCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "demand not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get demand", goerr.V("id", id))
	}

	var d model.Demand
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode demand", goerr.V("id", id))
	}

	return &d, nil
}

func (r *demandRepository) Update(ctx context.Context, d *model.Demand) (*model.Demand, error) {
	existing, err := r.Get(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	updated := *d
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docID := fmt.Sprintf("%d", updated.ID)
	if _, err := r.client.Collection(r.demandsCollection()).Doc(docID).Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update demand", goerr.V("id", updated.ID))
	}

	return &updated, nil
}

func (r *demandRepository) List(ctx context.Context, opts interfaces.ListDemandsOptions) ([]*model.Demand, error) {
	query := r.client.Collection(r.demandsCollection()).Query
	if opts.CompanyID != "" {
		query = query.Where("CompanyID", "==", opts.CompanyID.String())
	}
	if opts.Status != "" {
		query = query.Where("Status", "==", opts.Status.String())
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Demand
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate demands")
		}

		var d model.Demand
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode demand")
		}
		result = append(result, &d)
	}

	return result, nil
}

func (r *demandRepository) Delete(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	ref := r.client.Collection(r.demandsCollection()).Doc(docID)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "demand not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get demand", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete demand", goerr.V("id", id))
	}

	return nil
}
