package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type approvalRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newApprovalRepository(client *firestore.Client) *approvalRepository {
	return &approvalRepository{client: client}
}

func (r *approvalRepository) approvalsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_approvals"
	}
	return "approvals"
}

// approvalDocID builds a deterministic document ID from the uniqueness key.
// The transaction below relies on it: two concurrent inserts for the same
// (demand, approver, level) contend on the same document, so exactly one
// writer observes inserted=true.
func approvalDocID(demandID int64, approverID types.UserID, level types.ApprovalLevel) string {
	return fmt.Sprintf("%d_%s_%s", demandID, approverID, level)
}

func (r *approvalRepository) InsertIfAbsent(ctx context.Context, rec *model.ApprovalRecord) (bool, error) {
	// Pending input requests do not occupy the uniqueness slot, so they get
	// their own document and never block a later vote.
	if !rec.Outcome.IsFinal() {
		created := *rec
		if created.ID == "" {
			created.ID = model.NewApprovalRecordID()
		}
		created.CreatedAt = time.Now().UTC()
		_, err := r.client.Collection(r.approvalsCollection()).Doc(string(created.ID)).Set(ctx, &created)
		if err != nil {
			return false, goerr.Wrap(err, "failed to insert pending approval",
				goerr.V("demandID", rec.DemandID),
				goerr.V("approverID", rec.ApproverID))
		}
		return true, nil
	}

	docRef := r.client.Collection(r.approvalsCollection()).Doc(approvalDocID(rec.DemandID, rec.ApproverID, rec.Level))

	inserted := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(docRef)
		if err == nil {
			inserted = false
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check approval existence")
		}

		created := *rec
		if created.ID == "" {
			created.ID = model.NewApprovalRecordID()
		}
		created.CreatedAt = time.Now().UTC()

		inserted = true
		return tx.Set(docRef, &created)
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to insert approval",
			goerr.V("demandID", rec.DemandID),
			goerr.V("approverID", rec.ApproverID),
			goerr.V("level", rec.Level))
	}

	return inserted, nil
}

func (r *approvalRepository) ListByDemand(ctx context.Context, demandID int64) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("DemandID", "==", demandID)
	return r.collect(ctx, query.Documents(ctx))
}

func (r *approvalRepository) ListByDemandLevel(ctx context.Context, demandID int64, level types.ApprovalLevel) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("DemandID", "==", demandID).
		Where("Level", "==", level.String())
	return r.collect(ctx, query.Documents(ctx))
}

func (r *approvalRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*model.ApprovalRecord, error) {
	defer iter.Stop()

	var result []*model.ApprovalRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate approvals")
		}

		var rec model.ApprovalRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode approval")
		}
		result = append(result, &rec)
	}

	return result, nil
}
