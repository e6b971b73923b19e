package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskAssessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskAssessmentRepository(client *firestore.Client) *riskAssessmentRepository {
	return &riskAssessmentRepository{client: client}
}

func (r *riskAssessmentRepository) assessmentsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risk_assessments"
	}
	return "risk_assessments"
}

func (r *riskAssessmentRepository) Put(ctx context.Context, ra *model.RiskAssessment) (*model.RiskAssessment, error) {
	docID := fmt.Sprintf("%d", ra.DemandID)
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(docID)

	now := time.Now().UTC()
	stored := *ra
	stored.UpdatedAt = now

	existing, err := docRef.Get(ctx)
	switch {
	case err == nil:
		var prev model.RiskAssessment
		if decodeErr := existing.DataTo(&prev); decodeErr == nil {
			stored.CreatedAt = prev.CreatedAt
		} else {
			stored.CreatedAt = now
		}
	case status.Code(err) == codes.NotFound:
		stored.CreatedAt = now
	default:
		return nil, goerr.Wrap(err, "failed to check risk assessment", goerr.V("demandID", ra.DemandID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put risk assessment", goerr.V("demandID", ra.DemandID))
	}

	return &stored, nil
}

func (r *riskAssessmentRepository) Get(ctx context.Context, demandID int64) (*model.RiskAssessment, error) {
	docID := fmt.Sprintf("%d", demandID)
	doc, err := r.client.Collection(r.assessmentsCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("demandID", demandID))
		}
		return nil, goerr.Wrap(err, "failed to get risk assessment", goerr.V("demandID", demandID))
	}

	var ra model.RiskAssessment
	if err := doc.DataTo(&ra); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk assessment", goerr.V("demandID", demandID))
	}

	return &ra, nil
}
