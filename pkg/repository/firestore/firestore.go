package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
)

type Firestore struct {
	client         *firestore.Client
	demand         *demandRepository
	approval       *approvalRepository
	riskAssessment *riskAssessmentRepository
	member         *memberRepository
	history        *historyRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests sharing
// a project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.demand.collectionPrefix = prefix
		f.approval.collectionPrefix = prefix
		f.riskAssessment.collectionPrefix = prefix
		f.member.collectionPrefix = prefix
		f.history.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:         client,
		demand:         newDemandRepository(client),
		approval:       newApprovalRepository(client),
		riskAssessment: newRiskAssessmentRepository(client),
		member:         newMemberRepository(client),
		history:        newHistoryRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Demand() interfaces.DemandRepository {
	return f.demand
}

func (f *Firestore) Approval() interfaces.ApprovalRepository {
	return f.approval
}

func (f *Firestore) RiskAssessment() interfaces.RiskAssessmentRepository {
	return f.riskAssessment
}

func (f *Firestore) Member() interfaces.MemberRepository {
	return f.member
}

func (f *Firestore) History() interfaces.HistoryRepository {
	return f.history
}

func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
