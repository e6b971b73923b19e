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

type memberRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemberRepository(client *firestore.Client) *memberRepository {
	return &memberRepository{client: client}
}

func (r *memberRepository) membersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_members"
	}
	return "members"
}

func memberDocID(m *model.Member) string {
	if m.Role.IsCompanyScoped() {
		return fmt.Sprintf("%s_%s_%s", m.Role, m.CompanyID, m.UserID)
	}
	return fmt.Sprintf("%s_%s", m.Role, m.UserID)
}

func (r *memberRepository) Put(ctx context.Context, m *model.Member) error {
	docRef := r.client.Collection(r.membersCollection()).Doc(memberDocID(m))

	now := time.Now().UTC()
	stored := *m
	stored.UpdatedAt = now

	existing, err := docRef.Get(ctx)
	switch {
	case err == nil:
		var prev model.Member
		if decodeErr := existing.DataTo(&prev); decodeErr == nil {
			stored.CreatedAt = prev.CreatedAt
		} else {
			stored.CreatedAt = now
		}
	case status.Code(err) == codes.NotFound:
		stored.CreatedAt = now
	default:
		return goerr.Wrap(err, "failed to check member", goerr.V("userID", m.UserID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to put member", goerr.V("userID", m.UserID))
	}

	return nil
}

func (r *memberRepository) ListActive(ctx context.Context, role types.MemberRole, companyID types.CompanyID) ([]*model.Member, error) {
	query := r.client.Collection(r.membersCollection()).
		Where("Role", "==", role.String()).
		Where("Active", "==", true)
	if role.IsCompanyScoped() {
		query = query.Where("CompanyID", "==", companyID.String())
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Member
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate members")
		}

		var m model.Member
		if err := doc.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to decode member")
		}
		result = append(result, &m)
	}

	return result, nil
}

func (r *memberRepository) CountActive(ctx context.Context, role types.MemberRole, companyID types.CompanyID) (int, error) {
	members, err := r.ListActive(ctx, role, companyID)
	if err != nil {
		return 0, err
	}
	return len(members), nil
}
