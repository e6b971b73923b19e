package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/repository/firestore"
	"github.com/opsdesk/demandflow/pkg/repository/memory"
)

func runApprovalRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("InsertIfAbsent inserts first record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		inserted, err := repo.Approval().InsertIfAbsent(ctx, &model.ApprovalRecord{
			DemandID:   1,
			ApproverID: "U001",
			Level:      types.ApprovalLevelCommittee,
			Outcome:    types.ApprovalOutcomeApproved,
		})
		gt.NoError(t, err).Required()
		gt.B(t, inserted).True()
	})

	t.Run("InsertIfAbsent is idempotent per key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		rec := &model.ApprovalRecord{
			DemandID:   2,
			ApproverID: "U001",
			Level:      types.ApprovalLevelManager,
			Outcome:    types.ApprovalOutcomeApproved,
		}

		inserted, err := repo.Approval().InsertIfAbsent(ctx, rec)
		gt.NoError(t, err).Required()
		gt.B(t, inserted).True()

		// Same approver, same level: no second vote
		inserted, err = repo.Approval().InsertIfAbsent(ctx, rec)
		gt.NoError(t, err).Required()
		gt.B(t, inserted).False()

		records, err := repo.Approval().ListByDemandLevel(ctx, 2, types.ApprovalLevelManager)
		gt.NoError(t, err).Required()
		gt.Number(t, len(records)).Equal(1)
	})

	t.Run("same approver may vote at different levels", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, level := range []types.ApprovalLevel{types.ApprovalLevelManager, types.ApprovalLevelCommittee} {
			inserted, err := repo.Approval().InsertIfAbsent(ctx, &model.ApprovalRecord{
				DemandID:   3,
				ApproverID: "U001",
				Level:      level,
				Outcome:    types.ApprovalOutcomeApproved,
			})
			gt.NoError(t, err).Required()
			gt.B(t, inserted).True()
		}

		records, err := repo.Approval().ListByDemand(ctx, 3)
		gt.NoError(t, err).Required()
		gt.Number(t, len(records)).Equal(2)
	})

	t.Run("ListByDemandLevel scopes to level", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, approver := range []types.UserID{"U001", "U002", "U003"} {
			_, err := repo.Approval().InsertIfAbsent(ctx, &model.ApprovalRecord{
				DemandID:   4,
				ApproverID: approver,
				Level:      types.ApprovalLevelCommittee,
				Outcome:    types.ApprovalOutcomeApproved,
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.Approval().InsertIfAbsent(ctx, &model.ApprovalRecord{
			DemandID:   4,
			ApproverID: "U009",
			Level:      types.ApprovalLevelIT,
			Outcome:    types.ApprovalOutcomeApproved,
		})
		gt.NoError(t, err).Required()

		committee, err := repo.Approval().ListByDemandLevel(ctx, 4, types.ApprovalLevelCommittee)
		gt.NoError(t, err).Required()
		gt.Number(t, len(committee)).Equal(3)

		it, err := repo.Approval().ListByDemandLevel(ctx, 4, types.ApprovalLevelIT)
		gt.NoError(t, err).Required()
		gt.Number(t, len(it)).Equal(1)
	})
}

func TestApprovalRepository_Memory(t *testing.T) {
	runApprovalRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestApprovalRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runApprovalRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
