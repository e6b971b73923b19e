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

func runDemandRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns auto-increment IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		d1, err := repo.Demand().Create(ctx, &model.Demand{
			Title:          "Migrate billing reports",
			Priority:       types.PriorityMedium,
			Classification: types.ClassificationImprovement,
			CompanyID:      "acme",
			RequesterID:    "U100",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, d1.ID).NotEqual(int64(0))
		gt.Value(t, d1.Status).Equal(types.DemandStatusBacklog)
		gt.Bool(t, d1.CreatedAt.IsZero()).False()

		d2, err := repo.Demand().Create(ctx, &model.Demand{
			Title:     "New supplier portal",
			Priority:  types.PriorityHigh,
			CompanyID: "acme",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, d2.ID).NotEqual(d1.ID)
	})

	t.Run("Get returns stored demand", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Demand().Create(ctx, &model.Demand{
			Title:     "Expand data warehouse",
			Priority:  types.PriorityLow,
			CompanyID: "acme",
		})
		gt.NoError(t, err).Required()

		got, err := repo.Demand().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal(created.Title)
		gt.Value(t, got.Priority).Equal(types.PriorityLow)
	})

	t.Run("Get unknown ID fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Demand().Get(ctx, 99999)
		gt.Error(t, err)
	})

	t.Run("Update preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Demand().Create(ctx, &model.Demand{
			Title:     "Replace legacy CRM",
			Priority:  types.PriorityCritical,
			CompanyID: "acme",
		})
		gt.NoError(t, err).Required()

		created.Status = types.DemandStatusAwaitingManager
		created.SquadID = "squad-3"
		updated, err := repo.Demand().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.DemandStatusAwaitingManager)
		gt.Value(t, updated.SquadID).Equal(types.SquadID("squad-3"))
		gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)
	})

	t.Run("List filters by company and status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Demand().Create(ctx, &model.Demand{
			Title:     "A",
			CompanyID: "acme",
			Status:    types.DemandStatusBacklog,
		})
		gt.NoError(t, err).Required()

		_, err = repo.Demand().Create(ctx, &model.Demand{
			Title:     "B",
			CompanyID: "globex",
			Status:    types.DemandStatusBacklog,
		})
		gt.NoError(t, err).Required()

		acme, err := repo.Demand().List(ctx, interfaces.ListDemandsOptions{CompanyID: "acme"})
		gt.NoError(t, err).Required()
		gt.Number(t, len(acme)).Equal(1)
		gt.Value(t, acme[0].Title).Equal("A")

		backlog, err := repo.Demand().List(ctx, interfaces.ListDemandsOptions{Status: types.DemandStatusBacklog})
		gt.NoError(t, err).Required()
		gt.Number(t, len(backlog)).Equal(2)
	})

	t.Run("Delete removes demand", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Demand().Create(ctx, &model.Demand{
			Title:     "Short-lived",
			CompanyID: "acme",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Demand().Delete(ctx, created.ID))

		_, err = repo.Demand().Get(ctx, created.ID)
		gt.Error(t, err)
	})
}

func TestDemandRepository_Memory(t *testing.T) {
	runDemandRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestDemandRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runDemandRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
