package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

type demandRepository struct {
	mu      sync.RWMutex
	demands map[int64]*model.Demand
	nextID  int64
}

func newDemandRepository() *demandRepository {
	return &demandRepository{
		demands: make(map[int64]*model.Demand),
		nextID:  1,
	}
}

// copyDemand creates a deep copy of a demand
func copyDemand(d *model.Demand) *model.Demand {
	copied := *d
	return &copied
}

func (r *demandRepository) Create(ctx context.Context, d *model.Demand) (*model.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyDemand(d)
	created.ID = r.nextID
	created.Status = d.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.demands[created.ID] = created
	r.nextID++

	return copyDemand(created), nil
}

func (r *demandRepository) Get(ctx context.Context, id int64) (*model.Demand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.demands[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "demand not found", goerr.V("id", id))
	}

	return copyDemand(d), nil
}

func (r *demandRepository) Update(ctx context.Context, d *model.Demand) (*model.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.demands[d.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "demand not found", goerr.V("id", d.ID))
	}

	updated := copyDemand(d)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.demands[updated.ID] = updated
	return copyDemand(updated), nil
}

func (r *demandRepository) List(ctx context.Context, opts interfaces.ListDemandsOptions) ([]*model.Demand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Demand
	for _, d := range r.demands {
		if opts.CompanyID != "" && d.CompanyID != opts.CompanyID {
			continue
		}
		if opts.Status != types.DemandStatus("") && d.Status.Normalize() != opts.Status {
			continue
		}
		result = append(result, copyDemand(d))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *demandRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.demands[id]; !exists {
		return goerr.Wrap(ErrNotFound, "demand not found", goerr.V("id", id))
	}

	delete(r.demands, id)
	return nil
}
