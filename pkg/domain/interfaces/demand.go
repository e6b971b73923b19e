package interfaces

import (
	"context"

	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
)

// ListDemandsOptions narrows a demand listing
type ListDemandsOptions struct {
	CompanyID types.CompanyID
	Status    types.DemandStatus
}

// DemandRepository persists demands. Status changes go through Update as
// single-row writes; the engine's transition rules are enforced by the
// caller, not the store.
type DemandRepository interface {
	Create(ctx context.Context, d *model.Demand) (*model.Demand, error)
	Get(ctx context.Context, id int64) (*model.Demand, error)
	Update(ctx context.Context, d *model.Demand) (*model.Demand, error)
	List(ctx context.Context, opts ListDemandsOptions) ([]*model.Demand, error)
	Delete(ctx context.Context, id int64) error
}
