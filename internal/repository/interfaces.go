package repository

import (
	"context"

	"github.com/alexanderramin/planforge/internal/domain"
)

// PlanRepo persists whole plan snapshots: the plan row, its status history
// and its node tree. Create and Save issue several statements and should run
// inside a db.UnitOfWork transaction.
type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	// List returns catalogue rows ordered by creation time. Nodes and status
	// history are not loaded.
	List(ctx context.Context, includeClosed bool) ([]*domain.Plan, error)
	// Save replaces the stored snapshot of an existing plan.
	Save(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error
}
