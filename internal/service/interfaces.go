package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/snapshot"
	"github.com/alexanderramin/planforge/internal/tree"
)

// CreatePlanRequest describes a new plan. Hierarchy defaults to release and
// Version to 1.0.0.
type CreatePlanRequest struct {
	Name        string
	Version     string
	Description string
	Hierarchy   domain.Hierarchy
	Category    domain.Category
	Tags        []string
	TargetDate  *time.Time
	Environment domain.Environment
}

type PlanService interface {
	Create(ctx context.Context, req CreatePlanRequest) (*domain.Plan, error)
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, includeClosed bool) ([]*domain.Plan, error)
	// Save validates p, recomputes its derived fields and replaces the
	// stored snapshot.
	Save(ctx context.Context, p *domain.Plan) error
	Duplicate(ctx context.Context, id string) (*domain.Plan, error)
	Close(ctx context.Context, id, reason string) (*domain.Plan, error)
	Reopen(ctx context.Context, id, reason string) (*domain.Plan, error)
	BumpVersion(ctx context.Context, id string) (*domain.Plan, error)
	Delete(ctx context.Context, id string, force bool) error
}

// PlanStats summarises one plan's tree.
type PlanStats struct {
	NodeCount    int
	Completion   int
	Depth        int
	KindCounts   map[domain.Kind]int
	StatusCounts map[domain.Status]int
	Preview      domain.Preview
}

// NodeService edits the tree of a stored plan. Every mutating call loads the
// plan, applies one tree operation and saves the snapshot in a single
// transaction.
type NodeService interface {
	// Add attaches child under parentID and returns the saved plan.
	Add(ctx context.Context, planID, parentID string, child *domain.Node) (*domain.Plan, error)
	Update(ctx context.Context, planID, nodeID string, patch tree.Patch) (*domain.Node, error)
	// Remove deletes the node and its subtree and returns how many nodes
	// were removed.
	Remove(ctx context.Context, planID, nodeID string) (int, error)
	Move(ctx context.Context, planID, nodeID, newParentID string) error
	Reorder(ctx context.Context, planID, nodeID string, index int) error
	Find(ctx context.Context, planID, nodeID string) (*domain.Node, error)
	Search(ctx context.Context, planID, query string) ([]*domain.Node, error)
	Stats(ctx context.Context, planID string) (*PlanStats, error)
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Plan      *domain.Plan
	NodeCount int
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSnapshot(ctx context.Context, snap *snapshot.Snapshot) (*ImportResult, error)
	ExportPlan(ctx context.Context, id string, w io.Writer, format snapshot.Format) error
}
