package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planforge/internal/db"
	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/tree"
)

type nodeService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewNodeService(plans repository.PlanRepo, uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) NodeService {
	return &nodeService{
		plans:    plans,
		uow:      uow,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

// edit loads the plan, replaces its tree with fn's result and saves it in
// one transaction. Nothing is written when fn fails.
func (s *nodeService) edit(ctx context.Context, planID string, fn func(t tree.Tree) (tree.Tree, error)) (*domain.Plan, error) {
	return db.InTx(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*domain.Plan, error) {
		repo := repository.NewSQLitePlanRepo(tx)
		p, err := repo.GetByID(ctx, planID)
		if err != nil {
			return nil, err
		}
		next, err := fn(p.Nodes)
		if err != nil {
			return nil, err
		}
		p.Nodes = next
		derive(p)
		if err := validatePlan(p, s.opts.limits()); err != nil {
			return nil, err
		}
		p.UpdatedAt = s.opts.now()
		if err := repo.Save(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	})
}

func (s *nodeService) Add(ctx context.Context, planID, parentID string, child *domain.Node) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan": planID, "parent": parentID}
	defer observe(ctx, s.observer, "add-node", fields, &err)()

	if child != nil && child.ID == "" {
		child.ID = tree.NewID()
	}
	if child != nil {
		fields["node"] = child.ID
	}
	return s.edit(ctx, planID, func(t tree.Tree) (tree.Tree, error) {
		next, err := tree.AddChild(t, parentID, child)
		if err != nil {
			return nil, fmt.Errorf("adding node under %s: %w", parentID, err)
		}
		return next, nil
	})
}

func (s *nodeService) Update(ctx context.Context, planID, nodeID string, patch tree.Patch) (node *domain.Node, err error) {
	defer observe(ctx, s.observer, "update-node", map[string]any{"plan": planID, "node": nodeID}, &err)()

	p, err := s.edit(ctx, planID, func(t tree.Tree) (tree.Tree, error) {
		if _, ok := tree.Find(t, nodeID); !ok {
			return nil, fmt.Errorf("node %s: %w", nodeID, tree.ErrNodeNotFound)
		}
		return tree.Update(t, nodeID, patch), nil
	})
	if err != nil {
		return nil, err
	}
	node, _ = tree.Find(p.Nodes, nodeID)
	return node, nil
}

// Remove also drops dependency references to the removed nodes.
func (s *nodeService) Remove(ctx context.Context, planID, nodeID string) (removed int, err error) {
	fields := map[string]any{"plan": planID, "node": nodeID}
	defer observe(ctx, s.observer, "remove-node", fields, &err)()

	_, err = s.edit(ctx, planID, func(t tree.Tree) (tree.Tree, error) {
		n, ok := tree.Find(t, nodeID)
		if !ok {
			return nil, fmt.Errorf("node %s: %w", nodeID, tree.ErrNodeNotFound)
		}
		removed = 1 + tree.CountDescendants(n)
		return pruneDependencies(tree.Remove(t, nodeID)), nil
	})
	if err != nil {
		return 0, err
	}
	fields["removed"] = removed
	return removed, nil
}

func (s *nodeService) Move(ctx context.Context, planID, nodeID, newParentID string) (err error) {
	defer observe(ctx, s.observer, "move-node", map[string]any{"plan": planID, "node": nodeID, "parent": newParentID}, &err)()

	_, err = s.edit(ctx, planID, func(t tree.Tree) (tree.Tree, error) {
		next, err := tree.Move(t, nodeID, newParentID)
		if err != nil {
			return nil, fmt.Errorf("moving %s under %s: %w", nodeID, newParentID, err)
		}
		return next, nil
	})
	return err
}

func (s *nodeService) Reorder(ctx context.Context, planID, nodeID string, index int) (err error) {
	defer observe(ctx, s.observer, "reorder-node", map[string]any{"plan": planID, "node": nodeID, "index": index}, &err)()

	_, err = s.edit(ctx, planID, func(t tree.Tree) (tree.Tree, error) {
		if _, ok := tree.Find(t, nodeID); !ok {
			return nil, fmt.Errorf("node %s: %w", nodeID, tree.ErrNodeNotFound)
		}
		return tree.Reorder(t, nodeID, index), nil
	})
	return err
}

func (s *nodeService) Find(ctx context.Context, planID, nodeID string) (*domain.Node, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	n, ok := tree.Find(p.Nodes, nodeID)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", nodeID, tree.ErrNodeNotFound)
	}
	return n, nil
}

func (s *nodeService) Search(ctx context.Context, planID, query string) ([]*domain.Node, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return tree.Search(p.Nodes, query), nil
}

func (s *nodeService) Stats(ctx context.Context, planID string) (*PlanStats, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	kinds := make(map[domain.Kind]int)
	tree.Walk(p.Nodes, func(n *domain.Node, _ int) bool {
		kinds[n.Kind]++
		return true
	})
	summary := tree.Derive(p.Nodes)
	return &PlanStats{
		NodeCount:    summary.NodeCount,
		Completion:   summary.Completion,
		Depth:        depth(p.Nodes),
		KindCounts:   kinds,
		StatusCounts: tree.StatusBreakdown(p.Nodes),
		Preview:      summary.Preview,
	}, nil
}
