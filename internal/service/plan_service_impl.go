package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planforge/internal/db"
	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/tree"
)

const defaultPlanVersion = "1.0.0"

type planService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewPlanService(plans repository.PlanRepo, uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) PlanService {
	return &planService{
		plans:    plans,
		uow:      uow,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Create(ctx context.Context, req CreatePlanRequest) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, "create-plan", map[string]any{"name": req.Name}, &err)()

	now := s.opts.now()
	h := req.Hierarchy
	if h == "" {
		h = domain.HierarchyRelease
	}
	version := domain.CoalesceStr(strings.TrimSpace(req.Version), defaultPlanVersion)

	root := tree.NewNode(h.TopKind(), strings.TrimSpace(req.Name))
	root.Expanded = true
	root.Properties.Description = req.Description
	root.Properties.TargetDate = req.TargetDate
	root.Properties.Environment = req.Environment
	if h == domain.HierarchyRelease {
		root.Properties.Version = version
	}

	plan = &domain.Plan{
		ID:          tree.NewID(),
		Name:        strings.TrimSpace(req.Name),
		Version:     version,
		Description: req.Description,
		Hierarchy:   h,
		Category:    req.Category,
		Tags:        req.Tags,
		TargetDate:  req.TargetDate,
		Environment: req.Environment,
		Status:      domain.PlanActive,
		StatusHistory: []domain.StatusChange{
			createdEntry(s.opts.User, now),
		},
		CreatedAt: now,
		UpdatedAt: now,
		Nodes:     []*domain.Node{root},
	}
	derive(plan)
	if err = validatePlan(plan, s.opts.limits()); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Create(ctx, plan)
	})
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return plan, nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) List(ctx context.Context, includeClosed bool) ([]*domain.Plan, error) {
	return s.plans.List(ctx, includeClosed)
}

func (s *planService) Save(ctx context.Context, p *domain.Plan) (err error) {
	defer observe(ctx, s.observer, "save-plan", map[string]any{"plan": p.ID}, &err)()

	p.Nodes = pruneDependencies(p.Nodes)
	derive(p)
	if err = validatePlan(p, s.opts.limits()); err != nil {
		return err
	}
	p.UpdatedAt = s.opts.now()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Save(ctx, p)
	})
}

// Duplicate stores a copy of the plan with fresh plan and node ids.
// Dependencies inside the copy point at the copied nodes.
func (s *planService) Duplicate(ctx context.Context, id string) (dup *domain.Plan, err error) {
	defer observe(ctx, s.observer, "duplicate-plan", map[string]any{"plan": id}, &err)()

	return db.InTx(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*domain.Plan, error) {
		repo := repository.NewSQLitePlanRepo(tx)
		orig, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		now := s.opts.now()
		cp := *orig
		cp.ID = tree.NewID()
		cp.Name = orig.Name + " (copy)"
		cp.Tags = append([]string(nil), orig.Tags...)
		cp.Status = domain.PlanActive
		cp.StatusHistory = []domain.StatusChange{createdEntry(s.opts.User, now)}
		cp.CreatedAt = now
		cp.UpdatedAt = now
		cp.Nodes = remapDependencies(orig.Nodes, tree.CloneTree(orig.Nodes))
		derive(&cp)

		if err := repo.Create(ctx, &cp); err != nil {
			return nil, fmt.Errorf("storing copy: %w", err)
		}
		return &cp, nil
	})
}

func (s *planService) Close(ctx context.Context, id, reason string) (*domain.Plan, error) {
	return s.transition(ctx, "close-plan", id, func(p *domain.Plan, now time.Time) error {
		return p.Close(reason, s.opts.User, now)
	})
}

func (s *planService) Reopen(ctx context.Context, id, reason string) (*domain.Plan, error) {
	return s.transition(ctx, "reopen-plan", id, func(p *domain.Plan, now time.Time) error {
		return p.Reopen(reason, s.opts.User, now)
	})
}

// BumpVersion increments the patch component of the plan version and of
// every root that carries the same version.
func (s *planService) BumpVersion(ctx context.Context, id string) (*domain.Plan, error) {
	return s.transition(ctx, "bump-version", id, func(p *domain.Plan, now time.Time) error {
		next := domain.IncrementVersion(p.Version)
		nodes := tree.Tree(p.Nodes)
		for _, root := range p.Nodes {
			if root.Properties.Version != p.Version {
				continue
			}
			props := root.Properties
			props.Version = next
			nodes = tree.Update(nodes, root.ID, tree.Patch{Properties: &props})
		}
		p.Nodes = nodes
		p.Version = next
		p.UpdatedAt = now
		return nil
	})
}

func (s *planService) transition(ctx context.Context, name, id string, fn func(p *domain.Plan, now time.Time) error) (plan *domain.Plan, err error) {
	defer observe(ctx, s.observer, name, map[string]any{"plan": id}, &err)()

	return db.InTx(ctx, s.uow, func(ctx context.Context, tx db.DBTX) (*domain.Plan, error) {
		repo := repository.NewSQLitePlanRepo(tx)
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(p, s.opts.now()); err != nil {
			return nil, err
		}
		derive(p)
		if err := validatePlan(p, s.opts.limits()); err != nil {
			return nil, err
		}
		if err := repo.Save(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	})
}

func (s *planService) Delete(ctx context.Context, id string, force bool) (err error) {
	defer observe(ctx, s.observer, "delete-plan", map[string]any{"plan": id, "force": force}, &err)()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		if !force {
			p, err := repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if !p.IsClosed() {
				return fmt.Errorf("plan %s: %w (use --force to override)", p.DisplayID(), ErrPlanNotClosed)
			}
		}
		return repo.Delete(ctx, id)
	})
}

func createdEntry(user string, now time.Time) domain.StatusChange {
	return domain.StatusChange{
		Action:    domain.ActionCreated,
		Timestamp: now,
		User:      user,
		NewStatus: domain.PlanActive,
	}
}
