package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/planforge/internal/db"
	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/snapshot"
	"github.com/alexanderramin/planforge/internal/tree"
)

type importService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewImportService(plans repository.PlanRepo, uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) ImportService {
	return &importService{
		plans:    plans,
		uow:      uow,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	snap, err := snapshot.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSnapshot(ctx, snap)
}

// ImportSnapshot stores the snapshot as a new plan. The plan always gets a
// fresh id; node ids from the file are kept and missing ones are assigned.
func (s *importService) ImportSnapshot(ctx context.Context, snap *snapshot.Snapshot) (result *ImportResult, err error) {
	fields := map[string]any{"name": snap.Name}
	defer observe(ctx, s.observer, "import-plan", fields, &err)()

	if errs := snapshot.Validate(snap, s.opts.limits()); len(errs) > 0 {
		return nil, formatValidationErrors("import", errs)
	}

	now := s.opts.now()
	plan, err := snapshot.ToDomain(snap, now)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}
	plan.ID = tree.NewID()
	if !hasCreatedEntry(plan.StatusHistory) {
		entry := createdEntry(s.opts.User, plan.CreatedAt)
		plan.StatusHistory = append([]domain.StatusChange{entry}, plan.StatusHistory...)
	}
	fields["plan"] = plan.ID
	fields["node_count"] = plan.NodeCount

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Create(ctx, plan)
	})
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return &ImportResult{Plan: plan, NodeCount: plan.NodeCount}, nil
}

func (s *importService) ExportPlan(ctx context.Context, id string, w io.Writer, format snapshot.Format) (err error) {
	defer observe(ctx, s.observer, "export-plan", map[string]any{"plan": id, "format": string(format)}, &err)()

	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return snapshot.Encode(w, snapshot.FromDomain(p), format)
}

func hasCreatedEntry(history []domain.StatusChange) bool {
	for _, h := range history {
		if h.Action == domain.ActionCreated {
			return true
		}
	}
	return false
}
