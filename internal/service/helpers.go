package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/tree"
)

var (
	// ErrPlanNotClosed is returned when deleting an active plan without force.
	ErrPlanNotClosed = errors.New("plan must be closed before deletion")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries every problem found while validating a plan or an
// import file.
type ValidationError struct {
	Subject string
	Errors  []error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s validation failed (%d errors):", e.Subject, len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error { return e.Errors }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func formatValidationErrors(subject string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Subject: subject, Errors: errs}
}

// Options carries the settings shared by the services.
type Options struct {
	Limits domain.Limits
	// User is recorded on status history entries.
	User string
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC().Truncate(time.Second)
	}
	return time.Now().UTC().Truncate(time.Second)
}

func (o Options) limits() domain.Limits {
	if o.Limits == (domain.Limits{}) {
		return domain.DefaultLimits()
	}
	return o.Limits
}

// validatePlan collects plan-level, structural and per-node problems.
func validatePlan(p *domain.Plan, limits domain.Limits) error {
	errs := p.Validate(limits)
	if err := tree.Validate(p.Nodes, p.Hierarchy); err != nil {
		errs = append(errs, err)
	}
	tree.Walk(p.Nodes, func(n *domain.Node, _ int) bool {
		errs = append(errs, domain.ValidateNode(n, limits)...)
		return true
	})
	return formatValidationErrors("plan", errs)
}

// derive refreshes the derived plan fields from the tree.
func derive(p *domain.Plan) {
	s := tree.Derive(p.Nodes)
	p.NodeCount = s.NodeCount
	p.Completion = s.Completion
	p.Preview = s.Preview
}

// pruneDependencies drops references to ids that are no longer in t.
func pruneDependencies(t tree.Tree) tree.Tree {
	ids := tree.IDs(t)
	type fix struct {
		id   string
		deps []string
	}
	var fixes []fix
	tree.Walk(t, func(n *domain.Node, _ int) bool {
		deps := n.Properties.Dependencies
		kept := make([]string, 0, len(deps))
		for _, d := range deps {
			if ids[d] {
				kept = append(kept, d)
			}
		}
		if len(kept) != len(deps) {
			if len(kept) == 0 {
				kept = nil
			}
			fixes = append(fixes, fix{id: n.ID, deps: kept})
		}
		return true
	})
	for _, f := range fixes {
		n, _ := tree.Find(t, f.id)
		props := n.Properties
		props.Dependencies = f.deps
		t = tree.Update(t, f.id, tree.Patch{Properties: &props})
	}
	return t
}

// remapDependencies rewrites dependency ids of a cloned tree so they point
// at the clones of their original targets. orig and clone must have the same
// shape.
func remapDependencies(orig, clone tree.Tree) tree.Tree {
	from, to := tree.Flatten(orig), tree.Flatten(clone)
	mapping := make(map[string]string, len(from))
	for i := range from {
		mapping[from[i].ID] = to[i].ID
	}
	out := clone
	for _, n := range to {
		if len(n.Properties.Dependencies) == 0 {
			continue
		}
		props := n.Properties
		props.Dependencies = make([]string, len(n.Properties.Dependencies))
		for i, d := range n.Properties.Dependencies {
			props.Dependencies[i] = domain.CoalesceStr(mapping[d], d)
		}
		out = tree.Update(out, n.ID, tree.Patch{Properties: &props})
	}
	return out
}

// depth returns the number of levels in t.
func depth(t tree.Tree) int {
	deepest := 0
	tree.Walk(t, func(_ *domain.Node, d int) bool {
		if d+1 > deepest {
			deepest = d + 1
		}
		return true
	})
	return deepest
}
