package testutil

import (
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/tree"
)

// Plan options
type PlanOption func(*domain.Plan)

func WithVersion(v string) PlanOption {
	return func(p *domain.Plan) {
		p.Version = v
	}
}

func WithHierarchy(h domain.Hierarchy) PlanOption {
	return func(p *domain.Plan) {
		p.Hierarchy = h
	}
}

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

func WithTargetDate(d time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.TargetDate = &d
	}
}

func WithPlanTags(tags ...string) PlanOption {
	return func(p *domain.Plan) {
		p.Tags = tags
	}
}

func WithCreatedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.CreatedAt = t
		p.UpdatedAt = t
		for i := range p.StatusHistory {
			p.StatusHistory[i].Timestamp = t
		}
	}
}

// WithNodes replaces the default tree. Derived fields are recomputed after
// all options are applied.
func WithNodes(nodes ...*domain.Node) PlanOption {
	return func(p *domain.Plan) {
		p.Nodes = nodes
	}
}

// NewTestPlan returns an active release plan with a single release root and
// a "created" history entry. Timestamps are truncated to the second so they
// survive a round trip through the store.
func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:        tree.NewID(),
		Name:      name,
		Version:   "1.0.0",
		Hierarchy: domain.HierarchyRelease,
		Status:    domain.PlanActive,
		StatusHistory: []domain.StatusChange{{
			Action:    domain.ActionCreated,
			Timestamp: now,
			NewStatus: domain.PlanActive,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.Nodes == nil {
		p.Nodes = []*domain.Node{NewTestNode(p.Hierarchy.TopKind(), name)}
	}
	s := tree.Derive(p.Nodes)
	p.NodeCount, p.Completion, p.Preview = s.NodeCount, s.Completion, s.Preview
	return p
}

// Node options
type NodeOption func(*domain.Node)

func WithNodeID(id string) NodeOption {
	return func(n *domain.Node) {
		n.ID = id
	}
}

func WithStatus(s domain.Status) NodeOption {
	return func(n *domain.Node) {
		n.Properties.Status = s
	}
}

func WithAssignee(a string) NodeOption {
	return func(n *domain.Node) {
		n.Properties.Assignee = a
	}
}

func WithNodeTags(tags ...string) NodeOption {
	return func(n *domain.Node) {
		n.Properties.Tags = tags
	}
}

func WithDependencies(ids ...string) NodeOption {
	return func(n *domain.Node) {
		n.Properties.Dependencies = ids
	}
}

func WithChildren(children ...*domain.Node) NodeOption {
	return func(n *domain.Node) {
		n.Children = children
	}
}

func WithExpanded() NodeOption {
	return func(n *domain.Node) {
		n.Expanded = true
	}
}

// NewTestNode returns a detached node with a fresh id and the kind's
// default style. Leaf-rank nodes default to the planning status.
func NewTestNode(kind domain.Kind, title string, opts ...NodeOption) *domain.Node {
	n := tree.NewNode(kind, title)
	if kind.IsLeaf() {
		n.Properties.Status = domain.StatusPlanning
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewReleaseTree returns release r with features f1 (tasks t1 released,
// t2 planning) and f2 (task t3 ready-for-release). Two of three tasks are
// completed.
func NewReleaseTree() []*domain.Node {
	return []*domain.Node{
		NewTestNode(domain.KindRelease, "Release 1.0", WithNodeID("r"), WithExpanded(), WithChildren(
			NewTestNode(domain.KindFeature, "Login", WithNodeID("f1"), WithChildren(
				NewTestNode(domain.KindTask, "Form", WithNodeID("t1"), WithStatus(domain.StatusReleased), WithAssignee("ana")),
				NewTestNode(domain.KindTask, "OAuth", WithNodeID("t2"), WithDependencies("t1"), WithNodeTags("auth")),
			)),
			NewTestNode(domain.KindFeature, "Billing", WithNodeID("f2"), WithChildren(
				NewTestNode(domain.KindTask, "Invoices", WithNodeID("t3"), WithStatus(domain.StatusReadyForRelease)),
			)),
		)),
	}
}
