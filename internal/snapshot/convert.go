package snapshot

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/tree"
)

// ToDomain transforms a validated snapshot into a plan ready for persistence.
// Call Validate first; ToDomain assumes the snapshot is valid. Nodes without
// an id get a fresh one, missing timestamps default to now, and the derived
// fields are recomputed from the tree rather than taken from the file.
func ToDomain(s *Snapshot, now time.Time) (*domain.Plan, error) {
	h, err := ResolveHierarchy(s)
	if err != nil {
		return nil, err
	}

	p := &domain.Plan{
		Name:        s.Name,
		Version:     s.Version,
		Description: s.Description,
		Hierarchy:   h,
		Category:    domain.Category(s.Category),
		Tags:        nilIfEmpty(s.Tags),
		Environment: domain.Environment(s.Environment),
		Status:      domain.PlanStatus(domain.CoalesceStr(s.Status, string(domain.PlanActive))),
	}
	if s.ID != nil {
		p.ID = *s.ID
	}
	if p.TargetDate, err = parseOptionalDate(s.TargetDate); err != nil {
		return nil, fmt.Errorf("parsing targetDate: %w", err)
	}

	if p.CreatedAt, err = parseTimestampOr(s.CreatedAt, now); err != nil {
		return nil, fmt.Errorf("parsing createdAt: %w", err)
	}
	if p.UpdatedAt, err = parseTimestampOr(s.UpdatedAt, p.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing updatedAt: %w", err)
	}

	for _, sc := range s.StatusHistory {
		ts, err := time.Parse(time.RFC3339, sc.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parsing status history timestamp: %w", err)
		}
		p.StatusHistory = append(p.StatusHistory, domain.StatusChange{
			Action:         sc.Action,
			Reason:         sc.Reason,
			Timestamp:      ts.UTC(),
			User:           sc.User,
			PreviousStatus: domain.PlanStatus(sc.PreviousStatus),
			NewStatus:      domain.PlanStatus(sc.NewStatus),
		})
	}

	nodes, err := nodesToDomain(s.Nodes)
	if err != nil {
		return nil, err
	}
	p.Nodes = nodes

	summary := tree.Derive(p.Nodes)
	p.NodeCount = summary.NodeCount
	p.Completion = summary.Completion
	p.Preview = summary.Preview
	return p, nil
}

func nodesToDomain(nodes []Node) ([]*domain.Node, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]*domain.Node, 0, len(nodes))
	for _, n := range nodes {
		props, err := n.Properties.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		children, err := nodesToDomain(n.Children)
		if err != nil {
			return nil, err
		}
		kind := domain.Kind(n.Kind)
		style := kind.DefaultStyle()
		out = append(out, &domain.Node{
			ID:    domain.CoalesceStr(n.ID, tree.NewID()),
			Title: n.Title,
			Kind:  kind,
			Style: domain.Style{
				Color: domain.CoalesceStr(n.Color, style.Color),
				Icon:  domain.CoalesceStr(n.Icon, style.Icon),
			},
			Expanded:   n.Expanded,
			Properties: props,
			Children:   children,
		})
	}
	return out, nil
}

// ToDomain converts the wire properties record. On a malformed target date
// the remaining fields are still converted and returned with the error.
func (p Properties) ToDomain() (domain.Properties, error) {
	out := domain.Properties{
		Assignee:     p.Assignee,
		Environment:  domain.Environment(p.Environment),
		Description:  p.Description,
		Tags:         nilIfEmpty(p.Tags),
		Priority:     domain.Priority(p.Priority),
		Status:       domain.Status(p.Status),
		Estimate:     p.Estimate,
		Dependencies: nilIfEmpty(p.Dependencies),
		Notes:        p.Notes,
		Version:      p.Version,
	}
	target, err := parseOptionalDate(p.TargetDate)
	if err != nil {
		return out, fmt.Errorf("targetDate: invalid date format %q (expected YYYY-MM-DD)", p.TargetDate)
	}
	out.TargetDate = target
	return out, nil
}

// FromDomain converts a plan into its snapshot form.
func FromDomain(p *domain.Plan) *Snapshot {
	s := &Snapshot{
		Name:          p.Name,
		Version:       p.Version,
		Description:   p.Description,
		Hierarchy:     string(p.Hierarchy),
		Category:      string(p.Category),
		Tags:          nonNil(p.Tags),
		TargetDate:    formatOptionalDate(p.TargetDate),
		Environment:   string(p.Environment),
		Status:        string(p.Status),
		StatusHistory: make([]StatusChange, 0, len(p.StatusHistory)),
		CreatedAt:     formatTimestamp(p.CreatedAt),
		UpdatedAt:     formatTimestamp(p.UpdatedAt),
		NodeCount:     p.NodeCount,
		Completion:    p.Completion,
		Preview: Preview{
			CentralNode: p.Preview.CentralNode,
			Branches:    nonNil(p.Preview.Branches),
		},
		Nodes: NodesFromDomain(p.Nodes),
	}
	if p.ID != "" {
		id := p.ID
		s.ID = &id
	}
	for _, sc := range p.StatusHistory {
		s.StatusHistory = append(s.StatusHistory, StatusChange{
			Action:         sc.Action,
			Reason:         sc.Reason,
			Timestamp:      formatTimestamp(sc.Timestamp),
			User:           sc.User,
			PreviousStatus: string(sc.PreviousStatus),
			NewStatus:      string(sc.NewStatus),
		})
	}
	return s
}

// NodesFromDomain converts a tree into wire nodes. Empty child lists encode
// as [] rather than null.
func NodesFromDomain(nodes []*domain.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Node{
			ID:         n.ID,
			Title:      n.Title,
			Kind:       string(n.Kind),
			Color:      n.Style.Color,
			Icon:       n.Style.Icon,
			Expanded:   n.Expanded,
			Properties: PropertiesFromDomain(n.Properties),
			Children:   NodesFromDomain(n.Children),
		})
	}
	return out
}

// PropertiesFromDomain converts a domain properties record.
func PropertiesFromDomain(p domain.Properties) Properties {
	return Properties{
		Assignee:     p.Assignee,
		TargetDate:   formatOptionalDate(p.TargetDate),
		Environment:  string(p.Environment),
		Description:  p.Description,
		Tags:         nonNil(p.Tags),
		Priority:     string(p.Priority),
		Status:       string(p.Status),
		Estimate:     p.Estimate,
		Dependencies: nonNil(p.Dependencies),
		Notes:        p.Notes,
		Version:      p.Version,
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTimestampOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}
