package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
)

var validActions = map[string]bool{
	domain.ActionCreated:  true,
	domain.ActionClosed:   true,
	domain.ActionReopened: true,
}

// placeholderID stands in for ids that will be assigned on import, so that
// node field validation can run before conversion.
const placeholderID = "(unassigned)"

// Validate checks the snapshot for errors before conversion.
// Returns a slice of all validation errors found.
func Validate(s *Snapshot, limits domain.Limits) []error {
	var errs []error

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if s.Version == "" {
		errs = append(errs, fmt.Errorf("version is required"))
	} else if !domain.IsValidVersion(s.Version) {
		errs = append(errs, fmt.Errorf("version: invalid value %q (expected MAJOR.MINOR.PATCH)", s.Version))
	}

	h, err := ResolveHierarchy(s)
	if err != nil {
		errs = append(errs, err)
	}
	if s.Category != "" && !domain.ValidCategories[domain.Category(s.Category)] {
		errs = append(errs, fmt.Errorf("category: invalid value %q", s.Category))
	}
	if s.Environment != "" && !domain.ValidEnvironments[domain.Environment(s.Environment)] {
		errs = append(errs, fmt.Errorf("environment: invalid value %q", s.Environment))
	}
	if s.Status != "" && !validPlanStatus(s.Status) {
		errs = append(errs, fmt.Errorf("status: invalid value %q", s.Status))
	}
	if limits.MaxTags > 0 && len(s.Tags) > limits.MaxTags {
		errs = append(errs, fmt.Errorf("tags: %d tags exceeds limit of %d", len(s.Tags), limits.MaxTags))
	}
	errs = append(errs, validateOptionalDate("targetDate", s.TargetDate)...)
	errs = append(errs, validateOptionalTimestamp("createdAt", s.CreatedAt)...)
	errs = append(errs, validateOptionalTimestamp("updatedAt", s.UpdatedAt)...)
	errs = append(errs, validateHistory(s.StatusHistory)...)

	if len(s.Nodes) == 0 {
		errs = append(errs, fmt.Errorf("nodes: at least one root node is required"))
	}
	ids := collectIDs(s.Nodes, make(map[string]bool))
	seen := make(map[string]bool)
	for i, n := range s.Nodes {
		errs = append(errs, validateNode(fmt.Sprintf("nodes[%d]", i), n, "", h, seen, ids, limits)...)
	}

	return errs
}

// ResolveHierarchy returns the snapshot's hierarchy. When the field is absent
// it is inferred from the kind of the first root, defaulting to release.
func ResolveHierarchy(s *Snapshot) (domain.Hierarchy, error) {
	if s.Hierarchy != "" {
		h := domain.Hierarchy(s.Hierarchy)
		if !h.Valid() {
			return domain.HierarchyRelease, fmt.Errorf("hierarchy: invalid value %q", s.Hierarchy)
		}
		return h, nil
	}
	if len(s.Nodes) > 0 {
		if h, ok := domain.Kind(s.Nodes[0].Kind).Hierarchy(); ok {
			return h, nil
		}
	}
	return domain.HierarchyRelease, nil
}

func validPlanStatus(s string) bool {
	return domain.PlanStatus(s) == domain.PlanActive || domain.PlanStatus(s) == domain.PlanClosed
}

func validateHistory(history []StatusChange) []error {
	var errs []error
	for i, h := range history {
		prefix := fmt.Sprintf("statusHistory[%d]", i)
		if h.Action == "" {
			errs = append(errs, fmt.Errorf("%s.action is required", prefix))
		} else if !validActions[h.Action] {
			errs = append(errs, fmt.Errorf("%s.action: invalid value %q", prefix, h.Action))
		}
		if h.Timestamp == "" {
			errs = append(errs, fmt.Errorf("%s.timestamp is required", prefix))
		} else {
			errs = append(errs, validateOptionalTimestamp(prefix+".timestamp", h.Timestamp)...)
		}
		if h.PreviousStatus != "" && !validPlanStatus(h.PreviousStatus) {
			errs = append(errs, fmt.Errorf("%s.previousStatus: invalid value %q", prefix, h.PreviousStatus))
		}
		if h.NewStatus != "" && !validPlanStatus(h.NewStatus) {
			errs = append(errs, fmt.Errorf("%s.newStatus: invalid value %q", prefix, h.NewStatus))
		}
	}
	return errs
}

func validateNode(prefix string, n Node, parent domain.Kind, h domain.Hierarchy, seen, ids map[string]bool, limits domain.Limits) []error {
	var errs []error
	kind := domain.Kind(n.Kind)

	if n.ID != "" {
		if seen[n.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, n.ID))
		}
		seen[n.ID] = true
	}

	if kind.Valid() {
		switch {
		case parent == "" && kind != h.TopKind():
			errs = append(errs, fmt.Errorf("%s.kind: root must be %q, got %q", prefix, h.TopKind(), kind))
		case parent != "" && !domain.CanParent(parent, kind):
			errs = append(errs, fmt.Errorf("%s.kind: %q cannot be a child of %q", prefix, kind, parent))
		}
		if kind.IsLeaf() && len(n.Children) > 0 {
			errs = append(errs, fmt.Errorf("%s.children: %q nodes cannot have children", prefix, kind))
		}
	}

	props, err := n.Properties.ToDomain()
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.properties.%w", prefix, err))
	}
	own := &domain.Node{ID: domain.CoalesceStr(n.ID, placeholderID), Title: n.Title, Kind: kind, Properties: props}
	for _, e := range domain.ValidateNode(own, limits) {
		errs = append(errs, fmt.Errorf("%s: %w", prefix, e))
	}

	for _, dep := range n.Properties.Dependencies {
		switch {
		case dep == "":
			errs = append(errs, fmt.Errorf("%s.properties.dependencies: empty id", prefix))
		case n.ID != "" && dep == n.ID:
			errs = append(errs, fmt.Errorf("%s.properties.dependencies: self-dependency %q", prefix, dep))
		case !ids[dep]:
			errs = append(errs, fmt.Errorf("%s.properties.dependencies: id %q not found in plan", prefix, dep))
		}
	}

	for i, c := range n.Children {
		errs = append(errs, validateNode(fmt.Sprintf("%s.children[%d]", prefix, i), c, kind, h, seen, ids, limits)...)
	}
	return errs
}

func collectIDs(nodes []Node, ids map[string]bool) map[string]bool {
	for _, n := range nodes {
		if n.ID != "" {
			ids[n.ID] = true
		}
		collectIDs(n.Children, ids)
	}
	return ids
}

func validateOptionalDate(field, s string) []error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)}
	}
	return nil
}

func validateOptionalTimestamp(field, s string) []error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return []error{fmt.Errorf("%s: invalid timestamp %q (expected RFC 3339)", field, s)}
	}
	return nil
}
