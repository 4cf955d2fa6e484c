package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Style holds the cosmetic tokens of a node.
type Style struct {
	Color string
	Icon  string
}

// Properties is the attribute record shared by all kinds. Version is only
// meaningful on the top rank and Estimate only on the leaf rank; ValidateNode
// enforces both.
type Properties struct {
	Assignee     string
	TargetDate   *time.Time
	Environment  Environment
	Description  string
	Tags         []string
	Priority     Priority
	Status       Status
	Estimate     string
	Dependencies []string
	Notes        string
	Version      string
}

// Node is one element of a plan tree. Once a node is part of a tree it is
// treated as an immutable value: tree operations copy the nodes they change
// and share the rest.
type Node struct {
	ID         string
	Title      string
	Kind       Kind
	Style      Style
	Expanded   bool
	Properties Properties
	Children   []*Node
}

// IsLeaf reports whether n is of the lowest rank.
func (n *Node) IsLeaf() bool {
	return n.Kind.IsLeaf()
}

// IsCompleted reports whether n's status is in the completed set.
func (n *Node) IsCompleted() bool {
	return n.Properties.Status.IsCompleted()
}

// Limits bounds the size of user-supplied node and plan attributes.
type Limits struct {
	MaxTitleLength  int
	MaxTags         int
	MaxDependencies int
}

// DefaultLimits returns the limits used when configuration sets none.
func DefaultLimits() Limits {
	return Limits{
		MaxTitleLength:  120,
		MaxTags:         10,
		MaxDependencies: 20,
	}
}

// ValidateNode checks a single node's own fields (not its children) and
// returns every problem found.
func ValidateNode(n *Node, limits Limits) []error {
	if n == nil {
		return []error{fmt.Errorf("node is nil")}
	}
	var errs []error
	label := n.ID
	if label == "" {
		label = "(new)"
	}

	if n.ID == "" {
		errs = append(errs, fmt.Errorf("node id is required"))
	}
	title := strings.TrimSpace(n.Title)
	if title == "" {
		errs = append(errs, fmt.Errorf("node %s: title is required", label))
	} else if limits.MaxTitleLength > 0 && utf8.RuneCountInString(title) > limits.MaxTitleLength {
		errs = append(errs, fmt.Errorf("node %s: title exceeds %d characters", label, limits.MaxTitleLength))
	}
	if !n.Kind.Valid() {
		errs = append(errs, fmt.Errorf("node %s: invalid kind %q", label, n.Kind))
	}
	errs = append(errs, validateProperties(label, n.Kind, &n.Properties, limits)...)
	return errs
}

func validateProperties(label string, kind Kind, p *Properties, limits Limits) []error {
	var errs []error

	if p.Status != "" && !ValidStatuses[p.Status] {
		errs = append(errs, fmt.Errorf("node %s: invalid status %q", label, p.Status))
	}
	if p.Priority != "" && !ValidPriorities[p.Priority] {
		errs = append(errs, fmt.Errorf("node %s: invalid priority %q", label, p.Priority))
	}
	if p.Environment != "" && !ValidEnvironments[p.Environment] {
		errs = append(errs, fmt.Errorf("node %s: invalid environment %q", label, p.Environment))
	}
	if limits.MaxTags > 0 && len(p.Tags) > limits.MaxTags {
		errs = append(errs, fmt.Errorf("node %s: %d tags exceeds limit of %d", label, len(p.Tags), limits.MaxTags))
	}
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, fmt.Errorf("node %s: empty tag", label))
			break
		}
	}
	if limits.MaxDependencies > 0 && len(p.Dependencies) > limits.MaxDependencies {
		errs = append(errs, fmt.Errorf("node %s: %d dependencies exceeds limit of %d", label, len(p.Dependencies), limits.MaxDependencies))
	}
	if p.Version != "" {
		if !kind.IsTop() {
			errs = append(errs, fmt.Errorf("node %s: version is only allowed on %s-rank nodes", label, topKindLabel(kind)))
		} else if !IsValidVersion(p.Version) {
			errs = append(errs, fmt.Errorf("node %s: invalid version %q (expected MAJOR.MINOR.PATCH)", label, p.Version))
		}
	}
	if p.Estimate != "" && !kind.IsLeaf() {
		errs = append(errs, fmt.Errorf("node %s: estimate is only allowed on leaf-rank nodes", label))
	}
	return errs
}

func topKindLabel(k Kind) string {
	if h, ok := k.Hierarchy(); ok {
		return string(h.TopKind())
	}
	return "top"
}
