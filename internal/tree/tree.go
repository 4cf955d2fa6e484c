// Package tree implements the copy-on-write node-tree engine behind release
// and workflow plans.
//
// A Tree is an ordered sequence of root nodes. Every mutating function takes
// a Tree and returns a new Tree; nodes on the path to a change are copied and
// all other subtrees are shared with the input, so callers must never modify
// a node in place once it has been placed in a tree. Mutators are total: a
// missing id is a no-op, and structural violations are reported as sentinel
// errors with the input tree returned unchanged.
package tree

import (
	"errors"

	"github.com/alexanderramin/planforge/internal/domain"
)

// Tree is an ordered sequence of top-level nodes.
type Tree []*domain.Node

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrInvalidNode   = errors.New("invalid node")
	ErrSelfParent    = errors.New("node cannot be moved under itself")
	ErrCycle         = errors.New("target parent is a descendant of the node")
	ErrRankViolation = errors.New("kind hierarchy does not allow this parent")
	ErrLeafParent    = errors.New("lowest-rank nodes cannot have children")
	ErrDuplicateID   = errors.New("duplicate node id")
	ErrInvalidRoot   = errors.New("root node must be of the top rank")
)

// Patch lists the node fields to overwrite in Update. Nil fields are left
// untouched. Properties replaces the whole record.
type Patch struct {
	Title      *string
	Color      *string
	Icon       *string
	Expanded   *bool
	Properties *domain.Properties
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Color == nil && p.Icon == nil &&
		p.Expanded == nil && p.Properties == nil
}

func (p Patch) apply(n *domain.Node) *domain.Node {
	cp := *n
	if p.Title != nil {
		cp.Title = *p.Title
	}
	if p.Color != nil {
		cp.Style.Color = *p.Color
	}
	if p.Icon != nil {
		cp.Style.Icon = *p.Icon
	}
	if p.Expanded != nil {
		cp.Expanded = *p.Expanded
	}
	if p.Properties != nil {
		cp.Properties = copyProperties(*p.Properties)
	}
	return &cp
}
