package tree

import (
	"slices"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7, falling back to a random v4 id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewNode returns a detached node of the given kind with a fresh id and the
// kind's default style.
func NewNode(kind domain.Kind, title string) *domain.Node {
	return &domain.Node{
		ID:    NewID(),
		Title: title,
		Kind:  kind,
		Style: kind.DefaultStyle(),
	}
}

// Clone deep-copies n and its subtree, giving every copied node a fresh id.
// All other fields and child order are preserved.
func Clone(n *domain.Node) *domain.Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.ID = NewID()
	cp.Properties = copyProperties(n.Properties)
	if n.Children != nil {
		cp.Children = make([]*domain.Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = Clone(c)
		}
	}
	return &cp
}

// CloneTree clones every root of t.
func CloneTree(t Tree) Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, n := range t {
		out[i] = Clone(n)
	}
	return out
}

// copyProperties detaches the slices and date of p from their source.
func copyProperties(p domain.Properties) domain.Properties {
	p.Tags = slices.Clone(p.Tags)
	p.Dependencies = slices.Clone(p.Dependencies)
	if p.TargetDate != nil {
		d := *p.TargetDate
		p.TargetDate = &d
	}
	return p
}
