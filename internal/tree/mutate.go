package tree

import "github.com/alexanderramin/planforge/internal/domain"

// Update returns a tree in which the node with id has the non-nil fields of p
// applied. Only the ancestors of the match are copied. If id is absent, t is
// returned as is.
func Update(t Tree, id string, p Patch) Tree {
	out, ok := replaceNode(t, id, p.apply)
	if !ok {
		return t
	}
	return out
}

// Remove returns a tree without the node with id and its whole subtree.
// Sibling order is preserved. If id is absent, t is returned as is.
func Remove(t Tree, id string) Tree {
	out, ok := removeNode(t, id)
	if !ok {
		return t
	}
	return out
}

// AddChild appends child to the children of the node with parentID and
// forces the parent's Expanded flag on. The child may carry its own subtree,
// which must be well-formed and must not reuse any id already in t. On error
// t is returned unchanged.
func AddChild(t Tree, parentID string, child *domain.Node) (Tree, error) {
	if child == nil || child.ID == "" {
		return t, ErrInvalidNode
	}
	parent, ok := Find(t, parentID)
	if !ok {
		return t, ErrNodeNotFound
	}
	if parent.Kind.IsLeaf() {
		return t, ErrLeafParent
	}
	if !domain.CanParent(parent.Kind, child.Kind) {
		return t, ErrRankViolation
	}
	if err := checkSubtree(child, IDs(t)); err != nil {
		return t, err
	}

	out, _ := replaceNode(t, parentID, func(p *domain.Node) *domain.Node {
		cp := *p
		children := make([]*domain.Node, len(p.Children), len(p.Children)+1)
		copy(children, p.Children)
		cp.Children = append(children, child)
		cp.Expanded = true
		return &cp
	})
	return out, nil
}

// CanMove reports whether the node with nodeID may be re-parented under
// newParentID. The check runs against t as it is, before any removal, so
// that descendants of the node are detected.
func CanMove(t Tree, nodeID, newParentID string) error {
	node, ok := Find(t, nodeID)
	if !ok {
		return ErrNodeNotFound
	}
	if nodeID == newParentID {
		return ErrSelfParent
	}
	target, ok := Find(t, newParentID)
	if !ok {
		return ErrNodeNotFound
	}
	if DescendantOf(node, newParentID) {
		return ErrCycle
	}
	if !domain.CanParent(target.Kind, node.Kind) {
		return ErrRankViolation
	}
	return nil
}

// Move re-parents the subtree rooted at nodeID, appending it to the children
// of newParentID. On any violation t is returned unchanged with the error.
func Move(t Tree, nodeID, newParentID string) (Tree, error) {
	if err := CanMove(t, nodeID, newParentID); err != nil {
		return t, err
	}
	node, _ := Find(t, nodeID)
	out, err := AddChild(Remove(t, nodeID), newParentID, node)
	if err != nil {
		return t, err
	}
	return out, nil
}

// Reorder moves the node with id to position index among its siblings.
// index is clamped to the sibling range. If id is absent, t is returned as is.
func Reorder(t Tree, id string, index int) Tree {
	out, ok := reorderNode(t, id, index)
	if !ok {
		return t
	}
	return out
}

// SetExpandedAll sets the Expanded flag on every node. Nodes that already
// have the requested value are shared with t.
func SetExpandedAll(t Tree, expanded bool) Tree {
	out, _ := setExpanded(t, expanded)
	return out
}

// replaceNode rebuilds the path down to id and swaps the match for fn(match).
func replaceNode(t Tree, id string, fn func(*domain.Node) *domain.Node) (Tree, bool) {
	for i, n := range t {
		if n.ID == id {
			return withAt(t, i, fn(n)), true
		}
		if children, ok := replaceNode(n.Children, id, fn); ok {
			cp := *n
			cp.Children = children
			return withAt(t, i, &cp), true
		}
	}
	return t, false
}

func removeNode(t Tree, id string) (Tree, bool) {
	for i, n := range t {
		if n.ID == id {
			out := make(Tree, 0, len(t)-1)
			out = append(out, t[:i]...)
			return append(out, t[i+1:]...), true
		}
		if children, ok := removeNode(n.Children, id); ok {
			cp := *n
			cp.Children = children
			return withAt(t, i, &cp), true
		}
	}
	return t, false
}

func reorderNode(t Tree, id string, index int) (Tree, bool) {
	for i, n := range t {
		if n.ID == id {
			return moveWithin(t, i, index), true
		}
		if children, ok := reorderNode(n.Children, id, index); ok {
			cp := *n
			cp.Children = children
			return withAt(t, i, &cp), true
		}
	}
	return t, false
}

func setExpanded(t Tree, expanded bool) (Tree, bool) {
	var out Tree
	for i, n := range t {
		children, childChanged := setExpanded(n.Children, expanded)
		if !childChanged && n.Expanded == expanded {
			continue
		}
		if out == nil {
			out = make(Tree, len(t))
			copy(out, t)
		}
		cp := *n
		cp.Expanded = expanded
		cp.Children = children
		out[i] = &cp
	}
	if out == nil {
		return t, false
	}
	return out, true
}

// withAt returns a copy of t with position i replaced by n.
func withAt(t Tree, i int, n *domain.Node) Tree {
	out := make(Tree, len(t))
	copy(out, t)
	out[i] = n
	return out
}

func moveWithin(t Tree, from, to int) Tree {
	if to < 0 {
		to = 0
	}
	if to > len(t)-1 {
		to = len(t) - 1
	}
	moved := t[from]
	out := make(Tree, 0, len(t))
	for i, n := range t {
		if i != from {
			out = append(out, n)
		}
	}
	out = append(out, nil)
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}
