package tree

import "github.com/alexanderramin/planforge/internal/domain"

// Find returns the first node with the given id in depth-first pre-order.
func Find(t Tree, id string) (*domain.Node, bool) {
	for _, n := range t {
		if n.ID == id {
			return n, true
		}
		if found, ok := Find(n.Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// Path returns the chain of nodes from a root down to the node with id,
// inclusive.
func Path(t Tree, id string) ([]*domain.Node, bool) {
	for _, n := range t {
		if n.ID == id {
			return []*domain.Node{n}, true
		}
		if rest, ok := Path(n.Children, id); ok {
			return append([]*domain.Node{n}, rest...), true
		}
	}
	return nil, false
}

// Parent returns the parent of the node with id. A root node has a nil
// parent; ok is false only when id is absent.
func Parent(t Tree, id string) (parent *domain.Node, ok bool) {
	path, ok := Path(t, id)
	if !ok {
		return nil, false
	}
	if len(path) < 2 {
		return nil, true
	}
	return path[len(path)-2], true
}

// DescendantOf reports whether a node with id appears anywhere below n.
// n itself does not count.
func DescendantOf(n *domain.Node, id string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if c.ID == id || DescendantOf(c, id) {
			return true
		}
	}
	return false
}

// Walk visits every node in pre-order with its depth (roots are depth 0).
// Returning false from fn stops the walk.
func Walk(t Tree, fn func(n *domain.Node, depth int) bool) {
	walk(t, 0, fn)
}

func walk(t Tree, depth int, fn func(n *domain.Node, depth int) bool) bool {
	for _, n := range t {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Flatten returns every node in pre-order.
func Flatten(t Tree) []*domain.Node {
	var out []*domain.Node
	Walk(t, func(n *domain.Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// IDs returns the set of every id in t.
func IDs(t Tree) map[string]bool {
	ids := make(map[string]bool)
	Walk(t, func(n *domain.Node, _ int) bool {
		ids[n.ID] = true
		return true
	})
	return ids
}
