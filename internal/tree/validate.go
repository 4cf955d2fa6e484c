package tree

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/planforge/internal/domain"
)

// Validate checks the structural invariants of a whole tree for hierarchy h:
// every node is non-nil with an id, ids are unique, roots are of the top
// rank and every child sits exactly one rank below its parent. All problems
// are joined into the returned error; each wraps one of the package's
// sentinel errors.
func Validate(t Tree, h domain.Hierarchy) error {
	var errs []error
	seen := make(map[string]bool)
	for i, root := range t {
		if root == nil {
			errs = append(errs, fmt.Errorf("root %d: %w", i, ErrInvalidNode))
			continue
		}
		if root.Kind != h.TopKind() {
			errs = append(errs, fmt.Errorf("root %q has kind %q, want %q: %w", root.ID, root.Kind, h.TopKind(), ErrInvalidRoot))
		}
		errs = append(errs, validateSubtree(root, seen)...)
	}
	return errors.Join(errs...)
}

// checkSubtree validates a detached subtree before it is attached, treating
// every id in existing as taken.
func checkSubtree(n *domain.Node, existing map[string]bool) error {
	errs := validateSubtree(n, existing)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

func validateSubtree(n *domain.Node, seen map[string]bool) []error {
	var errs []error
	if n.ID == "" {
		errs = append(errs, fmt.Errorf("node %q has no id: %w", n.Title, ErrInvalidNode))
	} else if seen[n.ID] {
		errs = append(errs, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateID))
	}
	seen[n.ID] = true

	if n.Kind.IsLeaf() && len(n.Children) > 0 {
		errs = append(errs, fmt.Errorf("node %q of kind %q has children: %w", n.ID, n.Kind, ErrLeafParent))
	}
	for _, c := range n.Children {
		if c == nil {
			errs = append(errs, fmt.Errorf("node %q has a nil child: %w", n.ID, ErrInvalidNode))
			continue
		}
		if !n.Kind.IsLeaf() && !domain.CanParent(n.Kind, c.Kind) {
			errs = append(errs, fmt.Errorf("node %q (%s) cannot be a child of %q (%s): %w",
				c.ID, c.Kind, n.ID, n.Kind, ErrRankViolation))
		}
		errs = append(errs, validateSubtree(c, seen)...)
	}
	return errs
}
