package domain

// Kind is the type of a node. Every kind belongs to exactly one Hierarchy and
// has a rank within it: 0 for the top rank, increasing towards the leaves.
type Kind string

const (
	KindRelease Kind = "release"
	KindFeature Kind = "feature"
	KindTask    Kind = "task"

	KindCentral Kind = "central"
	KindBranch  Kind = "branch"
	KindLeaf    Kind = "leaf"
)

// Hierarchy names an ordered set of kinds, top rank first.
type Hierarchy string

const (
	HierarchyRelease  Hierarchy = "release"
	HierarchyWorkflow Hierarchy = "workflow"
)

var hierarchyKinds = map[Hierarchy][]Kind{
	HierarchyRelease:  {KindRelease, KindFeature, KindTask},
	HierarchyWorkflow: {KindCentral, KindBranch, KindLeaf},
}

// Valid reports whether h is a known hierarchy.
func (h Hierarchy) Valid() bool {
	_, ok := hierarchyKinds[h]
	return ok
}

// Kinds returns the kinds of h ordered from top rank to leaf rank.
func (h Hierarchy) Kinds() []Kind {
	kinds := hierarchyKinds[h]
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// TopKind returns the kind of root nodes in h, or "" for an unknown hierarchy.
func (h Hierarchy) TopKind() Kind {
	kinds := hierarchyKinds[h]
	if len(kinds) == 0 {
		return ""
	}
	return kinds[0]
}

// LeafKind returns the lowest-rank kind in h, or "" for an unknown hierarchy.
func (h Hierarchy) LeafKind() Kind {
	kinds := hierarchyKinds[h]
	if len(kinds) == 0 {
		return ""
	}
	return kinds[len(kinds)-1]
}

// Hierarchy returns the hierarchy that k belongs to.
func (k Kind) Hierarchy() (Hierarchy, bool) {
	for h, kinds := range hierarchyKinds {
		for _, kk := range kinds {
			if kk == k {
				return h, true
			}
		}
	}
	return "", false
}

// Rank returns k's position within its hierarchy, or -1 for unknown kinds.
func (k Kind) Rank() int {
	h, ok := k.Hierarchy()
	if !ok {
		return -1
	}
	for i, kk := range hierarchyKinds[h] {
		if kk == k {
			return i
		}
	}
	return -1
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.Rank() >= 0
}

// IsTop reports whether k is the top rank of its hierarchy.
func (k Kind) IsTop() bool {
	return k.Rank() == 0
}

// IsLeaf reports whether k is the lowest rank of its hierarchy. Nodes of a
// leaf kind never have children.
func (k Kind) IsLeaf() bool {
	h, ok := k.Hierarchy()
	return ok && h.LeafKind() == k
}

// ChildKind returns the kind one rank below k.
func (k Kind) ChildKind() (Kind, bool) {
	h, ok := k.Hierarchy()
	if !ok {
		return "", false
	}
	kinds := hierarchyKinds[h]
	r := k.Rank()
	if r+1 >= len(kinds) {
		return "", false
	}
	return kinds[r+1], true
}

// CanParent reports whether a node of kind child may be attached directly
// under a node of kind parent. This is the only rank rule in the system:
// both kinds share a hierarchy and the child sits exactly one rank lower.
func CanParent(parent, child Kind) bool {
	ph, ok := parent.Hierarchy()
	if !ok {
		return false
	}
	ch, ok := child.Hierarchy()
	if !ok || ch != ph {
		return false
	}
	return child.Rank() == parent.Rank()+1
}

// DefaultStyle returns the cosmetic color and icon tokens for new nodes of k.
func (k Kind) DefaultStyle() Style {
	switch k {
	case KindRelease, KindCentral:
		return Style{Color: "purple", Icon: "rocket"}
	case KindFeature, KindBranch:
		return Style{Color: "blue", Icon: "layers"}
	case KindTask, KindLeaf:
		return Style{Color: "green", Icon: "check"}
	default:
		return Style{Color: "gray", Icon: "dot"}
	}
}
