package tree

import (
	"math"
	"strings"

	"github.com/alexanderramin/planforge/internal/domain"
	"golang.org/x/text/cases"
)

// PreviewBranchLimit is the number of direct children of the first root
// listed in a Preview.
const PreviewBranchLimit = 4

// EmptyPreviewTitle is the CentralNode of the preview of an empty tree.
const EmptyPreviewTitle = "Empty plan"

// Summary holds the derived fields stored on a plan.
type Summary struct {
	NodeCount  int
	Completion int
	Preview    domain.Preview
}

// Derive computes every derived plan field from t.
func Derive(t Tree) Summary {
	return Summary{
		NodeCount:  CountNodes(t),
		Completion: Completion(t),
		Preview:    Preview(t),
	}
}

// CountNodes returns the number of nodes in t, roots included.
func CountNodes(t Tree) int {
	count := 0
	for _, n := range t {
		count += 1 + CountDescendants(n)
	}
	return count
}

// CountDescendants returns the number of nodes below n.
func CountDescendants(n *domain.Node) int {
	if n == nil {
		return 0
	}
	return CountNodes(n.Children)
}

// Completion returns the share of leaf-rank nodes whose status is in the
// completed set, as a percentage rounded to the nearest integer. Higher-rank
// nodes are ignored. A tree without leaf-rank nodes is 0% complete.
func Completion(t Tree) int {
	var total, done int
	Walk(t, func(n *domain.Node, _ int) bool {
		if n.IsLeaf() {
			total++
			if n.IsCompleted() {
				done++
			}
		}
		return true
	})
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// StatusBreakdown counts leaf-rank nodes per status. Leaves without a status
// are counted under "".
func StatusBreakdown(t Tree) map[domain.Status]int {
	counts := make(map[domain.Status]int)
	Walk(t, func(n *domain.Node, _ int) bool {
		if n.IsLeaf() {
			counts[n.Properties.Status]++
		}
		return true
	})
	return counts
}

// Preview summarises t for catalogue display: the first root's title and the
// titles of at most PreviewBranchLimit of its direct children.
func Preview(t Tree) domain.Preview {
	if len(t) == 0 {
		return domain.Preview{CentralNode: EmptyPreviewTitle, Branches: []string{}}
	}
	root := t[0]
	n := min(len(root.Children), PreviewBranchLimit)
	branches := make([]string, 0, n)
	for _, c := range root.Children[:n] {
		branches = append(branches, c.Title)
	}
	return domain.Preview{CentralNode: root.Title, Branches: branches}
}

// Search returns every node, in pre-order, whose title, description,
// assignee or any tag contains query. Matching uses Unicode case folding.
// A blank query matches nothing.
func Search(t Tree, query string) []*domain.Node {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	fold := cases.Fold()
	needle := fold.String(query)

	var out []*domain.Node
	Walk(t, func(n *domain.Node, _ int) bool {
		if nodeMatches(fold, n, needle) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func nodeMatches(fold cases.Caser, n *domain.Node, needle string) bool {
	fields := make([]string, 0, 3+len(n.Properties.Tags))
	fields = append(fields, n.Title, n.Properties.Description, n.Properties.Assignee)
	fields = append(fields, n.Properties.Tags...)
	for _, f := range fields {
		if f != "" && strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}
