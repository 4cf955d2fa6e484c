package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/tree"
)

// resolvePlanID resolves a plan identifier which can be a full id or an
// unambiguous id prefix. Closed plans are included.
func resolvePlanID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("plan ID is required")
	}

	plans, err := app.Plans.List(ctx, true)
	if err != nil {
		return "", err
	}

	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return matchID("plan", ids, input)
}

// resolveNode loads the plan and resolves a node identifier within its tree.
func resolveNode(ctx context.Context, app *App, planID, input string) (*domain.Plan, *domain.Node, error) {
	p, err := app.Plans.GetByID(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	nodes := tree.Flatten(p.Nodes)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	id, err := matchID("node", ids, input)
	if err != nil {
		return nil, nil, err
	}
	n, _ := tree.Find(p.Nodes, id)
	return p, n, nil
}

// matchID returns the exact match for input, or the single id with input as
// a prefix.
func matchID(what string, ids []string, input string) (string, error) {
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", what, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", what, input, len(matches))
	}
}
