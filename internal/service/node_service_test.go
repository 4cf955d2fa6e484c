package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/testutil"
	"github.com/alexanderramin/planforge/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeService_Add(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	child := tree.NewNode(domain.KindTask, "Refunds")
	child.Properties.Status = domain.StatusReleased
	updated, err := env.nodes.Add(ctx, plan.ID, "f2", child)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.NodeCount)
	assert.Equal(t, 75, updated.Completion)

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	f2, ok := tree.Find(stored.Nodes, "f2")
	require.True(t, ok)
	require.Len(t, f2.Children, 2)
	assert.Equal(t, "Refunds", f2.Children[1].Title)
	assert.True(t, f2.Expanded, "parent is expanded after adding a child")
}

func TestNodeService_Add_AssignsID(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seedReleasePlan(t)

	child := &domain.Node{Title: "Audit log", Kind: domain.KindFeature}
	_, err := env.nodes.Add(context.Background(), plan.ID, "r", child)
	require.NoError(t, err)
	assert.NotEmpty(t, child.ID)
}

func TestNodeService_Add_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		parent  string
		child   *domain.Node
		wantErr error
	}{
		{"under a leaf", "t1", tree.NewNode(domain.KindTask, "Nested"), tree.ErrLeafParent},
		{"skipping a rank", "r", tree.NewNode(domain.KindTask, "Direct"), tree.ErrRankViolation},
		{"unknown parent", "nope", tree.NewNode(domain.KindTask, "Lost"), tree.ErrNodeNotFound},
		{"duplicate id", "f1", testutil.NewTestNode(domain.KindTask, "Copy", testutil.WithNodeID("t3")), tree.ErrDuplicateID},
		{"wrong hierarchy", "f1", tree.NewNode(domain.KindLeaf, "Alien"), tree.ErrRankViolation},
		{"nil child", "f1", nil, tree.ErrInvalidNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			plan := env.seedReleasePlan(t)

			_, err := env.nodes.Add(context.Background(), plan.ID, tt.parent, tt.child)
			assert.ErrorIs(t, err, tt.wantErr)

			stored, err := env.plans.GetByID(context.Background(), plan.ID)
			require.NoError(t, err)
			assert.Equal(t, 6, stored.NodeCount)
		})
	}
}

func TestNodeService_Add_InvalidProperties(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seedReleasePlan(t)

	child := tree.NewNode(domain.KindTask, "Versioned task")
	child.Properties.Version = "1.0.0"
	_, err := env.nodes.Add(context.Background(), plan.ID, "f1", child)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "version is only allowed on release-rank nodes")
}

func TestNodeService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	title := "OAuth 2.1"
	props := domain.Properties{Status: domain.StatusReleased, Assignee: "li"}
	node, err := env.nodes.Update(ctx, plan.ID, "t2", tree.Patch{Title: &title, Properties: &props})
	require.NoError(t, err)
	assert.Equal(t, "OAuth 2.1", node.Title)
	assert.Equal(t, domain.KindTask, node.Kind)

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Completion)
	found, ok := tree.Find(stored.Nodes, "t2")
	require.True(t, ok)
	assert.Equal(t, "li", found.Properties.Assignee)
}

func TestNodeService_Update_NotFound(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seedReleasePlan(t)

	title := "x"
	_, err := env.nodes.Update(context.Background(), plan.ID, "ghost", tree.Patch{Title: &title})
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)
}

func TestNodeService_Remove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	removed, err := env.nodes.Remove(ctx, plan.ID, "f1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.NodeCount)
	assert.Equal(t, 100, stored.Completion)
	_, ok := tree.Find(stored.Nodes, "t1")
	assert.False(t, ok)
}

func TestNodeService_Remove_PrunesDependencies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	removed, err := env.nodes.Remove(ctx, plan.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	t2, err := env.nodes.Find(ctx, plan.ID, "t2")
	require.NoError(t, err)
	assert.Empty(t, t2.Properties.Dependencies)
}

func TestNodeService_Remove_NotFound(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seedReleasePlan(t)

	removed, err := env.nodes.Remove(context.Background(), plan.ID, "ghost")
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)
	assert.Zero(t, removed)
}

func TestNodeService_Remove_RollsBackOnWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	// Save issues: #1 update plan, #2 clear history, #3 insert history,
	// #4 clear nodes, #5 first node insert.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 5,
		Err:    fmt.Errorf("injected node insert failure"),
	}
	svc := NewNodeService(env.repo, failUoW, testOptions())

	_, err := svc.Remove(ctx, plan.ID, "f1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected node insert failure")

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.NodeCount, "plan row unchanged after rollback")
	assert.Equal(t, 6, tree.CountNodes(stored.Nodes), "node rows unchanged after rollback")
	assert.Len(t, stored.StatusHistory, 1)
}

func TestNodeService_Move(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	require.NoError(t, env.nodes.Move(ctx, plan.ID, "t3", "f1"))

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	parent, ok := tree.Parent(stored.Nodes, "t3")
	require.True(t, ok)
	assert.Equal(t, "f1", parent.ID)
	assert.Equal(t, 6, stored.NodeCount)
}

func TestNodeService_Move_Rejected(t *testing.T) {
	tests := []struct {
		name, node, parent string
		wantErr            error
	}{
		{"onto itself", "f1", "f1", tree.ErrSelfParent},
		{"into own subtree", "f1", "t1", tree.ErrCycle},
		{"root under feature", "r", "f1", tree.ErrCycle},
		{"feature under feature", "f2", "f1", tree.ErrRankViolation},
		{"unknown node", "ghost", "f1", tree.ErrNodeNotFound},
		{"unknown parent", "t1", "ghost", tree.ErrNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			plan := env.seedReleasePlan(t)

			err := env.nodes.Move(context.Background(), plan.ID, tt.node, tt.parent)
			assert.ErrorIs(t, err, tt.wantErr)

			stored, err := env.plans.GetByID(context.Background(), plan.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"f1", "f2"}, []string{stored.Nodes[0].Children[0].ID, stored.Nodes[0].Children[1].ID})
		})
	}
}

func TestNodeService_Reorder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	require.NoError(t, env.nodes.Reorder(ctx, plan.ID, "f2", 0))

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "f2", stored.Nodes[0].Children[0].ID)
	assert.Equal(t, []string{"Billing", "Login"}, stored.Preview.Branches)

	assert.ErrorIs(t, env.nodes.Reorder(ctx, plan.ID, "ghost", 0), tree.ErrNodeNotFound)
}

func TestNodeService_FindAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.seedReleasePlan(t)

	n, err := env.nodes.Find(ctx, plan.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Form", n.Title)

	_, err = env.nodes.Find(ctx, plan.ID, "ghost")
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)

	_, err = env.nodes.Find(ctx, "no-plan", "t1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	hits, err := env.nodes.Search(ctx, plan.ID, "AUTH")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "t2", hits[0].ID)

	hits, err = env.nodes.Search(ctx, plan.ID, "ANA")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "t1", hits[0].ID)
}

func TestNodeService_Stats(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seedReleasePlan(t)

	stats, err := env.nodes.Stats(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.NodeCount)
	assert.Equal(t, 67, stats.Completion)
	assert.Equal(t, 3, stats.Depth)
	assert.Equal(t, map[domain.Kind]int{domain.KindRelease: 1, domain.KindFeature: 2, domain.KindTask: 3}, stats.KindCounts)
	assert.Equal(t, map[domain.Status]int{
		domain.StatusReleased:        1,
		domain.StatusPlanning:        1,
		domain.StatusReadyForRelease: 1,
	}, stats.StatusCounts)
	assert.Equal(t, "Release 1.0", stats.Preview.CentralNode)
}
