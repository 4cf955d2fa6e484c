package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/service"
	"github.com/alexanderramin/planforge/internal/testutil"
	"github.com/alexanderramin/planforge/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, repository.PlanRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLitePlanRepo(database)
	uow := testutil.NewTestUoW(database)
	opts := service.Options{
		Limits: domain.DefaultLimits(),
		User:   "cli",
		Now:    func() time.Time { return cliNow },
	}

	return &App{
		Plans:  service.NewPlanService(repo, uow, opts),
		Nodes:  service.NewNodeService(repo, uow, opts),
		Import: service.NewImportService(repo, uow, opts),
		Now:    func() time.Time { return cliNow },
		Limits: opts.Limits,
	}, repo
}

// seedReleasePlan stores a plan holding testutil.NewReleaseTree.
func seedReleasePlan(t *testing.T, repo repository.PlanRepo) *domain.Plan {
	t.Helper()
	p := testutil.NewTestPlan("Release 1.0", testutil.WithNodes(testutil.NewReleaseTree()...))
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "planforge")
	assert.Contains(t, output, "plan")
	assert.Contains(t, output, "export")
}

// --- plan ---

func TestPlanCreate(t *testing.T) {
	app, repo := testApp(t)

	out, err := executeCmd(t, app, "plan", "create", "--name", "Spring", "--version", "2.0.0",
		"--category", "major", "--tag", "q2", "--target", "2025-10-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan Spring v2.0.0")

	plans, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, domain.CategoryMajor, plans[0].Category)
	assert.Equal(t, []string{"q2"}, plans[0].Tags)
	require.NotNil(t, plans[0].TargetDate)
	assert.Equal(t, "2025-10-01", plans[0].TargetDate.Format(dateLayout))
}

func TestPlanCreate_Workflow(t *testing.T) {
	app, repo := testApp(t)

	_, err := executeCmd(t, app, "plan", "create", "--name", "Onboarding", "--hierarchy", "workflow")
	require.NoError(t, err)

	plans, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	p, err := repo.GetByID(context.Background(), plans[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindCentral, p.Nodes[0].Kind)
}

func TestPlanCreate_RequiresNameWhenNotInteractive(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "plan", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name is required")
}

func TestPlanCreate_InvalidDate(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "plan", "create", "--name", "X", "--target", "10/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestPlanCreate_ValidationError(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "plan", "create", "--name", "X", "--version", "1.2")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestPlanList(t *testing.T) {
	app, repo := testApp(t)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans found.")

	p := seedReleasePlan(t, repo)
	out, err = executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Release 1.0")
	assert.Contains(t, out, p.ID[:8])
	assert.Contains(t, out, " 67%")
}

func TestPlanList_AllIncludesClosed(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "plan", "close", p.ID, "--reason", "shipped")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans found.")

	out, err = executeCmd(t, app, "plan", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Closed")
}

func TestPlanShow(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "plan", "show", p.ID[:13])
	require.NoError(t, err)
	assert.Contains(t, out, "Release 1.0")
	assert.Contains(t, out, "Login")
	assert.Contains(t, out, "Invoices")
	assert.Contains(t, out, "[ @ana ]")
}

func TestPlanShow_NotFound(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "plan", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plan not found: "nope"`)
}

func TestPlanDuplicate(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "plan", "duplicate", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Release 1.0 (copy)")

	plans, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestPlanCloseReopen(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "plan", "close", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Closed plan Release 1.0")

	_, err = executeCmd(t, app, "plan", "close", p.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	out, err = executeCmd(t, app, "plan", "reopen", p.ID, "--reason", "hotfix")
	require.NoError(t, err)
	assert.Contains(t, out, "Reopened plan Release 1.0")

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, stored.Status)
	require.Len(t, stored.StatusHistory, 3)
	assert.Equal(t, "hotfix", stored.StatusHistory[2].Reason)
}

func TestPlanBump(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "plan", "bump", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Bumped Release 1.0 to v1.0.1")
}

func TestPlanDelete(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "plan", "delete", p.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrPlanNotClosed)

	out, err := executeCmd(t, app, "plan", "delete", p.ID, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan")

	_, err = repo.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- node ---

func TestNodeAdd_DefaultsKindFromParent(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "node", "add", p.ID, "--parent", "f2", "--title", "Refunds",
		"--assignee", "bo", "--estimate", "2d", "--depends-on", "t3")
	require.NoError(t, err)
	assert.Contains(t, out, `Added task "Refunds" under "Billing"`)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.NodeCount)
	f2, _ := tree.Find(stored.Nodes, "f2")
	require.Len(t, f2.Children, 2)
	added := f2.Children[1]
	assert.Equal(t, domain.KindTask, added.Kind)
	assert.Equal(t, domain.StatusPlanning, added.Properties.Status)
	assert.Equal(t, "bo", added.Properties.Assignee)
	assert.Equal(t, []string{"t3"}, added.Properties.Dependencies)
	assert.True(t, f2.Expanded, "adding a child expands the parent")
}

func TestNodeAdd_UnderLeafFails(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "add", p.ID, "--parent", "t1", "--title", "Sub")
	require.Error(t, err)
	assert.ErrorIs(t, err, tree.ErrLeafParent)
}

func TestNodeAdd_WrongKindFails(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "add", p.ID, "--parent", "r", "--title", "Stray", "--kind", "task")
	require.Error(t, err)
	assert.ErrorIs(t, err, tree.ErrRankViolation)
}

func TestNodeAdd_AmbiguousParent(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "add", p.ID, "--parent", "f", "--title", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous (2 matches)")
}

func TestNodeUpdate(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "node", "update", p.ID, "t2", "--title", "OAuth2", "--status", "released", "--tag", "auth,sso")
	require.NoError(t, err)
	assert.Contains(t, out, `Updated task "OAuth2"`)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	t2, _ := tree.Find(stored.Nodes, "t2")
	assert.Equal(t, "OAuth2", t2.Title)
	assert.Equal(t, domain.StatusReleased, t2.Properties.Status)
	assert.Equal(t, []string{"auth", "sso"}, t2.Properties.Tags)
	assert.Equal(t, []string{"t1"}, t2.Properties.Dependencies, "untouched properties are kept")
	assert.Equal(t, 100, stored.Completion)
}

func TestNodeUpdate_NothingToUpdate(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "update", p.ID, "t2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestNodeUpdate_InvalidStatus(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "update", p.ID, "t2", "--status", "done")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Contains(t, err.Error(), `invalid status "done"`)
}

func TestNodeRemove_RequiresConfirmation(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "remove", p.ID, "f1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 descendant(s)")

	out, err := executeCmd(t, app, "node", "remove", p.ID, "f1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 3 node(s)")

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.NodeCount)
}

func TestNodeMove(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "node", "move", p.ID, "t3", "f1")
	require.NoError(t, err)
	assert.Contains(t, out, `Moved "Invoices" under "Login"`)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	parent, ok := tree.Parent(stored.Nodes, "t3")
	require.True(t, ok)
	assert.Equal(t, "f1", parent.ID)
}

func TestNodeMove_CycleRejected(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "move", p.ID, "r", "f1")
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.NodeCount)
	parent, ok := tree.Parent(stored.Nodes, "f1")
	require.True(t, ok)
	assert.Equal(t, "r", parent.ID)
}

func TestNodeReorder(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "node", "reorder", p.ID, "f2", "0")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "f2", stored.Nodes[0].Children[0].ID)

	_, err = executeCmd(t, app, "node", "reorder", p.ID, "f2", "first")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid index")
}

func TestNodeInspect(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "node", "inspect", p.ID, "t2")
	require.NoError(t, err)
	assert.Contains(t, out, "Release 1.0 › Login › OAuth")
	assert.Contains(t, out, "DEPENDS ON")
}

// --- search / stats ---

func TestSearch(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "search", p.ID, "ANA")
	require.NoError(t, err)
	assert.Contains(t, out, "Form")
	assert.NotContains(t, out, "Invoices")

	out, err = executeCmd(t, app, "search", p.ID, "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No nodes match "zzz".`)
}

func TestStats(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "stats", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "STATS")
	assert.Contains(t, out, " 67%")
	assert.Contains(t, out, "ready-for-release")
}

// --- import / export ---

func TestExportImport_RoundTrip(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")

	out, err := executeCmd(t, app, "export", p.ID, "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported plan to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Release 1.0")

	out, err = executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported plan Release 1.0 v1.0.0")
	assert.Contains(t, out, "with 6 nodes")

	plans, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestExport_StdoutJSON(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	out, err := executeCmd(t, app, "export", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Release 1.0"`)
}

func TestExport_UnknownFormat(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "export", p.ID, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown snapshot format")
}

func TestImport_MissingFile(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}

func TestEdit_RequiresTerminal(t *testing.T) {
	app, repo := testApp(t)
	p := seedReleasePlan(t, repo)

	_, err := executeCmd(t, app, "edit", p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
