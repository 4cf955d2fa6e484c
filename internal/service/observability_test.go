package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alexanderramin/planforge/internal/repository"
	"github.com/alexanderramin/planforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestLogUseCaseObserver_WritesEvents(t *testing.T) {
	var buf bytes.Buffer
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLitePlanRepo(database)
	svc := NewPlanService(repo, testutil.NewTestUoW(database), testOptions(), NewLogUseCaseObserver(&buf, slog.LevelInfo))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePlanRequest{Name: "Observed"})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=create-plan")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "name=Observed")

	buf.Reset()
	_, err = svc.Duplicate(ctx, "missing")
	require.Error(t, err)
	out = buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "use_case=duplicate-plan")
	assert.Contains(t, out, "success=false")
}

func TestLogUseCaseObserver_LevelFiltersSuccess(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelWarn)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "quiet", Success: true})
	assert.Empty(t, buf.String())

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "loud", Err: assert.AnError})
	assert.Contains(t, buf.String(), "use_case=loud")
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	obs := NewLogUseCaseObserver(nil, nil)
	assert.IsType(t, NoopUseCaseObserver{}, obs)
}

func TestNodeService_ReportsRemovedCount(t *testing.T) {
	env := newTestEnv(t)
	plan := env.seedReleasePlan(t)
	rec := &recordingObserver{}
	svc := NewNodeService(env.repo, env.uow, testOptions(), rec)

	_, err := svc.Remove(context.Background(), plan.ID, "f1")
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "remove-node", rec.events[0].Name)
	assert.True(t, rec.events[0].Success)
	assert.Equal(t, 3, rec.events[0].Fields["removed"])
}
