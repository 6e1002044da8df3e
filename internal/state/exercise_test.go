package state

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/store"
	"github.com/alexanderramin/pulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExerciseState(t *testing.T, now func() time.Time) *ExerciseState {
	t.Helper()
	st := store.NewExerciseStore(testutil.NewTestDB(t))
	return NewExerciseState(st, func(n int) int { return 0 }, Options{Now: now})
}

func TestExerciseState_Plans(t *testing.T) {
	s := newExerciseState(t, nil)
	ctx := context.Background()

	p, err := s.AddPlan(ctx, domain.ExercisePlan{Name: " 晨跑 ", DurationMinutes: 30, Calories: 250})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "晨跑", p.Name)

	_, err = s.AddPlan(ctx, domain.ExercisePlan{Name: "", DurationMinutes: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.AddPlan(ctx, domain.ExercisePlan{Name: "x", DurationMinutes: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	plans, err := s.Plans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	require.NoError(t, s.RemovePlan(ctx, "晨跑"))
	require.ErrorIs(t, s.RemovePlan(ctx, "晨跑"), store.ErrNotFound)
	assert.Equal(t, "未找到该计划", s.LastError())
}

func TestExerciseState_Workout(t *testing.T) {
	clock := testutil.FixedClock(testNow, 90*time.Second)
	s := newExerciseState(t, clock)
	ctx := context.Background()
	_, err := s.AddPlan(ctx, *testutil.NewTestPlan("骑行", testutil.WithPlanCalories(300)))
	require.NoError(t, err)

	tr, err := s.Start(ctx, "骑行")
	require.NoError(t, err)
	assert.Same(t, tr, s.Tracker())
	for range 120 {
		tr.Tick()
	}
	tr.Pause()
	tr.Tick()
	tr.Resume()

	rec, err := s.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "骑行", rec.PlanName)
	assert.Equal(t, 2, rec.DurationMinutes)
	assert.Equal(t, 300, rec.CaloriesBurned)
	assert.Equal(t, 120, rec.AverageHeartRate)
	assert.Equal(t, 120, rec.Steps)
	assert.Nil(t, s.Tracker())

	history, err := s.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
}

func TestExerciseState_StartUnknownAndStopIdle(t *testing.T) {
	s := newExerciseState(t, nil)
	ctx := context.Background()

	_, err := s.Start(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Stop(ctx)
	require.ErrorIs(t, err, ErrInvalidInput)
}
