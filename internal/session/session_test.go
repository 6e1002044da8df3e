package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock returns a clock reading *t at call time.
func manualClock(t *time.Time) Clock {
	return func() time.Time { return *t }
}

func TestSleepTracker_Lifecycle(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 10, 0, 0, time.Local)
	tr := NewSleepTracker(manualClock(&now), nil)

	snap := tr.Snapshot()
	assert.Equal(t, domain.TrackerIdle, snap.State)
	assert.Equal(t, domain.StagePreparing, snap.CurrentStage)
	assert.False(t, tr.UpdateStage(domain.StageDeep, 55), "ignored while idle")

	tr.Start()
	snap = tr.Snapshot()
	assert.Equal(t, domain.StageLight, snap.CurrentStage)
	assert.Equal(t, 60, snap.CurrentHeartRate)

	assert.True(t, tr.UpdateStage(domain.StageDeep, 52))
	assert.Equal(t, domain.StageDeep, tr.Snapshot().CurrentStage)

	now = now.Add(7*time.Hour + 30*time.Minute + 40*time.Second)
	tr.Tick()
	assert.Equal(t, 450, tr.Snapshot().TotalMinutes)

	rec := tr.Stop()
	assert.Equal(t, domain.TrackerEnded, rec.State)
	assert.Equal(t, 450, rec.TotalMinutes)
	assert.InDelta(t, 7.5, rec.Hours, 1e-9)
	assert.Equal(t, "23:10", rec.BedTime)
	assert.Equal(t, "06:40", rec.WakeTime)
	assert.Equal(t, domain.StageEnded, rec.CurrentStage)
	assert.True(t, rec.Stages.Placeholder)
	assert.Equal(t, 40, rec.Stages.LightPct)
	assert.Equal(t, 85, rec.Score)
	assert.Equal(t, 7.5, rec.WeeklyHours[len(rec.WeeklyHours)-1])
	assert.Equal(t, DefaultWeeklySleep[0], rec.WeeklyHours[0])
	assert.Equal(t, 7.8, DefaultWeeklySleep[6], "defaults untouched")

	assert.False(t, tr.UpdateStage(domain.StageREM, 70), "ignored after stop")
}

func TestSleepTracker_RestartClearsPreviousNight(t *testing.T) {
	now := time.Date(2024, 3, 1, 22, 0, 0, 0, time.Local)
	tr := NewSleepTracker(manualClock(&now), nil)

	tr.Start()
	now = now.Add(8 * time.Hour)
	first := tr.Stop()
	require.Equal(t, 480, first.TotalMinutes)

	now = now.Add(16 * time.Hour)
	tr.Start()
	snap := tr.Snapshot()
	assert.Equal(t, domain.TrackerActive, snap.State)
	assert.Equal(t, now, snap.StartTime)
	assert.True(t, snap.EndTime.IsZero())
	assert.Zero(t, snap.TotalMinutes)
	assert.Zero(t, snap.Hours)
	assert.Zero(t, snap.Score)
	assert.Zero(t, snap.LatencyMinutes)
	assert.Zero(t, snap.WakeCount)
	assert.Empty(t, snap.BedTime)
	assert.Empty(t, snap.WakeTime)
	assert.Equal(t, domain.SleepStageBreakdown{}, snap.Stages)
	assert.Equal(t, domain.StageLight, snap.CurrentStage)
	assert.Equal(t, 8.0, snap.WeeklyHours[len(snap.WeeklyHours)-1], "weekly chart kept")
}

func TestSleepTracker_StopWithoutStart(t *testing.T) {
	now := time.Date(2024, 3, 2, 7, 0, 0, 0, time.Local)
	rec := NewSleepTracker(manualClock(&now), []float64{}).Stop()

	assert.Zero(t, rec.TotalMinutes)
	assert.Zero(t, rec.Hours)
	assert.Equal(t, rec.BedTime, rec.WakeTime)
	assert.Empty(t, rec.WeeklyHours)
}

func TestScoreDescription(t *testing.T) {
	cases := map[int]string{
		95: "优秀", 90: "优秀", 85: "良好", 72: "一般", 60: "较差", 10: "很差",
	}
	for score, prefix := range cases {
		assert.Contains(t, ScoreDescription(score), prefix, "score %d", score)
	}
}

// seqRand returns values from a fixed cycle.
func seqRand(vals ...int) Rand {
	var i int
	return func(n int) int {
		v := vals[i%len(vals)] % n
		i++
		return v
	}
}

func TestExerciseTracker_TickAndStop(t *testing.T) {
	now := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	plan := domain.ExercisePlan{Name: "慢跑", DurationMinutes: 30, Calories: 300}
	// Heart-rate draw then step draw per tick.
	tr := NewExerciseTracker(plan, manualClock(&now), seqRand(0, 0, 40, 2))

	tr.Tick()
	assert.Zero(t, tr.Snapshot().ElapsedSeconds, "idle trackers do not tick")

	tr.Start()
	for i := 0; i < 120; i++ {
		tr.Tick()
	}
	snap := tr.Snapshot()
	assert.Equal(t, 120, snap.ElapsedSeconds)
	for _, hr := range snap.HeartRates {
		assert.GreaterOrEqual(t, hr, 120)
		assert.LessOrEqual(t, hr, 160)
	}
	assert.Equal(t, 60*1+60*3, snap.Steps)

	now = now.Add(2 * time.Minute)
	rec := tr.Stop()
	assert.Equal(t, "慢跑", rec.PlanName)
	assert.Equal(t, 2, rec.DurationMinutes)
	assert.Equal(t, 300, rec.CaloriesBurned)
	assert.Equal(t, 140, rec.AverageHeartRate)
	assert.Equal(t, 240, rec.Steps)
	assert.Equal(t, domain.TrackerEnded, tr.State())
}

func TestExerciseTracker_PauseSkipsTicks(t *testing.T) {
	tr := NewExerciseTracker(domain.ExercisePlan{Name: "x", DurationMinutes: 1}, nil, seqRand(5))
	tr.Start()
	tr.Tick()
	tr.Pause()
	tr.Tick()
	tr.Tick()
	assert.Equal(t, 1, tr.Snapshot().ElapsedSeconds)
	assert.Len(t, tr.Snapshot().HeartRates, 1)

	tr.Resume()
	tr.Tick()
	assert.Equal(t, 2, tr.Snapshot().ElapsedSeconds)
}

func TestExerciseTracker_StopWithoutSamples(t *testing.T) {
	rec := NewExerciseTracker(domain.ExercisePlan{Name: "x", Calories: 50}, nil, nil).Stop()
	assert.Zero(t, rec.AverageHeartRate)
	assert.Zero(t, rec.DurationMinutes)
	assert.Equal(t, 50, rec.CaloriesBurned)
}

func TestPhase(t *testing.T) {
	for s, want := range map[int]domain.BreathPhase{
		0: domain.BreathIn, 3: domain.BreathIn, 4: domain.BreathOut,
		7: domain.BreathOut, 8: domain.BreathIn, 13: domain.BreathOut,
	} {
		assert.Equal(t, want, Phase(s), "second %d", s)
	}
}

func TestMeditationTracker(t *testing.T) {
	now := time.Date(2024, 3, 1, 7, 0, 0, 0, time.Local)
	tr := NewMeditationTracker(5, manualClock(&now))
	tr.Start()
	for i := 0; i < 4; i++ {
		tr.Tick()
	}
	assert.Equal(t, domain.BreathOut, tr.Snapshot().Phase)
	assert.False(t, tr.Done())

	tr.Tick()
	assert.True(t, tr.Done())

	now = now.Add(time.Minute)
	ms := tr.Stop()
	assert.Equal(t, 5, ms.DurationSeconds)
	assert.True(t, ms.Completed)
	assert.Equal(t, "2024-03-01 07:00:00", ms.At)
}

func TestMeditationTracker_StoppedEarly(t *testing.T) {
	tr := NewMeditationTracker(300, nil)
	tr.Start()
	tr.Tick()
	ms := tr.Stop()
	assert.False(t, ms.Completed)
	assert.Equal(t, 1, ms.DurationSeconds)
}

type countingTracker struct {
	ticks atomic.Int32
	stop  int32
}

func (c *countingTracker) Start() {}
func (c *countingTracker) Tick()  { c.ticks.Add(1) }
func (c *countingTracker) State() domain.TrackerState {
	if c.stop > 0 && c.ticks.Load() >= c.stop {
		return domain.TrackerEnded
	}
	return domain.TrackerActive
}

func TestRun_StopsWhenTrackerEnds(t *testing.T) {
	tr := &countingTracker{stop: 3}
	var calls atomic.Int32
	err := Run(context.Background(), tr, time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, int32(3), tr.ticks.Load())
	assert.Equal(t, int32(3), calls.Load())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := Run(ctx, &countingTracker{}, time.Millisecond, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
