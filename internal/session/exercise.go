package session

import (
	"sync"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// Simulated sensor ranges per tick.
const (
	exerciseMinHR    = 120
	exerciseMaxHR    = 160
	exerciseMinSteps = 1
	exerciseMaxSteps = 3
)

// ExerciseTracker runs one workout at a time against a plan.
type ExerciseTracker struct {
	mu   sync.Mutex
	now  Clock
	rand Rand
	s    domain.RunningSession
}

func NewExerciseTracker(plan domain.ExercisePlan, now Clock, r Rand) *ExerciseTracker {
	if now == nil {
		now = time.Now
	}
	if r == nil {
		r = defaultRand
	}
	return &ExerciseTracker{
		now:  now,
		rand: r,
		s:    domain.RunningSession{Plan: plan, State: domain.TrackerIdle},
	}
}

func (e *ExerciseTracker) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s = domain.RunningSession{
		Plan:  e.s.Plan,
		State: domain.TrackerActive,
		Start: e.now(),
	}
}

// Tick advances one second. Paused sessions are left untouched.
func (e *ExerciseTracker) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s.State != domain.TrackerActive || e.s.Paused {
		return
	}
	e.s.ElapsedSeconds++
	e.s.HeartRates = append(e.s.HeartRates, between(e.rand, exerciseMinHR, exerciseMaxHR))
	e.s.Steps += between(e.rand, exerciseMinSteps, exerciseMaxSteps)
}

func (e *ExerciseTracker) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s.State == domain.TrackerActive {
		e.s.Paused = true
	}
}

func (e *ExerciseTracker) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.Paused = false
}

func (e *ExerciseTracker) State() domain.TrackerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.State
}

func (e *ExerciseTracker) Snapshot() domain.RunningSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.s
	out.HeartRates = append([]int(nil), e.s.HeartRates...)
	return out
}

// Stop ends the workout and summarizes it. Calories come from the plan.
func (e *ExerciseTracker) Stop() domain.ExerciseRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	end := e.now()
	start := e.s.Start
	if start.IsZero() {
		start = end
	}
	e.s.State = domain.TrackerEnded
	e.s.Paused = false
	return domain.ExerciseRecord{
		PlanName:         e.s.Plan.Name,
		StartTime:        start,
		EndTime:          end,
		DurationMinutes:  e.s.ElapsedSeconds / 60,
		CaloriesBurned:   e.s.Plan.Calories,
		AverageHeartRate: average(e.s.HeartRates),
		Steps:            e.s.Steps,
	}
}

func average(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return sum / len(xs)
}
