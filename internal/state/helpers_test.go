package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

var (
	testNow    = time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local)
	errBackend = errors.New("backend down")
)

func fixedOptions() Options {
	return Options{Now: func() time.Time { return testNow }}
}

type added struct {
	kind  string
	at    time.Time
	value float64
	text  string
}

// fakeMetrics serves canned series and records every write.
type fakeMetrics struct {
	mu          sync.Mutex
	heart       domain.Result[[]domain.Point]
	steps       domain.Result[[]domain.Point]
	weights     domain.Result[[]domain.Point]
	water       domain.Result[[]domain.Point]
	sleep       domain.Result[[]domain.Point]
	moods       domain.Result[[]domain.MoodLog]
	meditations domain.Result[[]domain.MeditationSession]
	stress      domain.Result[[]domain.StressAssessment]
	addErr      error
	adds        []added
	loads       int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		heart:       domain.Empty[[]domain.Point](),
		steps:       domain.Empty[[]domain.Point](),
		weights:     domain.Empty[[]domain.Point](),
		water:       domain.Empty[[]domain.Point](),
		sleep:       domain.Empty[[]domain.Point](),
		moods:       domain.Empty[[]domain.MoodLog](),
		meditations: domain.Empty[[]domain.MeditationSession](),
		stress:      domain.Empty[[]domain.StressAssessment](),
	}
}

func (f *fakeMetrics) HeartRates(context.Context, int) domain.Result[[]domain.Point] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.heart
}

func (f *fakeMetrics) Steps(context.Context, int) domain.Result[[]domain.Point]   { return f.steps }
func (f *fakeMetrics) Weights(context.Context, int) domain.Result[[]domain.Point] { return f.weights }
func (f *fakeMetrics) Water(context.Context, int) domain.Result[[]domain.Point]   { return f.water }
func (f *fakeMetrics) Sleep(context.Context, int) domain.Result[[]domain.Point]   { return f.sleep }

func (f *fakeMetrics) Moods(context.Context, int) domain.Result[[]domain.MoodLog] { return f.moods }

func (f *fakeMetrics) Meditations(context.Context, int) domain.Result[[]domain.MeditationSession] {
	return f.meditations
}

func (f *fakeMetrics) StressAssessments(context.Context, int) domain.Result[[]domain.StressAssessment] {
	return f.stress
}

func (f *fakeMetrics) record(a added) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.adds = append(f.adds, a)
	return nil
}

func (f *fakeMetrics) AddHeartRate(_ context.Context, at time.Time, bpm int) error {
	return f.record(added{kind: "heart_rate", at: at, value: float64(bpm)})
}

func (f *fakeMetrics) AddSteps(_ context.Context, at time.Time, count int) error {
	return f.record(added{kind: "steps", at: at, value: float64(count)})
}

func (f *fakeMetrics) AddWeight(_ context.Context, at time.Time, kg float64) error {
	return f.record(added{kind: "weight", at: at, value: kg})
}

func (f *fakeMetrics) AddWater(_ context.Context, at time.Time, ml int) error {
	return f.record(added{kind: "water", at: at, value: float64(ml)})
}

func (f *fakeMetrics) AddSleep(_ context.Context, at time.Time, hours float64) error {
	return f.record(added{kind: "sleep", at: at, value: hours})
}

func (f *fakeMetrics) AddMood(_ context.Context, at time.Time, mood, note string, score *int) error {
	v := 0.0
	if score != nil {
		v = float64(*score)
	}
	return f.record(added{kind: "mood", at: at, value: v, text: mood + "|" + note})
}

func (f *fakeMetrics) AddMeditation(_ context.Context, at time.Time, seconds int, completed bool) error {
	text := "incomplete"
	if completed {
		text = "completed"
	}
	return f.record(added{kind: "meditation", at: at, value: float64(seconds), text: text})
}

func (f *fakeMetrics) AddStress(_ context.Context, at time.Time, level int, note string) error {
	return f.record(added{kind: "stress", at: at, value: float64(level), text: note})
}

func (f *fakeMetrics) writes() []added {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]added(nil), f.adds...)
}

type recordingActions struct {
	mu     sync.Mutex
	events []ActionEvent
}

func (r *recordingActions) ObserveAction(_ context.Context, e ActionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func points(vals ...float64) []domain.Point {
	out := make([]domain.Point, len(vals))
	for i, v := range vals {
		out[i] = domain.Point{At: time.Date(2024, 2, i+1, 8, 0, 0, 0, time.UTC).Format(domain.TimeLayout), Value: v}
	}
	return out
}
