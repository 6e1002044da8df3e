package state

import (
	"context"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/repository"
	"github.com/alexanderramin/pulse/internal/session"
)

// SleepState wraps one sleep tracker and saves finished nights.
type SleepState struct {
	holder
	repo    repository.MetricsRepo
	tracker *session.SleepTracker
}

// NewSleepState seeds the weekly chart from weekly, or the default week
// when nil.
func NewSleepState(repo repository.MetricsRepo, weekly []float64, opts Options) *SleepState {
	s := &SleepState{repo: repo}
	s.init(opts)
	s.tracker = session.NewSleepTracker(s.now, weekly)
	return s
}

func (s *SleepState) Tracker() *session.SleepTracker { return s.tracker }

func (s *SleepState) Start() { s.tracker.Start() }

func (s *SleepState) Tick() { s.tracker.Tick() }

// UpdateStage records a stage change; it is ignored unless monitoring.
func (s *SleepState) UpdateStage(stage domain.SleepStage, heartRate int) bool {
	return s.tracker.UpdateStage(stage, heartRate)
}

// Stop ends monitoring. Nights with any measured time are saved as a
// sleep sample stamped at the wake time.
func (s *SleepState) Stop(ctx context.Context) (domain.SleepData, error) {
	data := s.tracker.Stop()
	if data.Hours <= 0 {
		return data, nil
	}
	err := s.run(ctx, "sleep.save", func(ctx context.Context) error {
		return s.repo.AddSleep(ctx, data.EndTime, data.Hours)
	})
	return data, err
}
