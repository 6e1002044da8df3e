package state

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/session"
	"github.com/alexanderramin/pulse/internal/store"
	"github.com/go-playground/validator/v10"
)

var planValidate = validator.New()

type ExerciseStore interface {
	AddPlan(ctx context.Context, p *domain.ExercisePlan) error
	RemovePlan(ctx context.Context, name string) error
	GetPlan(ctx context.Context, name string) (*domain.ExercisePlan, error)
	ListPlans(ctx context.Context) ([]domain.ExercisePlan, error)
	AddRecord(ctx context.Context, r *domain.ExerciseRecord) error
	ListRecords(ctx context.Context, limit int) ([]domain.ExerciseRecord, error)
}

type ExerciseState struct {
	holder
	store   ExerciseStore
	rand    session.Rand
	tracker *session.ExerciseTracker
}

// NewExerciseState builds the holder. A nil r uses the tracker's default
// random source.
func NewExerciseState(st ExerciseStore, r session.Rand, opts Options) *ExerciseState {
	s := &ExerciseState{store: st, rand: r}
	s.init(opts)
	return s
}

func (s *ExerciseState) Plans(ctx context.Context) ([]domain.ExercisePlan, error) {
	var plans []domain.ExercisePlan
	err := s.run(ctx, "exercise.plans", func(ctx context.Context) error {
		var err error
		plans, err = s.store.ListPlans(ctx)
		return err
	})
	return plans, err
}

func (s *ExerciseState) AddPlan(ctx context.Context, p domain.ExercisePlan) (domain.ExercisePlan, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := planValidate.Struct(p); err != nil {
		return p, s.reject("请填写计划名称和时长")
	}
	err := s.run(ctx, "exercise.add_plan", func(ctx context.Context) error {
		return s.store.AddPlan(ctx, &p)
	})
	return p, err
}

func (s *ExerciseState) RemovePlan(ctx context.Context, name string) error {
	return s.run(ctx, "exercise.remove_plan", func(ctx context.Context) error {
		err := s.store.RemovePlan(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			s.setError("未找到该计划")
		}
		return err
	})
}

// Start begins a workout for the named plan.
func (s *ExerciseState) Start(ctx context.Context, planName string) (*session.ExerciseTracker, error) {
	var t *session.ExerciseTracker
	err := s.run(ctx, "exercise.start", func(ctx context.Context) error {
		plan, err := s.store.GetPlan(ctx, planName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.setError("未找到该计划")
			}
			return err
		}
		t = session.NewExerciseTracker(*plan, s.now, s.rand)
		t.Start()
		s.mu.Lock()
		s.tracker = t
		s.mu.Unlock()
		return nil
	})
	return t, err
}

func (s *ExerciseState) Tracker() *session.ExerciseTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker
}

// Stop ends the running workout and stores its record.
func (s *ExerciseState) Stop(ctx context.Context) (domain.ExerciseRecord, error) {
	s.mu.Lock()
	t := s.tracker
	s.tracker = nil
	s.mu.Unlock()
	if t == nil {
		return domain.ExerciseRecord{}, s.reject("运动尚未开始")
	}
	rec := t.Stop()
	err := s.run(ctx, "exercise.save", func(ctx context.Context) error {
		return s.store.AddRecord(ctx, &rec)
	})
	return rec, err
}

// History returns finished workouts, newest first.
func (s *ExerciseState) History(ctx context.Context, limit int) ([]domain.ExerciseRecord, error) {
	var recs []domain.ExerciseRecord
	err := s.run(ctx, "exercise.history", func(ctx context.Context) error {
		var err error
		recs, err = s.store.ListRecords(ctx, limit)
		return err
	})
	return recs, err
}
