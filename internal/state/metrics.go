package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/remote"
	"github.com/alexanderramin/pulse/internal/repository"
)

// DefaultRange is the chart window shown before the user picks one.
const DefaultRange = 7

// MetricsData is everything the dashboard shows, oldest sample first.
type MetricsData struct {
	HeartRates  []domain.Point
	Steps       []domain.Point
	Weights     []domain.Point
	Water       []domain.Point
	Sleep       []domain.Point
	Moods       []domain.MoodLog
	Meditations []domain.MeditationSession
	Stress      []domain.StressAssessment
}

type MetricsState struct {
	holder
	repo      repository.MetricsRepo
	aggs      repository.AggregatesRepo
	data      MetricsData
	rangeDays int
	agg       domain.Aggregates
}

func NewMetricsState(repo repository.MetricsRepo, aggs repository.AggregatesRepo, opts Options) *MetricsState {
	s := &MetricsState{repo: repo, aggs: aggs, rangeDays: DefaultRange}
	s.init(opts)
	return s
}

// assign stores a loaded value. Failed loads keep what was there before.
func assign[T any](errs *[]error, name string, res domain.Result[T], dst *T) {
	if !res.OK() {
		*errs = append(*errs, fmt.Errorf("loading %s: %w", name, res.Err))
		return
	}
	*dst = res.Value
}

// LoadAll fetches every metric. Each kind loads independently; the first
// failure becomes LastError.
func (s *MetricsState) LoadAll(ctx context.Context) error {
	return s.run(ctx, "metrics.load", func(ctx context.Context) error {
		s.mu.Lock()
		next := s.data
		s.mu.Unlock()

		var errs []error
		assign(&errs, "heart rates", s.repo.HeartRates(ctx, repository.LimitHeartRates), &next.HeartRates)
		assign(&errs, "steps", s.repo.Steps(ctx, repository.LimitSteps), &next.Steps)
		assign(&errs, "weights", s.repo.Weights(ctx, repository.LimitDefault), &next.Weights)
		assign(&errs, "water", s.repo.Water(ctx, repository.LimitDefault), &next.Water)
		assign(&errs, "sleep", s.repo.Sleep(ctx, repository.LimitDefault), &next.Sleep)
		assign(&errs, "moods", s.repo.Moods(ctx, repository.LimitDefault), &next.Moods)
		assign(&errs, "meditations", s.repo.Meditations(ctx, repository.LimitDefault), &next.Meditations)
		assign(&errs, "stress", s.repo.StressAssessments(ctx, repository.LimitDefault), &next.Stress)

		s.mu.Lock()
		s.data = next
		s.mu.Unlock()
		if len(errs) > 0 {
			s.setError(remote.UserMessage(errs[0]))
			return errors.Join(errs...)
		}
		return nil
	})
}

func (s *MetricsState) Data() MetricsData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func (s *MetricsState) Range() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeDays
}

func (s *MetricsState) Aggregates() domain.Aggregates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg
}

// SetRange switches the chart window and refreshes the server totals.
func (s *MetricsState) SetRange(ctx context.Context, days int) error {
	if !slices.Contains(repository.ValidRanges, days) {
		return s.reject(fmt.Sprintf("不支持的范围：%d 天", days))
	}
	s.mu.Lock()
	s.rangeDays = days
	s.mu.Unlock()
	return s.LoadAggregates(ctx)
}

func (s *MetricsState) LoadAggregates(ctx context.Context) error {
	if s.aggs == nil {
		return nil
	}
	return s.run(ctx, "metrics.aggregates", func(ctx context.Context) error {
		res := s.aggs.Get(ctx, s.Range())
		if !res.OK() {
			return res.Err
		}
		s.mu.Lock()
		s.agg = res.Value
		s.mu.Unlock()
		return nil
	})
}

// View is the loaded data cut to the selected range.
func (s *MetricsState) View() MetricsData {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.rangeDays
	return MetricsData{
		HeartRates:  s.data.HeartRates,
		Steps:       takeLast(s.data.Steps, n),
		Weights:     takeLast(s.data.Weights, n),
		Water:       takeLast(s.data.Water, n),
		Sleep:       takeLast(s.data.Sleep, n),
		Moods:       takeLast(s.data.Moods, n),
		Meditations: takeLast(s.data.Meditations, n),
		Stress:      takeLast(s.data.Stress, n),
	}
}

func takeLast[T any](xs []T, n int) []T {
	if n <= 0 || len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

// MeditationTotals returns the summed seconds and the same total in
// minutes rounded to one decimal.
func (s *MetricsState) MeditationTotals() (seconds int, minutes float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.data.Meditations {
		seconds += m.DurationSeconds
	}
	return seconds, math.Round(float64(seconds)/60*10) / 10
}

// AverageStress is the mean assessed level, or 0 with no assessments.
func (s *MetricsState) AverageStress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data.Stress) == 0 {
		return 0
	}
	total := 0
	for _, a := range s.data.Stress {
		total += a.Level
	}
	return float64(total) / float64(len(s.data.Stress))
}

// RecentRecords renders the latest sample of each kind, newest kinds
// first as the dashboard lists them.
func (s *MetricsState) RecentRecords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	if p, ok := last(s.data.HeartRates); ok {
		out = append(out, fmt.Sprintf("心率 %d bpm · %s", int(p.Value), p.At))
	}
	if p, ok := last(s.data.Steps); ok {
		out = append(out, fmt.Sprintf("步数 %d · %s", int(p.Value), p.At))
	}
	if p, ok := last(s.data.Weights); ok {
		out = append(out, fmt.Sprintf("体重 %.1f kg · %s", p.Value, p.At))
	}
	if p, ok := last(s.data.Water); ok {
		out = append(out, fmt.Sprintf("饮水 %d ml · %s", int(p.Value), p.At))
	}
	if p, ok := last(s.data.Sleep); ok {
		out = append(out, fmt.Sprintf("睡眠 %.1f 小时 · %s", p.Value, p.At))
	}
	if m, ok := last(s.data.Moods); ok {
		out = append(out, fmt.Sprintf("情绪 %s · %s", m.Mood, m.At))
	}
	return out
}

func last[T any](xs []T) (T, bool) {
	if len(xs) == 0 {
		var zero T
		return zero, false
	}
	return xs[len(xs)-1], true
}

// add writes one sample and reloads the dashboard. A failed reload is left
// in LastError but does not fail the add.
func (s *MetricsState) add(ctx context.Context, name string, write func(ctx context.Context) error) error {
	if err := s.run(ctx, "metrics.add_"+name, write); err != nil {
		return err
	}
	_ = s.LoadAll(ctx)
	return nil
}

func (s *MetricsState) AddHeartRate(ctx context.Context, bpm int) error {
	if bpm <= 0 {
		return s.reject("心率必须大于0")
	}
	return s.add(ctx, "heart_rate", func(ctx context.Context) error {
		return s.repo.AddHeartRate(ctx, s.now(), bpm)
	})
}

func (s *MetricsState) AddSteps(ctx context.Context, count int) error {
	if count < 0 {
		return s.reject("步数不能为负")
	}
	return s.add(ctx, "steps", func(ctx context.Context) error {
		return s.repo.AddSteps(ctx, s.now(), count)
	})
}

func (s *MetricsState) AddWeight(ctx context.Context, kg float64) error {
	if kg <= 0 {
		return s.reject("体重必须大于0")
	}
	return s.add(ctx, "weight", func(ctx context.Context) error {
		return s.repo.AddWeight(ctx, s.now(), kg)
	})
}

func (s *MetricsState) AddWater(ctx context.Context, ml int) error {
	if ml <= 0 {
		return s.reject("饮水量必须大于0")
	}
	return s.add(ctx, "water", func(ctx context.Context) error {
		return s.repo.AddWater(ctx, s.now(), ml)
	})
}

func (s *MetricsState) AddSleep(ctx context.Context, hours float64) error {
	if hours <= 0 || hours > 24 {
		return s.reject("睡眠时长需在0到24小时之间")
	}
	return s.add(ctx, "sleep", func(ctx context.Context) error {
		return s.repo.AddSleep(ctx, s.now(), hours)
	})
}

func (s *MetricsState) AddMood(ctx context.Context, mood, note string, score *int) error {
	if strings.TrimSpace(mood) == "" {
		return s.reject("请选择情绪")
	}
	return s.add(ctx, "mood", func(ctx context.Context) error {
		return s.repo.AddMood(ctx, s.now(), strings.TrimSpace(mood), strings.TrimSpace(note), score)
	})
}
