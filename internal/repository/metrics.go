package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/remote"
)

// MetricsBackend is the slice of the remote client used for metrics.
type MetricsBackend interface {
	UserResolver
	HeartRates(ctx context.Context, limit int) ([]remote.HeartRateRow, error)
	Steps(ctx context.Context, limit int) ([]remote.StepsRow, error)
	Weights(ctx context.Context, limit int) ([]remote.WeightRow, error)
	Water(ctx context.Context, limit int) ([]remote.WaterRow, error)
	Sleep(ctx context.Context, limit int) ([]remote.SleepRow, error)
	Moods(ctx context.Context, limit int) ([]remote.MoodRow, error)
	Meditations(ctx context.Context, limit int) ([]remote.MeditationRow, error)
	StressAssessments(ctx context.Context, limit int) ([]remote.StressRow, error)

	InsertHeartRates(ctx context.Context, rows []remote.HeartRateRow) (int, error)
	InsertSteps(ctx context.Context, rows []remote.StepsRow) (int, error)
	InsertWeights(ctx context.Context, rows []remote.WeightRow) (int, error)
	InsertWater(ctx context.Context, rows []remote.WaterRow) (int, error)
	InsertSleep(ctx context.Context, rows []remote.SleepRow) (int, error)
	InsertMoods(ctx context.Context, rows []remote.MoodRow) (int, error)
	InsertMeditations(ctx context.Context, rows []remote.MeditationRow) (int, error)
	InsertStressAssessments(ctx context.Context, rows []remote.StressRow) (int, error)
}

// RemoteMetricsRepo implements MetricsRepo against the hosted backend.
type RemoteMetricsRepo struct {
	backend MetricsBackend
}

func NewRemoteMetricsRepo(backend MetricsBackend) *RemoteMetricsRepo {
	return &RemoteMetricsRepo{backend: backend}
}

// chronological maps newest-first rows to oldest-first values. It is the
// only place the backend's descending order is undone.
func chronological[R, V any](rows []R, err error, f func(R) V) domain.Result[[]V] {
	if err != nil {
		return domain.Failure[[]V](err)
	}
	out := make([]V, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = f(r)
	}
	return domain.SliceResult(out)
}

func (r *RemoteMetricsRepo) HeartRates(ctx context.Context, limit int) domain.Result[[]domain.Point] {
	rows, err := r.backend.HeartRates(ctx, limit)
	return chronological(rows, err, func(x remote.HeartRateRow) domain.Point {
		return domain.Point{At: x.At, Value: float64(x.BPM)}
	})
}

func (r *RemoteMetricsRepo) Steps(ctx context.Context, limit int) domain.Result[[]domain.Point] {
	rows, err := r.backend.Steps(ctx, limit)
	return chronological(rows, err, func(x remote.StepsRow) domain.Point {
		return domain.Point{At: x.At, Value: float64(x.Count)}
	})
}

func (r *RemoteMetricsRepo) Weights(ctx context.Context, limit int) domain.Result[[]domain.Point] {
	rows, err := r.backend.Weights(ctx, limit)
	return chronological(rows, err, func(x remote.WeightRow) domain.Point {
		return domain.Point{At: x.At, Value: x.Kg}
	})
}

func (r *RemoteMetricsRepo) Water(ctx context.Context, limit int) domain.Result[[]domain.Point] {
	rows, err := r.backend.Water(ctx, limit)
	return chronological(rows, err, func(x remote.WaterRow) domain.Point {
		return domain.Point{At: x.At, Value: float64(x.Ml)}
	})
}

func (r *RemoteMetricsRepo) Sleep(ctx context.Context, limit int) domain.Result[[]domain.Point] {
	rows, err := r.backend.Sleep(ctx, limit)
	return chronological(rows, err, func(x remote.SleepRow) domain.Point {
		return domain.Point{At: x.At, Value: x.Hours}
	})
}

func (r *RemoteMetricsRepo) Moods(ctx context.Context, limit int) domain.Result[[]domain.MoodLog] {
	rows, err := r.backend.Moods(ctx, limit)
	return chronological(rows, err, func(x remote.MoodRow) domain.MoodLog {
		m := domain.MoodLog{At: x.At, Mood: x.Mood, Score: x.Score}
		if x.Note != nil {
			m.Note = *x.Note
		}
		return m
	})
}

func (r *RemoteMetricsRepo) Meditations(ctx context.Context, limit int) domain.Result[[]domain.MeditationSession] {
	rows, err := r.backend.Meditations(ctx, limit)
	return chronological(rows, err, func(x remote.MeditationRow) domain.MeditationSession {
		return domain.MeditationSession{At: x.At, DurationSeconds: x.DurationSeconds, Completed: x.Completed}
	})
}

func (r *RemoteMetricsRepo) StressAssessments(ctx context.Context, limit int) domain.Result[[]domain.StressAssessment] {
	rows, err := r.backend.StressAssessments(ctx, limit)
	return chronological(rows, err, func(x remote.StressRow) domain.StressAssessment {
		s := domain.StressAssessment{At: x.At, Level: x.Level}
		if x.Note != nil {
			s.Note = *x.Note
		}
		return s
	})
}

// addOne resolves the current user, builds the row and inserts it.
func addOne[T any](ctx context.Context, r *RemoteMetricsRepo, what string,
	build func(uid string) T, insert func(context.Context, []T) (int, error)) error {
	uid, err := r.backend.CurrentUserID(ctx)
	if err != nil {
		return fmt.Errorf("recording %s: %w", what, err)
	}
	n, err := insert(ctx, []T{build(uid)})
	if err != nil {
		return fmt.Errorf("recording %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("recording %s: %w", what, ErrNotPersisted)
	}
	return nil
}

func stamp(at time.Time) string {
	return at.Format(domain.TimeLayout)
}

func (r *RemoteMetricsRepo) AddHeartRate(ctx context.Context, at time.Time, bpm int) error {
	return addOne(ctx, r, "heart rate", func(uid string) remote.HeartRateRow {
		return remote.HeartRateRow{UserID: uid, At: stamp(at), BPM: bpm}
	}, r.backend.InsertHeartRates)
}

func (r *RemoteMetricsRepo) AddSteps(ctx context.Context, at time.Time, count int) error {
	return addOne(ctx, r, "steps", func(uid string) remote.StepsRow {
		return remote.StepsRow{UserID: uid, At: stamp(at), Count: count}
	}, r.backend.InsertSteps)
}

func (r *RemoteMetricsRepo) AddWeight(ctx context.Context, at time.Time, kg float64) error {
	return addOne(ctx, r, "weight", func(uid string) remote.WeightRow {
		return remote.WeightRow{UserID: uid, At: stamp(at), Kg: kg}
	}, r.backend.InsertWeights)
}

func (r *RemoteMetricsRepo) AddWater(ctx context.Context, at time.Time, ml int) error {
	return addOne(ctx, r, "water", func(uid string) remote.WaterRow {
		return remote.WaterRow{UserID: uid, At: stamp(at), Ml: ml}
	}, r.backend.InsertWater)
}

func (r *RemoteMetricsRepo) AddSleep(ctx context.Context, at time.Time, hours float64) error {
	return addOne(ctx, r, "sleep", func(uid string) remote.SleepRow {
		return remote.SleepRow{UserID: uid, At: stamp(at), Hours: hours}
	}, r.backend.InsertSleep)
}

func (r *RemoteMetricsRepo) AddMood(ctx context.Context, at time.Time, mood, note string, score *int) error {
	return addOne(ctx, r, "mood", func(uid string) remote.MoodRow {
		row := remote.MoodRow{UserID: uid, At: stamp(at), Mood: mood, Score: score}
		if note != "" {
			row.Note = &note
		}
		return row
	}, r.backend.InsertMoods)
}

func (r *RemoteMetricsRepo) AddMeditation(ctx context.Context, at time.Time, seconds int, completed bool) error {
	return addOne(ctx, r, "meditation", func(uid string) remote.MeditationRow {
		return remote.MeditationRow{UserID: uid, At: stamp(at), DurationSeconds: seconds, Completed: completed}
	}, r.backend.InsertMeditations)
}

func (r *RemoteMetricsRepo) AddStress(ctx context.Context, at time.Time, level int, note string) error {
	return addOne(ctx, r, "stress assessment", func(uid string) remote.StressRow {
		row := remote.StressRow{UserID: uid, At: stamp(at), Level: level}
		if note != "" {
			row.Note = &note
		}
		return row
	}, r.backend.InsertStressAssessments)
}
