package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// ErrNotPersisted is returned when the backend accepted a write but echoed
// no rows back.
var ErrNotPersisted = errors.New("no rows persisted")

// MetricsRepo reads and records health samples. Reads come back in
// ascending chronological order.
type MetricsRepo interface {
	HeartRates(ctx context.Context, limit int) domain.Result[[]domain.Point]
	Steps(ctx context.Context, limit int) domain.Result[[]domain.Point]
	Weights(ctx context.Context, limit int) domain.Result[[]domain.Point]
	Water(ctx context.Context, limit int) domain.Result[[]domain.Point]
	Sleep(ctx context.Context, limit int) domain.Result[[]domain.Point]
	Moods(ctx context.Context, limit int) domain.Result[[]domain.MoodLog]
	Meditations(ctx context.Context, limit int) domain.Result[[]domain.MeditationSession]
	StressAssessments(ctx context.Context, limit int) domain.Result[[]domain.StressAssessment]

	AddHeartRate(ctx context.Context, at time.Time, bpm int) error
	AddSteps(ctx context.Context, at time.Time, count int) error
	AddWeight(ctx context.Context, at time.Time, kg float64) error
	AddWater(ctx context.Context, at time.Time, ml int) error
	AddSleep(ctx context.Context, at time.Time, hours float64) error
	AddMood(ctx context.Context, at time.Time, mood, note string, score *int) error
	AddMeditation(ctx context.Context, at time.Time, seconds int, completed bool) error
	AddStress(ctx context.Context, at time.Time, level int, note string) error
}

type NewsRepo interface {
	Latest(ctx context.Context, limit int) domain.Result[[]domain.NewsItem]
	Insert(ctx context.Context, items []domain.NewsItem) (int, error)
	PurgeDuplicates(ctx context.Context) (int, error)
}

type AggregatesRepo interface {
	Get(ctx context.Context, rangeDays int) domain.Result[domain.Aggregates]
}

type ProfileRepo interface {
	Current(ctx context.Context) domain.Result[domain.Profile]
	Ensure(ctx context.Context, displayName, avatarURL string) (domain.Profile, error)
}

type ImportsRepo interface {
	SaveRecords(ctx context.Context, records []domain.ImportedRecord) (domain.SaveResult, error)
	SaveByType(ctx context.Context, t domain.ImportType, records []domain.ImportedRecord) (int, error)
	CreateJob(ctx context.Context, filename, source string, rows int) (int64, error)
}

type TipsRepo interface {
	Today(ctx context.Context) domain.Result[domain.DailyTip]
}

// UserResolver resolves the signed-in user's id.
type UserResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Default fetch sizes.
const (
	LimitHeartRates = 20
	LimitSteps      = 7
	LimitDefault    = 14
	LimitNews       = 20
)
