package remote

import "context"

// Table names.
const (
	TableHeartRates = "heart_rates"
	TableSteps      = "steps"
	TableWeights    = "weights"
	TableWater      = "water_intake"
	TableSleep      = "sleep_sessions"
	TableMoods      = "mood_logs"
	TableMeditation = "meditation_sessions"
	TableStress     = "stress_assessments"
	TableNews       = "daily_news"
	TableProfiles   = "profiles"
	TableTips       = "daily_tips"
	TableImports    = "imports"
)

type HeartRateRow struct {
	UserID string `json:"user_id,omitempty"`
	At     string `json:"at"`
	BPM    int    `json:"bpm"`
}

type StepsRow struct {
	UserID string `json:"user_id,omitempty"`
	At     string `json:"at"`
	Count  int    `json:"count"`
}

type WeightRow struct {
	UserID string  `json:"user_id,omitempty"`
	At     string  `json:"at"`
	Kg     float64 `json:"kg"`
}

type WaterRow struct {
	UserID string `json:"user_id,omitempty"`
	At     string `json:"at"`
	Ml     int    `json:"ml"`
}

type SleepRow struct {
	UserID string  `json:"user_id,omitempty"`
	At     string  `json:"at"`
	Hours  float64 `json:"hours"`
}

type MoodRow struct {
	UserID string  `json:"user_id,omitempty"`
	At     string  `json:"at"`
	Mood   string  `json:"mood"`
	Note   *string `json:"note,omitempty"`
	Score  *int    `json:"score,omitempty"`
}

type MeditationRow struct {
	UserID          string `json:"user_id,omitempty"`
	At              string `json:"at"`
	DurationSeconds int    `json:"duration_seconds"`
	Completed       bool   `json:"completed"`
}

type StressRow struct {
	UserID string  `json:"user_id,omitempty"`
	At     string  `json:"at"`
	Level  int     `json:"level"`
	Note   *string `json:"note,omitempty"`
}

// recent lists the newest rows of a timestamped table, newest first.
func recent[T any](ctx context.Context, c *Client, table, cols string, limit int) ([]T, error) {
	var rows []T
	err := c.Select(ctx, table, Query{Select: cols, Order: []string{"at.desc"}, Limit: limit}, &rows)
	return rows, err
}

func (c *Client) HeartRates(ctx context.Context, limit int) ([]HeartRateRow, error) {
	return recent[HeartRateRow](ctx, c, TableHeartRates, "at,bpm", limit)
}

func (c *Client) Steps(ctx context.Context, limit int) ([]StepsRow, error) {
	return recent[StepsRow](ctx, c, TableSteps, "at,count", limit)
}

func (c *Client) Weights(ctx context.Context, limit int) ([]WeightRow, error) {
	return recent[WeightRow](ctx, c, TableWeights, "at,kg", limit)
}

func (c *Client) Water(ctx context.Context, limit int) ([]WaterRow, error) {
	return recent[WaterRow](ctx, c, TableWater, "at,ml", limit)
}

func (c *Client) Sleep(ctx context.Context, limit int) ([]SleepRow, error) {
	return recent[SleepRow](ctx, c, TableSleep, "at,hours", limit)
}

func (c *Client) Moods(ctx context.Context, limit int) ([]MoodRow, error) {
	return recent[MoodRow](ctx, c, TableMoods, "at,mood,note,score", limit)
}

func (c *Client) Meditations(ctx context.Context, limit int) ([]MeditationRow, error) {
	return recent[MeditationRow](ctx, c, TableMeditation, "at,duration_seconds,completed", limit)
}

func (c *Client) StressAssessments(ctx context.Context, limit int) ([]StressRow, error) {
	return recent[StressRow](ctx, c, TableStress, "at,level,note", limit)
}

func (c *Client) InsertHeartRates(ctx context.Context, rows []HeartRateRow) (int, error) {
	return Insert(ctx, c, TableHeartRates, rows)
}

func (c *Client) InsertSteps(ctx context.Context, rows []StepsRow) (int, error) {
	return Insert(ctx, c, TableSteps, rows)
}

func (c *Client) InsertWeights(ctx context.Context, rows []WeightRow) (int, error) {
	return Insert(ctx, c, TableWeights, rows)
}

func (c *Client) InsertWater(ctx context.Context, rows []WaterRow) (int, error) {
	return Insert(ctx, c, TableWater, rows)
}

func (c *Client) InsertSleep(ctx context.Context, rows []SleepRow) (int, error) {
	return Insert(ctx, c, TableSleep, rows)
}

func (c *Client) InsertMoods(ctx context.Context, rows []MoodRow) (int, error) {
	return Insert(ctx, c, TableMoods, rows)
}

func (c *Client) InsertMeditations(ctx context.Context, rows []MeditationRow) (int, error) {
	return Insert(ctx, c, TableMeditation, rows)
}

func (c *Client) InsertStressAssessments(ctx context.Context, rows []StressRow) (int, error) {
	return Insert(ctx, c, TableStress, rows)
}
