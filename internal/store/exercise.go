package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/pulse/internal/db"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/google/uuid"
)

// ExerciseStore persists exercise plans and finished session records.
type ExerciseStore struct {
	db db.DBTX
}

func NewExerciseStore(d db.DBTX) *ExerciseStore {
	return &ExerciseStore{db: d}
}

func (s *ExerciseStore) AddPlan(ctx context.Context, p *domain.ExercisePlan) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise_plans (id, name, duration_minutes, calories, intensity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.DurationMinutes, p.Calories, p.Intensity, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting exercise plan: %w", err)
	}
	return nil
}

// RemovePlan deletes a plan by name.
func (s *ExerciseStore) RemovePlan(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exercise_plans WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting exercise plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exercise plan %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *ExerciseStore) GetPlan(ctx context.Context, name string) (*domain.ExercisePlan, error) {
	var p domain.ExercisePlan
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, duration_minutes, calories, intensity FROM exercise_plans WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &p.DurationMinutes, &p.Calories, &p.Intensity)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("exercise plan %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning exercise plan: %w", err)
	}
	return &p, nil
}

func (s *ExerciseStore) ListPlans(ctx context.Context) ([]domain.ExercisePlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, duration_minutes, calories, intensity FROM exercise_plans ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing exercise plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.ExercisePlan
	for rows.Next() {
		var p domain.ExercisePlan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationMinutes, &p.Calories, &p.Intensity); err != nil {
			return nil, fmt.Errorf("scanning exercise plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *ExerciseStore) AddRecord(ctx context.Context, r *domain.ExerciseRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise_records
		 (id, plan_name, start_time, end_time, duration_minutes, calories_burned, average_heart_rate, steps)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PlanName,
		r.StartTime.UTC().Format(time.RFC3339), r.EndTime.UTC().Format(time.RFC3339),
		r.DurationMinutes, r.CaloriesBurned, r.AverageHeartRate, r.Steps)
	if err != nil {
		return fmt.Errorf("inserting exercise record: %w", err)
	}
	return nil
}

// ListRecords returns records newest first, at most limit (0 = all).
func (s *ExerciseStore) ListRecords(ctx context.Context, limit int) ([]domain.ExerciseRecord, error) {
	query := `SELECT id, plan_name, start_time, end_time, duration_minutes, calories_burned, average_heart_rate, steps
		FROM exercise_records ORDER BY start_time DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing exercise records: %w", err)
	}
	defer rows.Close()

	var records []domain.ExerciseRecord
	for rows.Next() {
		var r domain.ExerciseRecord
		var start, end string
		if err := rows.Scan(&r.ID, &r.PlanName, &start, &end,
			&r.DurationMinutes, &r.CaloriesBurned, &r.AverageHeartRate, &r.Steps); err != nil {
			return nil, fmt.Errorf("scanning exercise record: %w", err)
		}
		r.StartTime, _ = time.Parse(time.RFC3339, start)
		r.EndTime, _ = time.Parse(time.RFC3339, end)
		records = append(records, r)
	}
	return records, rows.Err()
}
