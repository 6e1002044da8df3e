package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/pulse/internal/db"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/google/uuid"
)

// FoodHistoryLimit is the number of recent foods remembered.
const FoodHistoryLimit = 10

// MealStore persists meals and the recent-foods list. Add writes both in a
// single transaction.
type MealStore struct {
	db  db.DBTX
	uow db.UnitOfWork
	now func() time.Time
}

func NewMealStore(d db.DBTX, uow db.UnitOfWork) *MealStore {
	return &MealStore{db: d, uow: uow, now: time.Now}
}

func (s *MealStore) Add(ctx context.Context, m *domain.Meal) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now().UTC()
	}
	foods, err := json.Marshal(m.Foods)
	if err != nil {
		return fmt.Errorf("encoding foods: %w", err)
	}
	nutrients := m.Nutrients
	if nutrients == nil {
		nutrients = map[string]string{}
	}
	nut, err := json.Marshal(nutrients)
	if err != nil {
		return fmt.Errorf("encoding nutrients: %w", err)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meals (id, meal_type, meal_time, foods, calories, nutrients, meal_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, string(m.Type), m.Time, string(foods), m.Calories, string(nut),
			m.CreatedAt.Local().Format("2006-01-02"), m.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("inserting meal: %w", err)
		}
		for _, f := range m.Foods {
			if err := touchFood(ctx, tx, f, m.CreatedAt); err != nil {
				return err
			}
		}
		return trimFoodHistory(ctx, tx)
	})
}

// ListByDate returns meals for a local calendar day in insertion order.
func (s *MealStore) ListByDate(ctx context.Context, day time.Time) ([]domain.Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meal_type, meal_time, foods, calories, nutrients, created_at
		 FROM meals WHERE meal_date = ? ORDER BY created_at`,
		day.Local().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var m domain.Meal
		var mealType, foods, nut, created string
		if err := rows.Scan(&m.ID, &mealType, &m.Time, &foods, &m.Calories, &nut, &created); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		m.Type = domain.MealType(mealType)
		if err := json.Unmarshal([]byte(foods), &m.Foods); err != nil {
			return nil, fmt.Errorf("decoding foods for meal %s: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(nut), &m.Nutrients); err != nil {
			return nil, fmt.Errorf("decoding nutrients for meal %s: %w", m.ID, err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// FoodHistory returns recently used foods, most recent first.
func (s *MealStore) FoodHistory(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT food FROM food_history ORDER BY used_at DESC, rowid DESC LIMIT ?`, FoodHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("listing food history: %w", err)
	}
	defer rows.Close()

	var foods []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scanning food history: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func touchFood(ctx context.Context, tx db.DBTX, food string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO food_history (food, used_at) VALUES (?, ?)
		 ON CONFLICT(food) DO UPDATE SET used_at = excluded.used_at`,
		food, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording food %q: %w", food, err)
	}
	return nil
}

func trimFoodHistory(ctx context.Context, tx db.DBTX) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM food_history WHERE food NOT IN (
			SELECT food FROM food_history ORDER BY used_at DESC, rowid DESC LIMIT ?)`, FoodHistoryLimit)
	if err != nil {
		return fmt.Errorf("trimming food history: %w", err)
	}
	return nil
}
