package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/google/uuid"
)

var planCounter atomic.Int64

// Meal options
type MealOption func(*domain.Meal)

func WithCalories(c int) MealOption {
	return func(m *domain.Meal) {
		m.Calories = c
	}
}

func WithNutrient(key, value string) MealOption {
	return func(m *domain.Meal) {
		if m.Nutrients == nil {
			m.Nutrients = map[string]string{}
		}
		m.Nutrients[key] = value
	}
}

func WithMealType(t domain.MealType) MealOption {
	return func(m *domain.Meal) {
		m.Type = t
	}
}

func WithCreatedAt(at time.Time) MealOption {
	return func(m *domain.Meal) {
		m.CreatedAt = at
	}
}

func NewTestMeal(foods []string, opts ...MealOption) *domain.Meal {
	m := &domain.Meal{
		ID:        uuid.New().String(),
		Type:      domain.MealLunch,
		Time:      "12:00",
		Foods:     foods,
		Calories:  500,
		Nutrients: map[string]string{},
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Exercise plan options
type PlanOption func(*domain.ExercisePlan)

func WithPlanCalories(c int) PlanOption {
	return func(p *domain.ExercisePlan) {
		p.Calories = c
	}
}

func WithPlanDuration(min int) PlanOption {
	return func(p *domain.ExercisePlan) {
		p.DurationMinutes = min
	}
}

func NewTestPlan(name string, opts ...PlanOption) *domain.ExercisePlan {
	if name == "" {
		name = fmt.Sprintf("plan-%d", planCounter.Add(1))
	}
	p := &domain.ExercisePlan{
		Name:            name,
		DurationMinutes: 30,
		Calories:        250,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestNews builds a news row; created is the creation timestamp.
func NewTestNews(title, url string, created time.Time) domain.NewsItem {
	return domain.NewsItem{
		NewsDate:  created.Format("2006-01-02"),
		Title:     title,
		URL:       url,
		Source:    "wire",
		CreatedAt: created.UTC().Format(time.RFC3339Nano),
	}
}

// FixedClock returns a clock that advances by step on every call.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		i := n.Add(1) - 1
		return start.Add(time.Duration(i) * step)
	}
}
