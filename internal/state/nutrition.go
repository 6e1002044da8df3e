package state

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/nutrition"
)

type MealStore interface {
	Add(ctx context.Context, m *domain.Meal) error
	ListByDate(ctx context.Context, day time.Time) ([]domain.Meal, error)
	FoodHistory(ctx context.Context) ([]string, error)
}

type NutritionPrefs interface {
	WaterCups(ctx context.Context) (int, error)
	SetWaterCups(ctx context.Context, n int) error
	Targets(ctx context.Context) (domain.NutritionTargets, error)
	SetTargets(ctx context.Context, t domain.NutritionTargets) error
}

type NutritionAdvisor interface {
	Advise(ctx context.Context, t domain.NutrientTotals) (string, error)
	Estimate(ctx context.Context, foods []string) (nutrition.Estimate, error)
}

// FoodRecognizer identifies foods in a base64-encoded photo.
type FoodRecognizer interface {
	RecognizeFood(ctx context.Context, imageBase64 string) (domain.FoodRecognition, error)
}

// NutritionState tracks today's meals, water and targets.
type NutritionState struct {
	holder
	meals      MealStore
	prefs      NutritionPrefs
	advisor    NutritionAdvisor
	recognizer FoodRecognizer

	today   []domain.Meal
	targets domain.NutritionTargets
	cups    int
	advice  string
}

// NewNutritionState builds the holder. advisor and recognizer may be nil
// when no provider is configured.
func NewNutritionState(meals MealStore, prefs NutritionPrefs, advisor NutritionAdvisor, recognizer FoodRecognizer, opts Options) *NutritionState {
	s := &NutritionState{
		meals:      meals,
		prefs:      prefs,
		advisor:    advisor,
		recognizer: recognizer,
		targets:    domain.DefaultTargets(),
	}
	s.init(opts)
	return s
}

// Load reads today's meals, the water count and the targets.
func (s *NutritionState) Load(ctx context.Context) error {
	return s.run(ctx, "nutrition.load", func(ctx context.Context) error {
		meals, err := s.meals.ListByDate(ctx, s.now())
		if err != nil {
			return err
		}
		targets, err := s.prefs.Targets(ctx)
		if err != nil {
			return err
		}
		cups, err := s.prefs.WaterCups(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.today = meals
		s.targets = targets
		s.cups = nutrition.ClampCups(cups, targets.WaterMl)
		s.mu.Unlock()
		return nil
	})
}

func (s *NutritionState) Today() []domain.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.today
}

func (s *NutritionState) Targets() domain.NutritionTargets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets
}

func (s *NutritionState) Cups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cups
}

func (s *NutritionState) Advice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advice
}

func (s *NutritionState) Totals() domain.NutrientTotals {
	return nutrition.Totals(s.Today())
}

func (s *NutritionState) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nutrition.Suggestions(nutrition.Totals(s.today), s.targets, s.cups)
}

// AddMeal validates and stores a meal eaten now.
func (s *NutritionState) AddMeal(ctx context.Context, in nutrition.MealInput) (domain.Meal, error) {
	now := s.now()
	meal, err := nutrition.NewMeal(in, now)
	if err != nil {
		return meal, s.reject("请填写餐次与食物")
	}
	meal.CreatedAt = now
	err = s.run(ctx, "nutrition.add_meal", func(ctx context.Context) error {
		if err := s.meals.Add(ctx, &meal); err != nil {
			return err
		}
		s.mu.Lock()
		s.today = append(s.today, meal)
		s.mu.Unlock()
		return nil
	})
	return meal, err
}

// SetCups stores the water count clamped to the daily target.
func (s *NutritionState) SetCups(ctx context.Context, n int) (int, error) {
	n = nutrition.ClampCups(n, s.Targets().WaterMl)
	err := s.run(ctx, "nutrition.water", func(ctx context.Context) error {
		if err := s.prefs.SetWaterCups(ctx, n); err != nil {
			return err
		}
		s.mu.Lock()
		s.cups = n
		s.mu.Unlock()
		return nil
	})
	return s.Cups(), err
}

func (s *NutritionState) AddCup(ctx context.Context) (int, error) {
	return s.SetCups(ctx, s.Cups()+1)
}

func (s *NutritionState) RemoveCup(ctx context.Context) (int, error) {
	return s.SetCups(ctx, s.Cups()-1)
}

func (s *NutritionState) SetTargets(ctx context.Context, t domain.NutritionTargets) error {
	if t.Calories <= 0 || t.WaterMl <= 0 {
		return s.reject("目标值必须大于0")
	}
	return s.run(ctx, "nutrition.targets", func(ctx context.Context) error {
		if err := s.prefs.SetTargets(ctx, t); err != nil {
			return err
		}
		s.mu.Lock()
		s.targets = t
		s.cups = nutrition.ClampCups(s.cups, t.WaterMl)
		s.mu.Unlock()
		return nil
	})
}

// Advise asks the model about today's totals.
func (s *NutritionState) Advise(ctx context.Context) (string, error) {
	if s.advisor == nil {
		return "", s.reject(nutrition.AdviceFailed)
	}
	err := s.run(ctx, "nutrition.advise", func(ctx context.Context) error {
		text, err := s.advisor.Advise(ctx, s.Totals())
		if err != nil {
			s.setError(nutrition.AdviceFailed)
			return err
		}
		s.mu.Lock()
		s.advice = text
		s.mu.Unlock()
		return nil
	})
	return s.Advice(), err
}

// Estimate fills in nutrients for a food list using the model.
func (s *NutritionState) Estimate(ctx context.Context, t domain.MealType, foods string) (nutrition.MealInput, error) {
	list := nutrition.SplitFoods(foods)
	if len(list) == 0 {
		return nutrition.MealInput{}, s.reject("请填写食物")
	}
	if s.advisor == nil {
		return nutrition.MealInput{}, s.reject("未配置营养模型")
	}
	var in nutrition.MealInput
	err := s.run(ctx, "nutrition.estimate", func(ctx context.Context) error {
		est, err := s.advisor.Estimate(ctx, list)
		if err != nil {
			return err
		}
		in = est.Input(t, list)
		return nil
	})
	return in, err
}

// Recognize identifies foods in a photo and returns them as a meal draft.
func (s *NutritionState) Recognize(ctx context.Context, t domain.MealType, imageBase64 string) (nutrition.MealInput, error) {
	if s.recognizer == nil {
		return nutrition.MealInput{}, s.reject("未配置食物识别")
	}
	var in nutrition.MealInput
	err := s.run(ctx, "nutrition.recognize", func(ctx context.Context) error {
		rec, err := s.recognizer.RecognizeFood(ctx, imageBase64)
		if err != nil {
			return err
		}
		if len(rec.Foods) == 0 {
			s.setError("未识别到食物")
			return fmt.Errorf("recognizing food: nothing found")
		}
		in = nutrition.MealInput{
			Type:     t,
			Foods:    strings.Join(rec.Foods, "、"),
			Calories: int(math.Round(deref(rec.Calories))),
			FiberG:   deref(rec.FiberG),
			CarbsG:   deref(rec.CarbsG),
			FatG:     deref(rec.FatG),
			ProteinG: deref(rec.ProteinG),
		}
		return nil
	})
	return in, err
}

// FoodHistory lists recently eaten foods, most recent first.
func (s *NutritionState) FoodHistory(ctx context.Context) ([]string, error) {
	var foods []string
	err := s.run(ctx, "nutrition.history", func(ctx context.Context) error {
		var err error
		foods, err = s.meals.FoodHistory(ctx)
		return err
	})
	return foods, err
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

