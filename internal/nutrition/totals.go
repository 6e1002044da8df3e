// Package nutrition computes daily meal totals, rule-based suggestions and
// AI-generated advice.
package nutrition

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/pulse/internal/domain"
)

// ParseGrams reads a nutrient value such as "12g" or " 3.5G ". Anything
// that does not parse counts as zero.
func ParseGrams(s string) float64 {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "g")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatGrams renders a gram amount the way meals store it.
func FormatGrams(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64) + "g"
}

// Totals sums calories and each known nutrient independently.
func Totals(meals []domain.Meal) domain.NutrientTotals {
	var t domain.NutrientTotals
	for _, m := range meals {
		t.Calories += m.Calories
		for k, v := range m.Nutrients {
			g := ParseGrams(v)
			switch k {
			case domain.NutrientFiber:
				t.Fiber += g
			case domain.NutrientCarbs:
				t.Carbs += g
			case domain.NutrientFat:
				t.Fat += g
			case domain.NutrientProtein:
				t.Protein += g
			}
		}
	}
	return t
}

// MealInput is what a user enters for one meal. Zero nutrient amounts are
// left out of the stored map.
type MealInput struct {
	Type     domain.MealType
	Foods    string
	Calories int
	FiberG   float64
	CarbsG   float64
	FatG     float64
	ProteinG float64
}

var (
	mealValidate = validator.New(validator.WithRequiredStructEnabled())
	foodSep      = regexp.MustCompile(`[,，、;；]+`)
)

// SplitFoods splits a free-text food list on Chinese and ASCII separators.
func SplitFoods(s string) []string {
	var out []string
	for _, f := range foodSep.Split(s, -1) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// NewMeal builds a validated meal stamped with the "HH:mm" of now.
func NewMeal(in MealInput, now time.Time) (domain.Meal, error) {
	if in.Type == "" {
		in.Type = MealTypeAt(now)
	}
	m := domain.Meal{
		Type:      in.Type,
		Time:      now.Format("15:04"),
		Foods:     SplitFoods(in.Foods),
		Calories:  in.Calories,
		Nutrients: map[string]string{},
	}
	for key, g := range map[string]float64{
		domain.NutrientFiber:   in.FiberG,
		domain.NutrientCarbs:   in.CarbsG,
		domain.NutrientFat:     in.FatG,
		domain.NutrientProtein: in.ProteinG,
	} {
		if g > 0 {
			m.Nutrients[key] = FormatGrams(g)
		}
	}
	if err := mealValidate.Struct(m); err != nil {
		return domain.Meal{}, fmt.Errorf("invalid meal: %w", err)
	}
	return m, nil
}

// MealTypeAt guesses the meal from the hour of day.
func MealTypeAt(t time.Time) domain.MealType {
	switch h := t.Hour(); {
	case h >= 5 && h < 10:
		return domain.MealBreakfast
	case h >= 10 && h < 15:
		return domain.MealLunch
	case h >= 17 && h < 21:
		return domain.MealDinner
	default:
		return domain.MealSnack
	}
}
