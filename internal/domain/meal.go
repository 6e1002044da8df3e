package domain

import "time"

// Nutrient keys used in Meal.Nutrients.
const (
	NutrientFiber   = "膳食纤维"
	NutrientCarbs   = "碳水"
	NutrientFat     = "脂肪"
	NutrientProtein = "蛋白"
)

// Meal records one eating occasion. Nutrient values are gram strings such
// as "12g".
type Meal struct {
	ID        string
	Type      MealType          `validate:"required"`
	Time      string            `validate:"required"`
	Foods     []string          `validate:"min=1,dive,required"`
	Calories  int               `validate:"gte=0"`
	Nutrients map[string]string
	CreatedAt time.Time
}

type NutrientTotals struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
}

type NutritionTargets struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	WaterMl  int
}

// DefaultTargets are the daily goals used when none are configured.
func DefaultTargets() NutritionTargets {
	return NutritionTargets{Calories: 2000, Protein: 60, Carbs: 250, Fat: 70, Fiber: 25, WaterMl: 2000}
}

// FoodRecognition is the result of recognizing foods in a photo.
type FoodRecognition struct {
	Foods    []string
	Calories *float64
	FiberG   *float64
	CarbsG   *float64
	FatG     *float64
	ProteinG *float64
}

// DishGuess is one candidate from an image classifier.
type DishGuess struct {
	Name        string
	Probability float64
	Calorie     float64
	HasCalorie  bool
}
