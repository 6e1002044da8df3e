package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/nutrition"
)

const goalBarWidth = 16

// FormatMeals lists meals in the order they were logged.
func FormatMeals(meals []domain.Meal) string {
	if len(meals) == 0 {
		return Dim("今天还没有记录餐食")
	}
	rows := make([][]string, 0, len(meals))
	for _, m := range meals {
		rows = append(rows, []string{
			m.Time,
			string(m.Type),
			Truncate(strings.Join(m.Foods, "、"), 24),
			StyleYellow.Render(strconv.Itoa(m.Calories)),
			Dim(nutrientSummary(m.Nutrients)),
		})
	}
	return RenderTable([]string{"时间", "餐次", "食物", "热量", "营养素"}, rows)
}

func nutrientSummary(n map[string]string) string {
	var parts []string
	for _, k := range []string{domain.NutrientProtein, domain.NutrientCarbs, domain.NutrientFat, domain.NutrientFiber} {
		if v, ok := n[k]; ok {
			parts = append(parts, k+" "+v)
		}
	}
	return strings.Join(parts, " ")
}

// FormatNutritionSummary renders progress toward each daily target, the
// water cups and the rule-based suggestions.
func FormatNutritionSummary(t domain.NutrientTotals, targets domain.NutritionTargets, cups int, suggestions []string) string {
	var b strings.Builder
	goals := []struct {
		label  string
		value  float64
		target float64
		unit   string
	}{
		{"热量", float64(t.Calories), float64(targets.Calories), "kcal"},
		{"蛋白", t.Protein, targets.Protein, "g"},
		{"碳水", t.Carbs, targets.Carbs, "g"},
		{"脂肪", t.Fat, targets.Fat, "g"},
		{"纤维", t.Fiber, targets.Fiber, "g"},
	}
	for _, g := range goals {
		fmt.Fprintf(&b, "%s  %s\n", g.label, RenderGoal(g.value, g.target, g.unit, goalBarWidth))
	}
	maxCups := nutrition.MaxCups(targets.WaterMl)
	fmt.Fprintf(&b, "饮水  %s %s\n", RenderCups(cups, maxCups),
		Dim(fmt.Sprintf("%d/%d ml", cups*nutrition.CupMl, targets.WaterMl)))

	if len(suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range suggestions {
			b.WriteString(StyleGreen.Render("› ") + s + "\n")
		}
	}
	return RenderBox("今日营养", strings.TrimRight(b.String(), "\n"))
}

// FormatMealInput previews an estimated or recognized meal before saving.
func FormatMealInput(in nutrition.MealInput) string {
	return fmt.Sprintf("%s %s  %s kcal  %s %s  %s %s  %s %s  %s %s",
		Bold(string(in.Type)), in.Foods,
		StyleYellow.Render(strconv.Itoa(in.Calories)),
		domain.NutrientProtein, nutrition.FormatGrams(in.ProteinG),
		domain.NutrientCarbs, nutrition.FormatGrams(in.CarbsG),
		domain.NutrientFat, nutrition.FormatGrams(in.FatG),
		domain.NutrientFiber, nutrition.FormatGrams(in.FiberG))
}

// FormatDishes lists image classifier candidates.
func FormatDishes(guesses []domain.DishGuess) string {
	if len(guesses) == 0 {
		return Dim("未识别到菜品")
	}
	rows := make([][]string, 0, len(guesses))
	for _, g := range guesses {
		cal := Dim("--")
		if g.HasCalorie {
			cal = fmt.Sprintf("%.0f", g.Calorie)
		}
		rows = append(rows, []string{g.Name, fmt.Sprintf("%.0f%%", g.Probability*100), cal})
	}
	return RenderTable([]string{"菜品", "置信度", "热量/100g"}, rows)
}
