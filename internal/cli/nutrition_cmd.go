package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/nutrition"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var mealAliases = map[string]domain.MealType{
	"breakfast": domain.MealBreakfast,
	"lunch":     domain.MealLunch,
	"dinner":    domain.MealDinner,
	"snack":     domain.MealSnack,
}

// parseMealType accepts the stored names and English aliases. An empty
// string lets the meal type follow the time of day.
func parseMealType(s string) (domain.MealType, error) {
	switch t := domain.MealType(s); t {
	case "", domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack:
		return t, nil
	}
	if t, ok := mealAliases[strings.ToLower(s)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("未知餐次 %q", s)
}

func newNutritionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nutrition",
		Aliases: []string{"diet"},
		Short:   "Meals, water and nutrition advice",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Nutrition.Load(context.Background()); err != nil {
				return failure(app.Nutrition, err)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newMealCmd(app),
		newMealsCmd(app),
		newNutritionTotalsCmd(app),
		newNutritionAdviseCmd(app),
		newWaterCmd(app),
		newTargetsCmd(app),
		newFoodsCmd(app),
	)

	return cmd
}

func newMealCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Record meals",
	}

	var in nutrition.MealInput
	var typ, photo string
	var estimate bool

	add := &cobra.Command{
		Use:   "add",
		Short: "Record a meal eaten now",
		Long: "Records a meal from --foods and the nutrient flags. With --estimate the\n" +
			"nutrients come from the nutrition model; with --photo the foods are\n" +
			"recognized from an image.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			t, err := parseMealType(typ)
			if err != nil {
				return err
			}
			in.Type = t

			switch {
			case photo != "":
				raw, err := os.ReadFile(photo)
				if err != nil {
					return fmt.Errorf("reading photo: %w", err)
				}
				if in, err = app.Nutrition.Recognize(ctx, t, base64.StdEncoding.EncodeToString(raw)); err != nil {
					return failure(app.Nutrition, err)
				}
				fmt.Fprintln(out, formatter.FormatMealInput(in))
			case estimate:
				if in, err = app.Nutrition.Estimate(ctx, t, in.Foods); err != nil {
					return failure(app.Nutrition, err)
				}
				fmt.Fprintln(out, formatter.FormatMealInput(in))
			}

			meal, err := app.Nutrition.AddMeal(ctx, in)
			if err != nil {
				return failure(app.Nutrition, err)
			}
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("已记录%s：%s（%d kcal）",
				meal.Type, strings.Join(meal.Foods, "、"), meal.Calories)))
			return nil
		},
	}
	add.Flags().StringVar(&typ, "type", "", "早餐/午餐/晚餐/加餐 or breakfast/lunch/dinner/snack (default: by time of day)")
	add.Flags().StringVar(&in.Foods, "foods", "", "Foods, separated by commas or 、")
	add.Flags().IntVar(&in.Calories, "calories", 0, "Calories (kcal)")
	add.Flags().Float64Var(&in.ProteinG, "protein", 0, "Protein (g)")
	add.Flags().Float64Var(&in.CarbsG, "carbs", 0, "Carbohydrates (g)")
	add.Flags().Float64Var(&in.FatG, "fat", 0, "Fat (g)")
	add.Flags().Float64Var(&in.FiberG, "fiber", 0, "Dietary fiber (g)")
	add.Flags().BoolVar(&estimate, "estimate", false, "Estimate calories and nutrients from --foods")
	add.Flags().StringVar(&photo, "photo", "", "Recognize foods from this image")
	add.MarkFlagsMutuallyExclusive("estimate", "photo")

	cmd.AddCommand(add)
	return cmd
}

func newMealsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "meals",
		Short: "List today's meals",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMeals(app.Nutrition.Today()))
			return nil
		},
	}
}

func newNutritionTotalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Today's intake against your targets, with suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := app.Nutrition
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNutritionSummary(n.Totals(), n.Targets(), n.Cups(), n.Suggestions()))
			return nil
		},
	}
}

func newNutritionAdviseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advise",
		Short: "Ask the nutrition model about today's intake",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "分析中…")
			}
			advice, err := app.Nutrition.Advise(context.Background())
			stop()
			if err != nil {
				return failure(app.Nutrition, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("营养建议", advice))
			return nil
		},
	}
}

func newWaterCmd(app *App) *cobra.Command {
	show := func(cmd *cobra.Command, cups int) {
		maxCups := nutrition.MaxCups(app.Nutrition.Targets().WaterMl)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.RenderCups(cups, maxCups),
			formatter.Dim(fmt.Sprintf("%d/%d 杯", cups, maxCups)))
	}
	update := func(change func(ctx context.Context) (int, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cups, err := change(context.Background())
			if err != nil {
				return failure(app.Nutrition, err)
			}
			show(cmd, cups)
			return nil
		}
	}

	cmd := &cobra.Command{
		Use:   "water",
		Short: fmt.Sprintf("Track water in %d ml cups", nutrition.CupMl),
		RunE: func(cmd *cobra.Command, args []string) error {
			show(cmd, app.Nutrition.Cups())
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add",
			Short: "Drink one cup",
			RunE:  update(app.Nutrition.AddCup),
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Undo one cup",
			RunE:  update(app.Nutrition.RemoveCup),
		},
		&cobra.Command{
			Use:   "set <cups>",
			Short: "Set today's cup count",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("杯数必须是整数: %q", args[0])
				}
				return update(func(ctx context.Context) (int, error) {
					return app.Nutrition.SetCups(ctx, n)
				})(cmd, args)
			},
		},
	)

	return cmd
}

func newTargetsCmd(app *App) *cobra.Command {
	var t domain.NutritionTargets

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Show or change daily nutrition targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cur := app.Nutrition.Targets()
			flags := cmd.Flags()
			if flags.NFlag() > 0 {
				next := cur
				flags.Visit(func(f *pflag.Flag) {
					switch f.Name {
					case "calories":
						next.Calories = t.Calories
					case "protein":
						next.Protein = t.Protein
					case "carbs":
						next.Carbs = t.Carbs
					case "fat":
						next.Fat = t.Fat
					case "fiber":
						next.Fiber = t.Fiber
					case "water":
						next.WaterMl = t.WaterMl
					}
				})
				if err := app.Nutrition.SetTargets(context.Background(), next); err != nil {
					return failure(app.Nutrition, err)
				}
				cur = next
			}
			rows := [][]string{
				{"热量", fmt.Sprintf("%d kcal", cur.Calories)},
				{domain.NutrientProtein, nutrition.FormatGrams(cur.Protein)},
				{domain.NutrientCarbs, nutrition.FormatGrams(cur.Carbs)},
				{domain.NutrientFat, nutrition.FormatGrams(cur.Fat)},
				{domain.NutrientFiber, nutrition.FormatGrams(cur.Fiber)},
				{"饮水", fmt.Sprintf("%d ml", cur.WaterMl)},
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"目标", "每日"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&t.Calories, "calories", 0, "Calories (kcal)")
	cmd.Flags().Float64Var(&t.Protein, "protein", 0, "Protein (g)")
	cmd.Flags().Float64Var(&t.Carbs, "carbs", 0, "Carbohydrates (g)")
	cmd.Flags().Float64Var(&t.Fat, "fat", 0, "Fat (g)")
	cmd.Flags().Float64Var(&t.Fiber, "fiber", 0, "Dietary fiber (g)")
	cmd.Flags().IntVar(&t.WaterMl, "water", 0, "Water (ml)")

	return cmd
}

func newFoodsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "foods",
		Short: "Recently eaten foods",
		RunE: func(cmd *cobra.Command, args []string) error {
			foods, err := app.Nutrition.FoodHistory(context.Background())
			if err != nil {
				return failure(app.Nutrition, err)
			}
			out := cmd.OutOrStdout()
			if len(foods) == 0 {
				fmt.Fprintln(out, formatter.Dim("暂无记录"))
				return nil
			}
			fmt.Fprintln(out, strings.Join(foods, "、"))
			return nil
		},
	}
}
