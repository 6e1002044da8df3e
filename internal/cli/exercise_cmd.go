package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/spf13/cobra"
)

func newExerciseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Manage exercise plans and run workouts",
	}

	cmd.AddCommand(
		newExercisePlansCmd(app),
		newExercisePlanCmd(app),
		newExerciseRunCmd(app),
		newExerciseHistoryCmd(app),
	)

	return cmd
}

func newExercisePlansCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List exercise plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Exercise.Plans(context.Background())
			if err != nil {
				return failure(app.Exercise, err)
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				fmt.Fprintln(out, formatter.Dim("暂无运动计划"))
				return nil
			}
			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{
					p.Name,
					fmt.Sprintf("%d 分钟", p.DurationMinutes),
					strconv.Itoa(p.Calories),
					p.Intensity,
				})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"计划", "时长", "热量", "强度"}, rows))
			return nil
		},
	}
}

func newExercisePlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Add or remove an exercise plan",
	}

	var p domain.ExercisePlan
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an exercise plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := app.Exercise.AddPlan(context.Background(), p)
			if err != nil {
				return failure(app.Exercise, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("已添加计划 "+saved.Name))
			return nil
		},
	}
	add.Flags().StringVar(&p.Name, "name", "", "Plan name")
	add.Flags().IntVar(&p.DurationMinutes, "minutes", 0, "Duration in minutes")
	add.Flags().IntVar(&p.Calories, "calories", 0, "Expected calories burned")
	add.Flags().StringVar(&p.Intensity, "intensity", "中等", "Intensity label")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("minutes")

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an exercise plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Exercise.RemovePlan(context.Background(), args[0]); err != nil {
				return failure(app.Exercise, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("已删除计划 "+args[0]))
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newExerciseRunCmd(app *App) *cobra.Command {
	var limit time.Duration

	cmd := &cobra.Command{
		Use:   "run <plan>",
		Short: "Run a workout until the plan's duration is reached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			tr, err := app.Exercise.Start(ctx, args[0])
			if err != nil {
				return failure(app.Exercise, err)
			}
			target := tr.Snapshot().Plan.DurationMinutes * 60

			live := liveSession{
				title:   "运动中",
				tracker: tr,
				status:  func() string { return formatter.FormatExerciseLive(tr.Snapshot()) },
				progress: func() float64 {
					return float64(tr.Snapshot().ElapsedSeconds) / float64(target)
				},
				done: func() bool { return tr.Snapshot().ElapsedSeconds >= target },
				pause: func() {
					if tr.Snapshot().Paused {
						tr.Resume()
					} else {
						tr.Pause()
					}
				},
			}
			if err := runLive(cmd, app, live, limit); err != nil {
				return err
			}

			rec, err := app.Exercise.Stop(ctx)
			if err != nil {
				return failure(app.Exercise, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExerciseRecord(rec))
			return nil
		},
	}

	cmd.Flags().DurationVar(&limit, "for", 0, "Stop early after this long")

	return cmd
}

func newExerciseHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished workouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := app.Exercise.History(context.Background(), limit)
			if err != nil {
				return failure(app.Exercise, err)
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, formatter.Dim("暂无运动记录"))
				return nil
			}
			rows := make([][]string, 0, len(recs))
			for _, r := range recs {
				rows = append(rows, []string{
					r.StartTime.Format("01-02 15:04"),
					r.PlanName,
					fmt.Sprintf("%d 分钟", r.DurationMinutes),
					strconv.Itoa(r.CaloriesBurned),
					strconv.Itoa(r.AverageHeartRate),
					formatter.FormatNumber(r.Steps),
				})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"开始", "计划", "时长", "热量", "心率", "步数"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of workouts to show")

	return cmd
}
