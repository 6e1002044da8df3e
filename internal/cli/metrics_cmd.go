package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/state"
	"github.com/spf13/cobra"
)

func newMetricsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show and record health metrics",
	}

	cmd.AddCommand(
		newMetricsShowCmd(app),
		newMetricsAddCmd(app),
	)

	return cmd
}

func newMetricsShowCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the dashboard for the last N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			// Server totals are not shown here, so only a bad range fails.
			if err := app.Metrics.SetRange(ctx, days); errors.Is(err, state.ErrInvalidInput) {
				return failure(app.Metrics, err)
			}
			// Partial failures still render whatever loaded.
			if err := app.Metrics.LoadAll(ctx); err != nil {
				fmt.Fprintln(out, formatter.Error(app.Metrics.LastError()))
			}

			fmt.Fprintln(out, formatter.FormatMetrics(app.Metrics.View(), app.Metrics.Range()))

			data := app.Metrics.Data()
			secs, mins := app.Metrics.MeditationTotals()
			avg := app.Metrics.AverageStress()
			fmt.Fprintln(out, formatter.FormatMentalSummary(secs, mins, avg,
				state.WeeklyMoodAverage(data.Moods), state.StressStatus(avg)))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatRecent(app.Metrics.RecentRecords()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "range", state.DefaultRange, "Days to chart (7, 14 or 30)")

	return cmd
}

// addableKinds are the metrics "metrics add" records directly; meditation
// and stress have their own commands.
var addableKinds = []domain.MetricKind{
	domain.MetricHeartRate, domain.MetricSteps, domain.MetricWeight,
	domain.MetricWater, domain.MetricSleep, domain.MetricMood,
}

func kindNames(kinds []domain.MetricKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func newMetricsAddCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add <kind> <value>",
		Short: "Record one sample (" + kindNames(addableKinds) + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			kind, value := domain.MetricKind(args[0]), args[1]

			var err error
			switch kind {
			case domain.MetricHeartRate, domain.MetricSteps, domain.MetricWater:
				n, convErr := strconv.Atoi(value)
				if convErr != nil {
					return fmt.Errorf("%s 需要整数: %q", kind, value)
				}
				switch kind {
				case domain.MetricHeartRate:
					err = app.Metrics.AddHeartRate(ctx, n)
				case domain.MetricSteps:
					err = app.Metrics.AddSteps(ctx, n)
				default:
					err = app.Metrics.AddWater(ctx, n)
				}
			case domain.MetricWeight, domain.MetricSleep:
				f, convErr := strconv.ParseFloat(value, 64)
				if convErr != nil {
					return fmt.Errorf("%s 需要数字: %q", kind, value)
				}
				if kind == domain.MetricWeight {
					err = app.Metrics.AddWeight(ctx, f)
				} else {
					err = app.Metrics.AddSleep(ctx, f)
				}
			case domain.MetricMood:
				score := state.MoodScore(value)
				err = app.Metrics.AddMood(ctx, value, note, &score)
			case domain.MetricMeditation:
				return errors.New("请使用 pulse meditate 记录冥想")
			case domain.MetricStress:
				return errors.New("请使用 pulse stress <level> 记录压力")
			default:
				return fmt.Errorf("未知指标 %q，可选：%s", kind, kindNames(addableKinds))
			}
			if err != nil {
				return failure(app.Metrics, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("已记录"))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note for mood entries")

	return cmd
}

func newAggregatesCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "aggregates",
		Short: "Server-computed totals for the last N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Metrics.SetRange(context.Background(), days); err != nil {
				return failure(app.Metrics, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAggregates(app.Metrics.Aggregates()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "range", state.DefaultRange, "Days to total (7, 14 or 30)")

	return cmd
}
