package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/state"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newMeditateCmd(app *App) *cobra.Command {
	var target time.Duration

	cmd := &cobra.Command{
		Use:   "meditate",
		Short: "Guided breathing with a timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds := int(target / time.Second)
			tr := app.Mental.StartMeditation(seconds)

			live := liveSession{
				title:   "冥想",
				tracker: tr,
				status: func() string {
					return formatter.FormatMeditationLive(tr.Snapshot(), seconds)
				},
				done: tr.Done,
			}
			if seconds > 0 {
				live.progress = func() float64 {
					return float64(tr.Snapshot().Seconds) / float64(seconds)
				}
			}
			if err := runLive(cmd, app, live, 0); err != nil {
				return err
			}

			rec, err := app.Mental.StopMeditation(context.Background())
			if err != nil {
				return failure(app.Mental, err)
			}
			out := cmd.OutOrStdout()
			if rec.DurationSeconds <= 0 {
				fmt.Fprintln(out, formatter.Dim("冥想时间过短，未保存"))
				return nil
			}
			msg := fmt.Sprintf("冥想 %s", formatter.FormatClock(rec.DurationSeconds))
			if rec.Completed {
				fmt.Fprintln(out, formatter.Success(msg+"，已完成目标"))
			} else {
				fmt.Fprintln(out, formatter.StyleYellow.Render(msg+"，未达到目标"))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&target, "duration", 5*time.Minute, "Target length; 0 runs until stopped")

	return cmd
}

func newStressCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "stress <level>",
		Short: fmt.Sprintf("Record a stress level from %d to %d", state.StressMin, state.StressMax),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("压力分值必须是整数: %q", args[0])
			}
			advice, err := app.Mental.AssessStress(context.Background(), level, note)
			if err != nil {
				return failure(app.Mental, err)
			}
			out := cmd.OutOrStdout()
			status := state.StressStatus(float64(level))
			fmt.Fprintf(out, "%s %s\n", formatter.StressStyle(float64(level)).Render(fmt.Sprintf("%d/10", level)), status)
			for _, a := range advice {
				fmt.Fprintln(out, "  • "+a)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "What's on your mind")

	return cmd
}

func newMoodCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "mood [mood]",
		Short: "Log how you feel (" + strings.Join(state.Moods, "/") + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mood string
			if len(args) == 1 {
				mood = args[0]
			} else if app.interactive() {
				opts := huh.NewOptions(state.Moods...)
				if err := runForm(huh.NewSelect[string]().Title("现在的心情").Options(opts...).Value(&mood)); err != nil {
					return err
				}
			}
			if err := app.Mental.LogMood(context.Background(), mood, note); err != nil {
				return failure(app.Mental, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("已记录心情：%s（%d 分）", mood, state.MoodScore(mood))))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Optional note")

	return cmd
}
