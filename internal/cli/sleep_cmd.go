package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/spf13/cobra"
)

// sleepStages is the order the monitor cycles through, with a typical
// resting heart rate for each.
var sleepStages = []struct {
	stage domain.SleepStage
	bpm   int
}{
	{domain.StageLight, 58},
	{domain.StageDeep, 52},
	{domain.StageREM, 66},
	{domain.StageAwake, 72},
}

func newSleepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Monitor a night's sleep",
	}

	cmd.AddCommand(
		newSleepMonitorCmd(app),
		newSleepStagesCmd(),
	)

	return cmd
}

func newSleepMonitorCmd(app *App) *cobra.Command {
	var limit time.Duration

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Track sleep until stopped, then save the night",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Sleep.Tracker()
			app.Sleep.Start()

			stage := 0
			live := liveSession{
				title:   "睡眠监测",
				tracker: tr,
				status:  func() string { return formatter.FormatSleepLive(tr.Snapshot()) },
				next: func() {
					stage = (stage + 1) % len(sleepStages)
					app.Sleep.UpdateStage(sleepStages[stage].stage, sleepStages[stage].bpm)
				},
			}
			if err := runLive(cmd, app, live, limit); err != nil {
				return err
			}

			data, err := app.Sleep.Stop(context.Background())
			if err != nil {
				return failure(app.Sleep, err)
			}
			out := cmd.OutOrStdout()
			if data.Hours <= 0 {
				fmt.Fprintln(out, formatter.Dim("睡眠时间过短，未保存"))
				return nil
			}
			fmt.Fprintln(out, formatter.FormatSleepReport(data))
			return nil
		},
	}

	cmd.Flags().DurationVar(&limit, "for", 0, "Stop automatically after this long (e.g. 8h)")

	return cmd
}

func newSleepStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the sleep stages the monitor cycles through",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(sleepStages))
			for _, s := range sleepStages {
				rows = append(rows, []string{string(s.stage), fmt.Sprintf("%d bpm", s.bpm)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"阶段", "参考心率"}, rows))
			return nil
		},
	}
}
