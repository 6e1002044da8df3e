package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	var notifyAt string
	var enable, disable bool

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the daily reminder preference",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Prefs.Notifications(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().NFlag() > 0 {
				if notifyAt != "" {
					p.Time = notifyAt
				}
				if enable {
					p.Enabled = true
				}
				if disable {
					p.Enabled = false
				}
				if err := app.Prefs.SetNotifications(ctx, p); err != nil {
					return err
				}
			}

			status := formatter.Dim("关闭")
			if p.Enabled {
				status = formatter.StyleGreen.Render("开启")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "每日提醒  %s  %s\n", status, formatter.Bold(p.Time))
			return nil
		},
	}

	cmd.Flags().StringVar(&notifyAt, "time", "", "Reminder time, HH:mm")
	cmd.Flags().BoolVar(&enable, "on", false, "Enable the reminder")
	cmd.Flags().BoolVar(&disable, "off", false, "Disable the reminder")
	cmd.MarkFlagsMutuallyExclusive("on", "off")

	return cmd
}
