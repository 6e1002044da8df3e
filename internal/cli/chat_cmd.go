package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the AI health assistant",
	}

	cmd.AddCommand(
		newChatAskCmd(app),
		newChatHistoryCmd(app),
		newChatClearCmd(app),
	)

	return cmd
}

func newChatAskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Send a message and stream the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			if err := app.Chat.Restore(ctx); err != nil {
				return failure(app.Chat, err)
			}

			stopSpinner := func() {}
			if app.interactive() {
				stopSpinner = formatter.StartSpinner(cmd.ErrOrStderr(), "思考中…")
			}
			var once sync.Once
			streamed := false
			reply, err := app.Chat.Send(ctx, strings.Join(args, " "), func(tok string) {
				once.Do(stopSpinner)
				streamed = true
				fmt.Fprint(out, tok)
			})
			once.Do(stopSpinner)
			if err != nil {
				return failure(app.Chat, err)
			}

			if streamed {
				fmt.Fprintln(out)
			} else {
				fmt.Fprintln(out, reply.Text)
			}
			fmt.Fprintln(out, formatter.SourceBadge(reply.Source))
			return nil
		},
	}
}

func newChatHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the saved conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Chat.Restore(context.Background()); err != nil {
				return failure(app.Chat, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChatHistory(app.Chat.Messages(), app.now()))
			return nil
		},
	}
}

func newChatClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Start a new conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Chat.Clear(context.Background()); err != nil {
				return failure(app.Chat, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("对话已清空"))
			return nil
		},
	}
}
