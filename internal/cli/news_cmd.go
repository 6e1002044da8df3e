package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Daily health news",
	}

	cmd.AddCommand(
		newNewsListCmd(app),
		newNewsIngestCmd(app),
		newNewsPurgeCmd(app),
	)

	return cmd
}

func newNewsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the latest news",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.News.Load(context.Background(), limit); err != nil {
				return failure(app.News, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNewsList(app.News.Items(), app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of items (default 20)")

	return cmd
}

func newNewsIngestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [feed-url...]",
		Short: "Fetch RSS feeds into the news table",
		RunE: func(cmd *cobra.Command, args []string) error {
			feeds := args
			if len(feeds) == 0 {
				feeds = app.Feeds
			}
			res, err := app.News.Ingest(context.Background(), feeds)
			if err != nil {
				return failure(app.News, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("%d 个订阅源：获取 %d 条，新增 %d 条，去重 %d 条",
				res.Feeds, res.Fetched, res.Inserted, res.Purged)))
			if len(res.Failed) > 0 {
				fmt.Fprintln(out, formatter.Error("失败："+strings.Join(res.Failed, ", ")))
			}
			return nil
		},
	}
}

func newNewsPurgeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete duplicate news rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.News.Purge(context.Background())
			if err != nil {
				return failure(app.News, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("已删除 %d 条重复资讯", n)))
			return nil
		},
	}
}
