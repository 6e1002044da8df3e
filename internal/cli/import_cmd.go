package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/spf13/cobra"
)

func importTypeNames() string {
	names := make([]string, len(domain.ValidImportTypes))
	for i, t := range domain.ValidImportTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func newImportCmd(app *App) *cobra.Command {
	var typ string
	var save, rpa bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Preview a CSV or JSON export, then optionally save it",
		Long: "Parses a CSV or JSON file into records of one type and shows a preview.\n" +
			"With --save the valid rows are written and an import job is recorded;\n" +
			"with --rpa they are handed to the configured automation webhook.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			t, ok := domain.ParseImportType(typ)
			if !ok {
				return fmt.Errorf("未知类型 %q，可选：%s", typ, importTypeNames())
			}
			if err := app.Imports.Load(ctx, args[0], t); err != nil {
				return failure(app.Imports, err)
			}
			fmt.Fprint(out, formatter.FormatPreview(app.Imports.Preview()))

			if save {
				saved, jobID, err := app.Imports.Save(ctx)
				if err != nil {
					return failure(app.Imports, err)
				}
				fmt.Fprintln(out, formatter.Success(fmt.Sprintf("已导入 %d 条（任务 #%d）", saved, jobID)))
			}
			if rpa {
				if err := app.Imports.TriggerRPA(ctx); err != nil {
					return failure(app.Imports, err)
				}
				fmt.Fprintln(out, formatter.Success(app.Imports.Status()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Record type ("+importTypeNames()+")")
	cmd.Flags().BoolVar(&save, "save", false, "Save the valid rows")
	cmd.Flags().BoolVar(&rpa, "rpa", false, "Send the valid rows to the automation webhook")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
