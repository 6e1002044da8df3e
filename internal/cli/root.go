package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "pulse" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pulse",
		Short:         "Personal health tracker: metrics, sleep, exercise, nutrition and an AI coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProfileCmd(app),
		newTipCmd(app),
		newMetricsCmd(app),
		newAggregatesCmd(app),
		newSleepCmd(app),
		newExerciseCmd(app),
		newMeditateCmd(app),
		newStressCmd(app),
		newMoodCmd(app),
		newChatCmd(app),
		newImportCmd(app),
		newNewsCmd(app),
		newNutritionCmd(app),
		newFoodCmd(app),
		newASRCmd(app),
		newPrefsCmd(app),
	)

	return root
}
