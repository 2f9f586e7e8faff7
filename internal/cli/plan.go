package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/loadout/internal/engine"
)

var planCmd = &cobra.Command{
	Use:   "plan [profile-id]",
	Short: "Check a profile for conflicts",
	Long: `Check the addons a profile would launch with for conflicts, without
changing anything.

A conflict-free profile prints its final load order. Otherwise the first
class of conflicts found is listed and the command fails; run
'loadout resolve' to settle them. Without a profile id the Defaults profile
is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		profileID := ""
		if len(args) == 1 {
			profileID = args[0]
		}
		plan, err := env.engine.Plan(cmd.Context(), profileID)
		if err != nil {
			return err
		}
		info := engine.NewPlanInfo(plan)

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := outputJSON(out, info); err != nil {
				return err
			}
		} else {
			printPlan(out, info)
		}

		if plan.HasConflicts() {
			return fmt.Errorf("%w: %s in %s",
				engine.ErrConflict, PrintCount(len(plan.Conflicts), "conflict", "conflicts"), plan.Profile)
		}
		return nil
	},
}

func printPlan(out io.Writer, info engine.PlanInfo) {
	PrintSection(out, fmt.Sprintf("Plan: %s", info.Profile))

	if len(info.Conflicts) > 0 {
		PrintWarning(out, fmt.Sprintf("%s at stage %s",
			PrintCount(len(info.Conflicts), "conflict", "conflicts"), info.Stage))
		for _, c := range info.Conflicts {
			PrintInfo(out, "  - "+c.Description)
		}
		_, _ = fmt.Fprintln(out)
		PrintInfo(out, "Run 'loadout resolve' to choose how to settle them.")
		return
	}

	printOverrides(out, info.Overrides)
	if len(info.Addons) == 0 {
		PrintEmptyState(out, "No addons")
		return
	}
	PrintSuccess(out, "No conflicts")
	PrintNumberedList(out, info.Addons, 1)
}

func printOverrides(out io.Writer, overrides []engine.OverrideInfo) {
	for _, o := range overrides {
		verb := "provides"
		if o.Offered {
			verb = "offers"
		}
		PrintInfo(out, dimColor.Sprintf("  %s replaces %s (%s %s)", o.Winner, o.Loser, verb, o.Keyword))
	}
}
