package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/loadout/internal/engine"
	"github.com/danieljhkim/loadout/internal/tui"
)

var (
	resolveAuto           bool
	resolveNonInteractive bool
	resolveDryRun         bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [profile-id]",
	Short: "Resolve a profile's conflicts",
	Long: `Resolve the conflicts of a profile one decision at a time.

Each conflict is shown with the ways it can be settled; the chosen addons
are detached from the profile. Cancelling keeps the decisions made so far.

  --auto             take the first choice for every conflict
  --non-interactive  fail on the first conflict instead of prompting
  --dry-run          show the outcome without saving the profile`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		req := &engine.ResolveRequest{DryRun: resolveDryRun}
		if len(args) == 1 {
			req.Profile = args[0]
		}

		result, runErr := env.engine.Resolve(cmd.Context(), req, selectPrompter(cmd, env))
		if result == nil {
			return runErr
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			output := map[string]any{
				"success": runErr == nil,
				"result":  result,
			}
			if runErr != nil {
				output["error"] = runErr.Error()
			}
			if err := outputJSON(out, output); err != nil {
				return err
			}
			return runErr
		}

		printResolveResult(out, result, resolveDryRun)
		return runErr
	},
}

// selectPrompter picks how decisions are made from the flags and settings.
func selectPrompter(cmd *cobra.Command, env *environment) engine.Prompter {
	switch {
	case resolveAuto:
		return engine.FirstChoice
	case resolveNonInteractive, !env.settings.Interactive:
		return engine.NonInteractive
	default:
		return tui.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
}

func printResolveResult(out io.Writer, result *engine.ResolveResult, dryRun bool) {
	title := fmt.Sprintf("Resolve: %s", result.Profile)
	if dryRun {
		title = fmt.Sprintf("Dry Run: Resolve %s", result.Profile)
	}
	PrintSection(out, title)

	PrintLabelValue(out, "State", result.State)
	PrintLabelValue(out, "Decisions", fmt.Sprint(result.Decisions))
	PrintLabelList(out, "Detached", result.Detached)
	printOverrides(out, result.Overrides)

	switch {
	case result.Saved:
		PrintSuccess(out, "Profile saved")
	case dryRun && len(result.Detached) > 0:
		PrintWarning(out, "Run without --dry-run to save these changes")
	}

	if len(result.Addons) > 0 {
		PrintSection(out, "Launch order")
		PrintNumberedList(out, result.Addons, 1)
	}
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveAuto, "auto", false, "Take the first choice for every conflict")
	resolveCmd.Flags().BoolVar(&resolveNonInteractive, "non-interactive", false, "Fail instead of prompting")
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "Do not save the profile")
	resolveCmd.MarkFlagsMutuallyExclusive("auto", "non-interactive")
}
