package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/loadout/internal/engine"
)

var profileCreateFrom string

// profileCmd is the parent command for profile management.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage game profiles",
	Long: `Manage game profiles and their addon attachments.

A profile uses the addons attached to it and to the Defaults profile, except
those attached to both.`,
}

var profileLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		result, err := env.engine.ListProfiles(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		PrintSection(out, "Profiles")
		rows := make([][]string, 0, len(result.Profiles))
		for _, p := range result.Profiles {
			updated := ""
			if !p.UpdatedAt.IsZero() {
				updated = p.UpdatedAt.Local().Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{p.ID, mark(p.Defaults), fmt.Sprint(p.Attached), updated})
		}
		PrintTable(out, []string{"ID", "Defaults", "Attached", "Updated"}, rows)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <profile-id>",
	Short: "Show a profile and the addons it launches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		details, err := env.engine.ShowProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, details)
		}
		printProfileDetails(out, details)
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <profile-id>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		info, err := env.engine.CreateProfile(cmd.Context(), &engine.CreateProfileRequest{
			ID:   args[0],
			From: profileCreateFrom,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, info)
		}
		msg := fmt.Sprintf("Created profile %s", info.ID)
		if profileCreateFrom != "" {
			msg += fmt.Sprintf(" from %s", profileCreateFrom)
		}
		PrintSuccess(out, msg)
		return nil
	},
}

var profileRmCmd = &cobra.Command{
	Use:   "rm <profile-id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		if err := env.engine.DeleteProfile(cmd.Context(), args[0]); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, map[string]any{"id": args[0], "deleted": true})
		}
		PrintSuccess(out, fmt.Sprintf("Deleted profile %s", args[0]))
		return nil
	},
}

var profileAttachCmd = &cobra.Command{
	Use:   "attach <profile-id> <addon-id>...",
	Short: "Attach addons to a profile",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditAddons(cmd, args, true)
	},
}

var profileDetachCmd = &cobra.Command{
	Use:   "detach <profile-id> <addon-id>...",
	Short: "Detach addons from a profile",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditAddons(cmd, args, false)
	},
}

func runEditAddons(cmd *cobra.Command, args []string, attach bool) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	req := &engine.EditAddonsRequest{Profile: args[0], Addons: args[1:]}
	var result *engine.EditAddonsResult
	if attach {
		result, err = env.engine.Attach(cmd.Context(), req)
	} else {
		result, err = env.engine.Detach(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, result)
	}

	verb := "Detached"
	if attach {
		verb = "Attached"
	}
	if len(result.Changed) > 0 {
		PrintSuccess(out, fmt.Sprintf("%s %s: %s", verb,
			PrintCount(len(result.Changed), "addon", "addons"),
			strings.Join(result.Changed, ", ")))
	}
	if len(result.Unchanged) > 0 {
		PrintInfo(out, fmt.Sprintf("Unchanged: %s", strings.Join(result.Unchanged, ", ")))
	}
	return nil
}

var profileOrderCmd = &cobra.Command{
	Use:   "order <profile-id> [addon-id]...",
	Short: "Set a profile's explicit load order",
	Long: `Set the explicit load order of a profile.

Listed addons load in the given order ahead of priority ordering. Running
the command with no addon ids clears the explicit order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		details, err := env.engine.SetLoadOrder(cmd.Context(), &engine.SetLoadOrderRequest{
			Profile: args[0],
			Order:   args[1:],
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, details)
		}
		PrintSuccess(out, fmt.Sprintf("Load order of %s updated", details.Profile.ID))
		PrintNumberedList(out, details.Final, 1)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <profile-id> <key> [value]",
	Short: "Set or clear a profile setting",
	Long: `Set a profile setting. Omitting the value clears it.

Setting values feed exclusion checks: yes/true/on marks the key itself as
active, any other value is matched as a keyword. The "game" and
"components" settings decide which addons are compatible.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		req := &engine.SetValueRequest{Profile: args[0], Key: args[1]}
		if len(args) == 3 {
			req.Value = args[2]
		}
		info, err := env.engine.SetValue(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, info)
		}
		if req.Value == "" {
			PrintSuccess(out, fmt.Sprintf("Cleared %s on %s", req.Key, info.ID))
		} else {
			PrintSuccess(out, fmt.Sprintf("Set %s=%s on %s", req.Key, req.Value, info.ID))
		}
		return nil
	},
}

func printProfileDetails(out io.Writer, details *engine.ProfileDetails) {
	p := details.Profile
	title := fmt.Sprintf("Profile: %s", p.ID)
	if p.IsDefaults() {
		title += " (defaults)"
	}
	PrintSection(out, title)
	PrintLabelList(out, "Attached", p.Addons)
	PrintLabelList(out, "Used", details.Used)
	if len(p.LoadOrder) > 0 {
		PrintLabelList(out, "Load order", p.LoadOrder)
	}
	if len(p.Values) > 0 {
		keys := make([]string, 0, len(p.Values))
		for k := range p.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := make([]string, 0, len(keys))
		for _, k := range keys {
			values = append(values, k+"="+p.Values[k])
		}
		PrintLabelList(out, "Values", values)
	}

	PrintSection(out, "Launch order")
	if len(details.Final) == 0 {
		PrintEmptyState(out, "No addons")
		return
	}
	PrintNumberedList(out, details.Final, 1)
}

func init() {
	profileCmd.AddCommand(profileLsCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileRmCmd)
	profileCmd.AddCommand(profileAttachCmd)
	profileCmd.AddCommand(profileDetachCmd)
	profileCmd.AddCommand(profileOrderCmd)
	profileCmd.AddCommand(profileSetCmd)

	profileCreateCmd.Flags().StringVar(&profileCreateFrom, "from", "", "Copy attachments and values from another profile")
}
