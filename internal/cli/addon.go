package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/loadout/internal/engine"
)

var (
	addonLsProfile string
	addonLsAll     bool
)

// addonCmd is the parent command for addon queries.
var addonCmd = &cobra.Command{
	Use:   "addon",
	Short: "Inspect installed addons",
	Long:  `List, describe and uninstall the addons known from the manifest directories.`,
}

var addonLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List addons",
	Long: `List installed addons.

With --profile, list the addons compatible with that profile and mark the
ones it uses.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		result, err := env.engine.ListAddons(cmd.Context(), &engine.ListAddonsRequest{
			Profile: addonLsProfile,
			All:     addonLsAll,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		title := "Addons"
		if result.Profile != "" {
			title = fmt.Sprintf("Addons for %s", result.Profile)
		}
		PrintSection(out, title)
		if len(result.Addons) == 0 {
			PrintEmptyState(out, "No addons found")
			return nil
		}

		headers := []string{"ID", "Kind", "Category", "Priority"}
		if result.Profile != "" {
			headers = append(headers, "Used")
		}
		rows := make([][]string, 0, len(result.Addons))
		for _, a := range result.Addons {
			row := []string{a.ID, a.Kind, a.Category, a.Priority}
			if result.Profile != "" {
				row = append(row, mark(a.Used))
			}
			rows = append(rows, row)
		}
		PrintTable(out, headers, rows)
		return nil
	},
}

var addonShowCmd = &cobra.Command{
	Use:   "show <addon-id>",
	Short: "Show addon details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		info, err := env.engine.ShowAddon(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, info)
		}

		PrintSection(out, fmt.Sprintf("Addon: %s", info.ID))
		PrintLabelValue(out, "Kind", info.Kind)
		PrintLabelValue(out, "Category", info.Category)
		PrintLabelValue(out, "Priority", info.Priority)
		PrintLabelList(out, "Provides", info.Provides)
		PrintLabelList(out, "Offers", info.Offers)
		PrintLabelList(out, "Requires", info.Requires)
		PrintLabelList(out, "Excludes", info.Excludes)
		PrintLabelList(out, "Excluded categories", info.ExcludedCategories)
		PrintLabelList(out, "Required components", info.RequiredComponents)
		if info.Box != "" {
			box := info.Box
			if info.Inversed {
				box += " (optional part)"
			}
			PrintLabelValue(out, "Box", box)
		}
		if info.Parts != nil {
			PrintLabelList(out, "Required parts", info.Parts.Required)
			PrintLabelList(out, "Optional parts", info.Parts.Optional)
			PrintLabelList(out, "Extra parts", info.Parts.Extra)
		}
		if info.Uninstalled {
			PrintWarning(out, "Uninstalled")
		}
		return nil
	},
}

var addonUninstallCmd = &cobra.Command{
	Use:   "uninstall <addon-id>",
	Short: "Mark an addon as uninstalled",
	Long: `Mark an addon as uninstalled in its manifest.

The addon stays known and profiles keep their attachments, but it is no
longer launched with any profile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		result, err := env.engine.Uninstall(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		if result.AlreadyUninstalled {
			PrintInfo(out, fmt.Sprintf("%s is already uninstalled", result.ID))
		} else {
			PrintSuccess(out, fmt.Sprintf("Uninstalled %s", result.ID))
		}
		if len(result.AttachedTo) > 0 {
			PrintWarning(out, fmt.Sprintf("Still attached to %s: %s",
				PrintCount(len(result.AttachedTo), "profile", "profiles"),
				strings.Join(result.AttachedTo, ", ")))
		}
		return nil
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Inspect the addon category tree",
}

var categoryLsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List categories",
	Long: `List every category addons are filed under or exclude, depth-first.
With a path, list only that category and the ones below it.`,
	Example: `  loadout category ls
  loadout category ls gamedata/maps`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}

		var under string
		if len(args) > 0 {
			under = args[0]
		}

		result, err := env.engine.Categories(cmd.Context(), under)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		PrintSection(out, "Categories")
		for _, c := range result.Categories {
			line := strings.Repeat("  ", c.Depth) + c.Path
			if len(c.Addons) > 0 {
				line += dimColor.Sprintf("  (%s)", strings.Join(c.Addons, ", "))
			}
			PrintInfo(out, "  "+line)
		}
		return nil
	},
}

func init() {
	addonCmd.AddCommand(addonLsCmd)
	addonCmd.AddCommand(addonShowCmd)
	addonCmd.AddCommand(addonUninstallCmd)
	categoryCmd.AddCommand(categoryLsCmd)

	addonLsCmd.Flags().StringVarP(&addonLsProfile, "profile", "p", "", "List addons available to this profile")
	addonLsCmd.Flags().BoolVarP(&addonLsAll, "all", "a", false, "Include uninstalled addons")
}
