package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	rootDir    string
	logLevel   string

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for loadout.
var rootCmd = &cobra.Command{
	Use:     "loadout",
	Version: "dev",
	Short:   "Addon selection and conflict resolution for game profiles",
	Long: `loadout decides which addons a game profile launches with.

It combines the addons attached to a profile with those of the Defaults
profile, checks the result for missing requirements, exclusions and
duplicate content, and resolves every conflict into a final load order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion sets the version reported by --version and "loadout version".
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc renders help with colored section and group titles.
func customHelpFunc(cmd *cobra.Command, args []string) {
	writeHelp(cmd.OutOrStdout(), cmd)
}

func writeHelp(w io.Writer, cmd *cobra.Command) {
	var b strings.Builder

	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		b.WriteString(strings.TrimSpace(desc))
		b.WriteString("\n\n")
	}

	b.WriteString(sectionTitleColor.Sprint("Usage:"))
	b.WriteString("\n")
	if cmd.Runnable() {
		fmt.Fprintf(&b, "  %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "  %s [command]\n", cmd.CommandPath())
	}
	b.WriteString("\n")

	if len(cmd.Aliases) > 0 {
		b.WriteString(sectionTitleColor.Sprint("Aliases:"))
		fmt.Fprintf(&b, "\n  %s\n\n", strings.Join(append([]string{cmd.Name()}, cmd.Aliases...), ", "))
	}

	if cmd.Example != "" {
		b.WriteString(sectionTitleColor.Sprint("Examples:"))
		fmt.Fprintf(&b, "\n%s\n\n", cmd.Example)
	}

	// Grouped subcommands first, then the rest
	for _, group := range cmd.Groups() {
		writeCommandSection(&b, groupTitleColor.Sprint(group.Title), cmd, group.ID)
	}
	title := "Additional Commands:"
	if len(cmd.Groups()) == 0 {
		title = "Available Commands:"
	}
	writeCommandSection(&b, sectionTitleColor.Sprint(title), cmd, "")

	if cmd.HasAvailableLocalFlags() {
		b.WriteString(sectionTitleColor.Sprint("Flags:"))
		b.WriteString("\n")
		b.WriteString(cmd.LocalFlags().FlagUsages())
		b.WriteString("\n")
	}
	if cmd.HasAvailableInheritedFlags() {
		b.WriteString(sectionTitleColor.Sprint("Global Flags:"))
		b.WriteString("\n")
		b.WriteString(cmd.InheritedFlags().FlagUsages())
		b.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}

	fmt.Fprint(w, b.String())
}

// writeCommandSection lists the visible subcommands of cmd in groupID.
// Nothing is written when the section is empty.
func writeCommandSection(b *strings.Builder, title string, cmd *cobra.Command, groupID string) {
	var cmds []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if c.GroupID != groupID || !c.IsAvailableCommand() && c.Name() != "help" {
			continue
		}
		cmds = append(cmds, c)
		if len(c.Name()) > width {
			width = len(c.Name())
		}
	}
	if len(cmds) == 0 {
		return
	}

	b.WriteString(title)
	b.WriteString("\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "  %-*s  %s\n", width, c.Name(), c.Short)
	}
	b.WriteString("\n")
}

func init() {
	// Set custom help function to color group titles
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Data directory (default $LOADOUT_ROOT or ~/.loadout)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "addon-management",
		Title: "Addon Management:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "profile-management",
		Title: "Profile Management:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "conflict-resolution",
		Title: "Conflict Resolution:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the loadout CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Add help command to CLI & Tooling group
	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				target = cmd.Root()
			}
			return target.Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	// Add completion command to CLI & Tooling group
	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for loadout for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	shells := []struct {
		name string
		gen  func(out io.Writer) error
	}{
		{"bash", rootCmd.GenBashCompletion},
		{"zsh", rootCmd.GenZshCompletion},
		{"fish", func(out io.Writer) error { return rootCmd.GenFishCompletion(out, true) }},
		{"powershell", rootCmd.GenPowerShellCompletionWithDesc},
	}
	for _, sh := range shells {
		gen := sh.gen
		completionCmd.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 fmt.Sprintf("Generate the autocompletion script for %s", sh.name),
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return gen(cmd.OutOrStdout())
			},
		})
	}
	rootCmd.AddCommand(completionCmd)

	addonCmd.GroupID = "addon-management"
	categoryCmd.GroupID = "addon-management"
	rootCmd.AddCommand(addonCmd)
	rootCmd.AddCommand(categoryCmd)

	profileCmd.GroupID = "profile-management"
	rootCmd.AddCommand(profileCmd)

	planCmd.GroupID = "conflict-resolution"
	resolveCmd.GroupID = "conflict-resolution"
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(resolveCmd)
}

// Execute executes the root command. Cancelling ctx cancels a running
// resolution.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
