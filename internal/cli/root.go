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

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for tweakrestore.
var rootCmd = &cobra.Command{
	Use:     "tweakrestore",
	Version: "dev",
	Short:   "Apply configuration tweaks to a paired device through a restore channel",
	Long: `tweakrestore stages configuration changes for a paired device and pushes them
through a sparse restore.

Selections live in named profiles. A restore compiles a profile into patches
for the device capabilities, system UI and status bar stores plus a list of
services to disable, then writes them one stage at a time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc renders help with colored group titles. Subcommands are
// listed under their group, then under "Additional Commands".
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	} else if cmd.Short != "" {
		help.WriteString(cmd.Short)
		help.WriteString("\n\n")
	}

	writeSection(&help, "Usage:")
	if cmd.Runnable() {
		fmt.Fprintf(&help, "  %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "  %s [command]\n", cmd.CommandPath())
	}
	help.WriteString("\n")

	width := nameWidth(cmd)
	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")
		writeCommands(&help, cmd, group.ID, width)
		help.WriteString("\n")
	}
	if hasCommandsIn(cmd, "") {
		title := "Additional Commands:"
		if len(cmd.Groups()) == 0 {
			title = "Commands:"
		}
		writeSection(&help, title)
		writeCommands(&help, cmd, "", width)
		help.WriteString("\n")
	}

	if cmd.Example != "" {
		writeSection(&help, "Examples:")
		help.WriteString(cmd.Example)
		help.WriteString("\n\n")
	}

	if cmd.HasAvailableLocalFlags() {
		writeSection(&help, "Flags:")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString("\n")
	}
	if cmd.HasAvailableInheritedFlags() {
		writeSection(&help, "Global Flags:")
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString(sectionTitleColor.Sprint(title))
	b.WriteString("\n")
}

func writeCommands(b *strings.Builder, cmd *cobra.Command, groupID string, width int) {
	for _, c := range cmd.Commands() {
		if c.GroupID == groupID && c.IsAvailableCommand() {
			fmt.Fprintf(b, "  %-*s %s\n", width, c.Name(), c.Short)
		}
	}
}

func hasCommandsIn(cmd *cobra.Command, groupID string) bool {
	for _, c := range cmd.Commands() {
		if c.GroupID == groupID && c.IsAvailableCommand() {
			return true
		}
	}
	return false
}

// nameWidth is the padded width of the subcommand name column.
func nameWidth(cmd *cobra.Command) int {
	width := 11
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && len(c.Name())+1 > width {
			width = len(c.Name()) + 1
		}
	}
	return width
}

func init() {
	// Set custom help function to color group titles
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "restore",
		Title: "Restore:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "selections",
		Title: "Selections:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the tweakrestore CLI version",
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
		Run: func(cmd *cobra.Command, args []string) {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				target = cmd.Root()
			}
			_ = target.Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	rootCmd.AddCommand(newCompletionCmd())

	// Restore commands
	applyCmd.GroupID = "restore"
	planCmd.GroupID = "restore"
	statusCmd.GroupID = "restore"
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(statusCmd)

	// Selection commands
	profileCmd.GroupID = "selections"
	catalogCmd.GroupID = "selections"
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(catalogCmd)

	configCmd.GroupID = "cli-tooling"
	rootCmd.AddCommand(configCmd)
}

// Execute executes the root command with ctx, which carries the logger.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// completionShells maps each supported shell to its script generator.
var completionShells = []struct {
	name string
	gen  func(root *cobra.Command, w io.Writer) error
}{
	{"bash", func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) }},
	{"zsh", func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) }},
	{"fish", func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) }},
	{"powershell", func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) }},
}

func newCompletionCmd() *cobra.Command {
	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for tweakrestore for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	for _, shell := range completionShells {
		gen := shell.gen
		completionCmd.AddCommand(&cobra.Command{
			Use:                   shell.name,
			Short:                 "Generate the autocompletion script for " + shell.name,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return gen(cmd.Root(), cmd.OutOrStdout())
			},
		})
	}
	return completionCmd
}
