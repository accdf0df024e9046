package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/tweakrestore/internal/engine"
)

var profileName string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage selection profiles",
	Long: `Manage named selection profiles.

A profile maps tweak identifiers to values. Values are converted to the
tweak's type when set: toggles take true/false, steppers take integers
within their range and pickers take one of their options.`,
}

var profileSetCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Set a tweak's value in the profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		result, err := eng.SetSelection(&engine.SetSelectionRequest{
			Profile: profileName,
			ID:      args[0],
			Value:   args[1],
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Set %s in profile %s", args[0], result.Name))
		return nil
	},
}

var profileUnsetCmd = &cobra.Command{
	Use:   "unset <id>",
	Short: "Remove a tweak from the profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		result, err := eng.UnsetSelection(&engine.UnsetSelectionRequest{
			Profile: profileName,
			ID:      args[0],
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %s from profile %s", args[0], result.Name))
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile's selections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		result, err := eng.ShowProfile(profileName)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		printProfile(cmd.OutOrStdout(), result)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		names, err := eng.ListProfiles()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), names)
		}
		w := cmd.OutOrStdout()
		PrintSection(w, "Profiles")
		if len(names) == 0 {
			PrintEmptyState(w, "No profiles")
			return nil
		}
		PrintList(w, names, 1)
		return nil
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.ResetProfile(profileName); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]bool{"reset": true})
		}
		PrintSuccess(cmd.OutOrStdout(), "Profile reset")
		return nil
	},
}

func init() {
	profileCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Profile name (default from config)")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileUnsetCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileResetCmd)
}

func printProfile(w io.Writer, result *engine.ProfileResult) {
	PrintSection(w, "Profile: "+result.Name)
	if !result.UpdatedAt.IsZero() {
		PrintLabelValue(w, "Updated", result.UpdatedAt.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintln(w)
	}
	if len(result.Entries) == 0 {
		PrintEmptyState(w, "No selections")
		return
	}

	rows := make([][]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		store := string(entry.Store)
		state := yesNo(entry.Enabled)
		if !entry.Known {
			store = "-"
			state = "unknown"
		}
		rows = append(rows, []string{entry.ID, store, entry.Value.Text(), state})
	}
	PrintTable(w, []string{"ID", "STORE", "VALUE", "ENABLED"}, rows)
}
