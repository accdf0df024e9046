package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/tweakrestore/internal/engine"
	"github.com/danieljhkim/tweakrestore/internal/hash"
	"github.com/danieljhkim/tweakrestore/internal/state"
)

var statusUDID string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last restore recorded for the device",
	Long: `Show the last restore recorded for the device: its session, outcome and
the documents the device accepted with their digests.

Nothing is read from the device; the record is written by 'apply'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Status(&engine.StatusRequest{UDID: statusUDID})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		printStatus(cmd.OutOrStdout(), result)
		return nil
	},
}

var statusForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Delete the recorded restore state for the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.ForgetDevice(&engine.StatusRequest{UDID: statusUDID}); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]bool{"forgotten": true})
		}
		PrintSuccess(cmd.OutOrStdout(), "Device state forgotten")
		return nil
	},
}

func init() {
	statusCmd.PersistentFlags().StringVar(&statusUDID, "udid", "", "Device identifier (default from config)")
	statusCmd.AddCommand(statusForgetCmd)
}

func printStatus(w io.Writer, result *engine.StatusResult) {
	PrintSection(w, "Device Status")
	device := result.UDID
	if device == "" {
		device = "(default)"
	}
	PrintLabelValue(w, "Device", device)

	last := result.LastRestore
	if last == nil {
		PrintEmptyState(w, "No restore recorded")
		return
	}

	PrintLabelValue(w, "Restores", strconv.Itoa(result.Restores))
	PrintLabelValue(w, "Session", last.SessionID)
	if last.Profile != "" {
		PrintLabelValue(w, "Profile", last.Profile)
	}
	PrintLabelValue(w, "Finished", last.FinishedAt.Format("2006-01-02 15:04:05"))
	if last.Outcome == state.OutcomeSucceeded {
		PrintLabelValueWithColor(w, "Outcome", last.Outcome, successColor)
	} else {
		PrintLabelValueWithColor(w, "Outcome", last.Outcome, errorColor)
		PrintLabelValue(w, "Error", last.Error)
	}
	_, _ = fmt.Fprintln(w)

	if len(last.Documents) == 0 {
		PrintEmptyState(w, "No documents accepted")
		return
	}
	rows := make([][]string, 0, len(last.Documents))
	for _, doc := range last.Documents {
		rows = append(rows, []string{doc.Label, doc.Domain, doc.Path, hash.Short(doc.Checksum)})
	}
	PrintTable(w, []string{"STAGE", "DOMAIN", "PATH", "DIGEST"}, rows)
}
