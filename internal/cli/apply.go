package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/tweakrestore/internal/engine"
	"github.com/danieljhkim/tweakrestore/internal/hash"
)

var (
	applyProfile       string
	applyPairing       string
	applySnapshot      string
	applyDeviceVersion string
	applyUDID          string
	applyDryRun        bool
	applyQuiet         bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Restore a profile's tweaks to the device",
	Long: `Compile a selection profile and write it to the device.

The restore brings up a tunnel with the pairing record, then writes one stage
at a time: device capabilities, system UI preferences, status bar overrides
and one stage per disabled service. The first failed stage aborts the run.
Stages that already completed are not rolled back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.ApplyRequest{
			Profile:       applyProfile,
			PairingPath:   applyPairing,
			SnapshotPath:  applySnapshot,
			DeviceVersion: applyDeviceVersion,
			UDID:          applyUDID,
			DryRun:        applyDryRun,
		}
		if !applyQuiet && !jsonOutput && !applyDryRun {
			req.Progress = newProgressPrinter(cmd.ErrOrStderr())
		}

		result, err := eng.Apply(cmd.Context(), req)
		if err != nil {
			if result != nil && !jsonOutput {
				printApplyResult(cmd.OutOrStdout(), result)
			}
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		printApplyResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyProfile, "profile", "p", "", "Profile to restore (default from config)")
	applyCmd.Flags().StringVar(&applyPairing, "pairing", "", "Path to the device pairing record")
	applyCmd.Flags().StringVar(&applySnapshot, "snapshot", "", "Path to the current device capabilities plist")
	applyCmd.Flags().StringVar(&applyDeviceVersion, "device-version", "", "Device OS version used to check tweak support")
	applyCmd.Flags().StringVar(&applyUDID, "udid", "", "Target device identifier (default from config)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Render documents without contacting the device")
	applyCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "Do not print progress")
}

func printApplyResult(w io.Writer, result *engine.ApplyResult) {
	if result.DryRun {
		PrintSection(w, "Restore Plan (dry run)")
	} else {
		PrintSection(w, "Restore")
		PrintLabelValue(w, "Session", result.SessionID)
	}
	if result.Profile != "" {
		PrintLabelValue(w, "Profile", result.Profile)
	}

	if len(result.Documents) == 0 && (result.Plan == nil || result.Plan.IsEmpty()) {
		PrintEmptyState(w, "Nothing to restore")
	}

	for _, doc := range result.Documents {
		if doc.Service != "" {
			PrintSuccess(w, doc.Label)
			continue
		}
		PrintSuccess(w, fmt.Sprintf("%s (%s, %s)", doc.Label, PrintCount(doc.Size, "byte", "bytes"), hash.Short(doc.Digest)))
	}

	printPlanWarnings(w, result)

	if !result.DryRun && !result.FinishedAt.IsZero() {
		_, _ = fmt.Fprintln(w)
		PrintLabelValue(w, "Duration", result.FinishedAt.Sub(result.StartedAt).String())
	}
}
