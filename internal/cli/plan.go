package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/tweakrestore/internal/engine"
	"github.com/danieljhkim/tweakrestore/internal/hash"
)

var (
	planProfile       string
	planSnapshot      string
	planDeviceVersion string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the stages a restore would run",
	Long: `Compile a profile and render every document a restore would write,
without a pairing record, tunnel or device.

The table lists each stage with its share of the progress bar, the document
size and a short digest. Identical selections always render identical
documents.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Plan(cmd.Context(), &engine.ApplyRequest{
			Profile:       planProfile,
			SnapshotPath:  planSnapshot,
			DeviceVersion: planDeviceVersion,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}
		printPlan(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&planProfile, "profile", "p", "", "Profile to plan (default from config)")
	planCmd.Flags().StringVar(&planSnapshot, "snapshot", "", "Path to the current device capabilities plist")
	planCmd.Flags().StringVar(&planDeviceVersion, "device-version", "", "Device OS version used to check tweak support")
}

func printPlan(w io.Writer, result *engine.ApplyResult) {
	PrintSection(w, "Restore Plan")
	if result.Profile != "" {
		PrintLabelValue(w, "Profile", result.Profile)
	}
	PrintLabelValue(w, "Stages", strconv.Itoa(len(result.Documents)))
	_, _ = fmt.Fprintln(w)

	if len(result.Documents) == 0 {
		PrintEmptyState(w, "Nothing to restore")
	} else {
		rows := make([][]string, 0, len(result.Documents))
		for i, doc := range result.Documents {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				doc.Label,
				fmt.Sprintf("%.1f%%", doc.Weight*100),
				strconv.Itoa(doc.Size),
				hash.Short(doc.Digest),
			})
		}
		PrintTable(w, []string{"#", "STAGE", "WEIGHT", "BYTES", "DIGEST"}, rows)
	}

	printPlanWarnings(w, result)
}

// printPlanWarnings reports selections that will not reach the device as
// written.
func printPlanWarnings(w io.Writer, result *engine.ApplyResult) {
	if result.Plan == nil {
		return
	}
	if result.Plan.HasConflicts() {
		_, _ = fmt.Fprintln(w)
		PrintWarning(w, fmt.Sprintf("%s overridden by a later tweak:", PrintCount(len(result.Plan.Conflicts), "key", "keys")))
		items := make([]string, 0, len(result.Plan.Conflicts))
		for _, c := range result.Plan.Conflicts {
			items = append(items, c.String())
		}
		PrintList(w, items, 1)
	}
	if len(result.Plan.Unknown) > 0 {
		_, _ = fmt.Fprintln(w)
		PrintWarning(w, fmt.Sprintf("Ignored %s not in the catalog:", PrintCount(len(result.Plan.Unknown), "selection", "selections")))
		PrintList(w, result.Plan.Unknown, 1)
	}
}
