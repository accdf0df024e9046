package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/tweakrestore/internal/catalog"
	"github.com/danieljhkim/tweakrestore/internal/engine"
)

var (
	catalogStore         string
	catalogDeviceVersion string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the tweaks that can be selected",
	Long: `List every tweak in the built-in catalog with its store, value type and
supported OS range.

Pass --device-version to mark which tweaks the device supports.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		entries, err := eng.ListCatalog(&engine.CatalogRequest{
			Store:         catalog.StoreKind(catalogStore),
			DeviceVersion: catalogDeviceVersion,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), entries)
		}
		printCatalog(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogStore, "store", "", "Only list tweaks for one store (device_capabilities, system_ui, status_bar, service_control)")
	catalogCmd.Flags().StringVar(&catalogDeviceVersion, "device-version", "", "Mark tweaks supported by this OS version")
}

func printCatalog(w io.Writer, entries []engine.CatalogEntry) {
	PrintSection(w, "Catalog")
	if len(entries) == 0 {
		PrintEmptyState(w, "No tweaks")
		return
	}

	withSupport := entries[0].Supported != nil
	headers := []string{"ID", "STORE", "TYPE", "VERSIONS"}
	if withSupport {
		headers = append(headers, "SUPPORTED")
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		row := []string{entry.ID, string(entry.Store), string(entry.Type), versionRange(entry.Tweak)}
		if withSupport {
			row = append(row, yesNo(entry.Supported != nil && *entry.Supported))
		}
		rows = append(rows, row)
	}
	PrintTable(w, headers, rows)
}

func versionRange(t catalog.Tweak) string {
	if t.MaxVersion == "" {
		return t.MinVersion + "+"
	}
	return t.MinVersion + " to " + t.MaxVersion
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
