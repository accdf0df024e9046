package cli

import (
	"fmt"
	"io"

	"github.com/danieljhkim/tweakrestore/internal/restore"
)

// newProgressPrinter returns a progress sink that prints one line per update:
//
//	[ 15%] Tunnel ready
func newProgressPrinter(w io.Writer) restore.ProgressFunc {
	return func(fraction float64, label string) {
		pct := int(fraction*100 + 0.5)
		_, _ = dimColor.Fprintf(w, "  [%3d%%] ", pct)
		_, _ = fmt.Fprintln(w, label)
	}
}
