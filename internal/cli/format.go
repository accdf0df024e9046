package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// fatih/color disables itself when the output is not a TTY.
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// PrintSection prints a section header
func PrintSection(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w)
	_, _ = headerColor.Fprintf(w, "▸ %s\n", title)
	_, _ = fmt.Fprintln(w)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

// PrintError prints an error message with a cross
func PrintError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(w io.Writer, label, value string) {
	_, _ = labelColor.Fprintf(w, "  %s: ", label)
	_, _ = valueColor.Fprintln(w, value)
}

// PrintLabelValueWithColor prints a label-value pair with a custom value color
func PrintLabelValueWithColor(w io.Writer, label, value string, valueClr *color.Color) {
	_, _ = labelColor.Fprintf(w, "  %s: ", label)
	_, _ = valueClr.Fprintln(w, value)
}

// PrintList prints a list of items with bullet points
func PrintList(w io.Writer, items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(w, "%s• %s\n", indentStr, item)
	}
}

// PrintTable prints a simple table with a header row
func PrintTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	_, _ = fmt.Fprint(w, "  ")
	for i, header := range headers {
		if i > 0 {
			_, _ = fmt.Fprint(w, "  ")
		}
		_, _ = headerColor.Fprintf(w, "%-*s", colWidths[i], header)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprint(w, "  ")
	for i, width := range colWidths {
		if i > 0 {
			_, _ = fmt.Fprint(w, "  ")
		}
		_, _ = fmt.Fprint(w, strings.Repeat("-", width))
	}
	_, _ = fmt.Fprintln(w)

	for _, row := range rows {
		_, _ = fmt.Fprint(w, "  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				_, _ = fmt.Fprint(w, "  ")
			}
			_, _ = valueColor.Fprintf(w, "%-*s", colWidths[i], cell)
		}
		_, _ = fmt.Fprintln(w)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(w io.Writer, msg string) {
	_, _ = dimColor.Fprintf(w, "  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
