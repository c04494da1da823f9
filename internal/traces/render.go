// Where: internal/traces/render.go
// What: Human-readable trace rendering.
// Why: Color-code trace entries by type for quick scanning in a terminal.
package traces

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	startStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	otherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	detailStyle  = lipgloss.NewStyle().Faint(true)
)

// Render writes entries in the viewer format: one headline per entry,
// indented detail lines for duration, result preview, and errors.
func Render(out io.Writer, entries []Entry, bad []BadLine) {
	renderAt(out, entries, bad, 0, 0)
}

// renderAt renders with entry and line numbering offset, so follow mode can
// keep a continuous count across polls.
func renderAt(out io.Writer, entries []Entry, bad []BadLine, entryBase, lineBase int) {
	for i, entry := range entries {
		icon, style := entryStyle(entry.Type)
		headline := fmt.Sprintf("%s [%3d] %s | %s | %s", icon, entryBase+i+1, entry.Timestamp, entry.Function, strings.ToUpper(entry.Type))
		fmt.Fprintln(out, style.Render(headline))

		if entry.Duration > 0 {
			fmt.Fprintln(out, detailStyle.Render(fmt.Sprintf("     ⏱️  Duration: %.3fs", entry.Duration)))
		}
		if entry.ResultPreview != "" {
			preview := entry.ResultPreview
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}
			fmt.Fprintln(out, detailStyle.Render("     📤 Result: "+preview))
		}
		if entry.Error != "" {
			fmt.Fprintln(out, errorStyle.Render("     💥 Error: "+entry.Error))
		}
		fmt.Fprintln(out)
	}

	for _, line := range bad {
		fmt.Fprintf(out, "⚠️  Invalid JSON on line %d: %s...\n", lineBase+line.Number, line.Content)
	}
}

func entryStyle(entryType string) (string, lipgloss.Style) {
	switch entryType {
	case TypeStart:
		return "🚀", startStyle
	case TypeSuccess:
		return "✅", successStyle
	case TypeError:
		return "❌", errorStyle
	}
	return "📝", otherStyle
}
