package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

const chartRows = 14

var chartTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// renderChart lays the reference chart out in columns of chartRows entries,
// letters first, then digits and punctuation.
func renderChart(width int) string {
	entries := morse.Chart()
	var columns []string
	for start := 0; start < len(entries); start += chartRows {
		end := min(start+chartRows, len(entries))
		lines := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			lines = append(lines, correctStyle.Render(strings.ToUpper(string(e.Char)))+" "+pendingStyle.Render(fmt.Sprintf("%-7s", e.Code)))
		}
		columns = append(columns, strings.Join(lines, "\n"))
	}
	gap := "   "
	if width > 0 && width < 80 {
		gap = " "
	}
	withGaps := make([]string, 0, len(columns)*2)
	for i, c := range columns {
		if i > 0 {
			withGaps = append(withGaps, gap)
		}
		withGaps = append(withGaps, c)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, withGaps...)
	return chartTitleStyle.Render("Morse Code Reference") + "\n\n" + body
}
