package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// printTable renders rows in aligned columns with a styled header.
func printTable(cmd *cobra.Command, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&b, "%-*s  ", widths[i], h)
	}
	cmd.Println(headerStyle.Render(strings.TrimRight(b.String(), " ")))

	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
		}
		cmd.Println(strings.TrimRight(b.String(), " "))
	}
}

// validateGUID rejects inputs that are not well-formed GUIDs before
// they reach the API.
func validateGUID(label, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%s %q is not a valid GUID", label, value)
	}
	return nil
}
