package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconOpen    = "○"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Flowchart Display
// =============================================================================

// printCounts prints node and edge counts on a single dim line.
func printCounts(fc *flowchart.Flowchart) {
	parts := []string{
		plural(len(fc.Nodes), "node"),
		plural(len(fc.Edges), "edge"),
	}
	if s := fc.Stats(); s.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d done", s.Completed, s.Total))
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// progressBar renders s as a fixed-width bar, e.g. "███████░░░ 70%".
func progressBar(s flowchart.Stats, width int) string {
	filled := int(s.Fraction()*float64(width) + 0.5)
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", width-filled)) +
		" " + StyleNumber.Render(fmt.Sprintf("%d%%", s.Percent))
}

// nodeTable renders the nodes of fc as a rounded lipgloss table.
func nodeTable(fc *flowchart.Flowchart) string {
	rows := make([][]string, 0, len(fc.Nodes))
	for _, n := range fc.Nodes {
		rows = append(rows, []string{
			n.ID,
			string(n.Kind),
			completionMark(n),
			oneLine(n.Label, 32),
			sizeText(n),
			fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y),
			n.ParentID,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "", "Label", "Size", "Position", "Parent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 2:
				return base.Foreground(colorGreen)
			case 4, 5, 6:
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

// edgeTable renders the edges of fc.
func edgeTable(fc *flowchart.Flowchart) string {
	rows := make([][]string, 0, len(fc.Edges))
	for _, e := range fc.Edges {
		rows = append(rows, []string{
			e.ID,
			handleText(e.Source, e.SourceHandle),
			iconArrow,
			handleText(e.Target, e.TargetHandle),
		})
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 || col == 2 {
				return StyleDim
			}
			return StyleValue
		})
	return t.Render()
}

func completionMark(n flowchart.Node) string {
	switch {
	case !n.Kind.Completable():
		return ""
	case n.Completed:
		return iconSuccess
	default:
		return iconOpen
	}
}

func sizeText(n flowchart.Node) string {
	s := fmt.Sprintf("%.0f×%.0f", n.Width, n.Height)
	if n.ManuallyResized {
		s += " (manual)"
	}
	return s
}

func handleText(id, handle string) string {
	if handle == "" {
		return id
	}
	return id + ":" + handle
}

// oneLine flattens newlines and truncates s to at most n runes.
func oneLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ⏎ ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
