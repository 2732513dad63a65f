package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/stair"
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

	// StyleError for violations and failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
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

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleLanding = lipgloss.NewStyle().Foreground(colorCyan)
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
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints the step counts of a plan on a single line.
func printStats(w io.Writer, plan stair.Plan, cached bool) {
	parts := []string{
		fmt.Sprintf("%d risers", plan.Parameters.TotalSteps),
		fmt.Sprintf("%d treads", plan.TreadCount()),
	}
	if plan.Parameters.HasMidLanding {
		parts = append(parts, "mid-landing")
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Plan Output
// =============================================================================

// printParameters prints the scalar results of a layout.
func printParameters(w io.Writer, p stair.Parameters) {
	printKeyValue(w, "Direction", string(p.Direction))
	printKeyValue(w, "Risers", fmt.Sprintf("%d", p.TotalSteps))
	printKeyValue(w, "Riser height", inches(p.RiserHeight))
	if math.Abs(p.TopRiser-p.RiserHeight) > 1e-6 && p.TopRiser > 0 {
		printKeyValue(w, "Top riser", inches(p.TopRiser))
	}
	printKeyValue(w, "Treads", fmt.Sprintf("%d", p.NumTreads))
	printKeyValue(w, "Tread angle", fmt.Sprintf("%.2f°", p.TreadAngle))
	switch {
	case p.HasMidLanding:
		printKeyValue(w, "Mid-landing", fmt.Sprintf("after tread %d (%.0f°)", p.MidLandingIndex, p.MidLandingSweepDeg))
	case p.MidLandingSkipped:
		printKeyValue(w, "Mid-landing", "skipped")
	default:
		printKeyValue(w, "Mid-landing", "none")
	}
}

// planTable renders every step of plan as a table.
func planTable(plan stair.Plan) string {
	rows := make([][]string, 0, len(plan.Steps))
	kinds := make([]stair.StepKind, 0, len(plan.Steps))
	tread := 0
	for _, s := range plan.Steps {
		name := s.Kind.Label()
		if s.Kind == stair.KindTread {
			tread++
			name = fmt.Sprintf("%s %d", name, tread)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Index+1),
			name,
			fmt.Sprintf("%.2f", s.BottomZ),
			fmt.Sprintf("%.2f", s.TopZ),
			fmt.Sprintf("%.1f", s.StartAngle*180/math.Pi),
			fmt.Sprintf("%.1f", s.EndAngle*180/math.Pi),
			fmt.Sprintf("%.1f", s.SweepDeg()),
		})
		kinds = append(kinds, s.Kind)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Step", "Bottom", "Top", "Start°", "End°", "Sweep°").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(kinds) && kinds[row] != stair.KindTread {
				return styleLanding.Padding(0, 1)
			}
			if col >= 2 {
				return base.Align(lipgloss.Right)
			}
			return base
		})
	return t.Render()
}

// printViolations prints each violation with its suggested fix.
func printViolations(w io.Writer, vs []compliance.Violation) {
	for _, v := range vs {
		fmt.Fprintln(w, styleIconError.Render(iconError)+" "+StyleError.Render(v.Rule.Title())+" "+v.Message)
		if v.SuggestedFix != "" {
			fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+v.SuggestedFix)
		}
		if v.CodeRef != "" {
			printDetail(w, "%s", v.CodeRef)
		}
	}
}

// violationSummary returns a one-line count of violations.
func violationSummary(vs []compliance.Violation) string {
	if len(vs) == 1 {
		return "1 violation"
	}
	return fmt.Sprintf("%d violations", len(vs))
}

// inches formats a length with two decimals.
func inches(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".") + `"`
}
