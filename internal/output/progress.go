package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ScoreBar renders a visual progress bar for a 0-100 productivity score.
// Example: "████████░░ 80/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((score / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case score >= 70:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case score >= 40:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.0f/100", score)))
}

// FocusStyle returns the style for a focus session score. Focus scores
// grade harder than daily productivity: 80 and up is good, below 60 is not.
func FocusStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return StyleSuccess
	case score >= 60:
		return StyleWarning
	default:
		return StyleError
	}
}

// FocusGrade returns a one-line verdict for a finished focus session.
func FocusGrade(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Needs work"
	default:
		return "Too many distractions"
	}
}

// heatRamp maps score bands to cell colors, darkest for the worst days.
var heatRamp = []struct {
	min   float64
	color lipgloss.Color
}{
	{80, ColorSuccess},
	{60, lipgloss.Color("#9ccc65")},
	{40, ColorWarning},
	{20, lipgloss.Color("#ff9800")},
	{0, ColorError},
}

// HeatCell renders one heatmap cell. Days without data render muted so
// gaps read differently from low-scoring days.
func HeatCell(score float64, hasData bool) string {
	if noColor {
		if !hasData {
			return "· "
		}
		return "█ "
	}
	if !hasData {
		return StyleMuted.Render("· ")
	}
	for _, band := range heatRamp {
		if score >= band.min {
			return lipgloss.NewStyle().Foreground(band.color).Render("█ ")
		}
	}
	return StyleError.Render("█ ")
}

// HeatLegend renders the less-to-more ramp shown under the heatmap.
func HeatLegend() string {
	var sb strings.Builder
	sb.WriteString(StyleMuted.Render("Less "))
	sb.WriteString(HeatCell(0, false))
	for i := len(heatRamp) - 1; i >= 0; i-- {
		sb.WriteString(HeatCell(heatRamp[i].min, true))
	}
	sb.WriteString(StyleMuted.Render(" More"))
	return sb.String()
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
// The improved parameter indicates whether higher values are better.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter)

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.1f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// TrendArrowPercent returns a styled trend indicator for a percentage delta.
func TrendArrowPercent(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter)

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.0f%%", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.0f%%", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
