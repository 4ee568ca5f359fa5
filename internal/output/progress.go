package output

import (
	"fmt"
	"strings"
)

// ScoreBar renders a visual bar for a 0-10 productivity score.
// Example: "████░░░░░░ 4.2/10"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := int((score / 10.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case score >= 7:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case score >= 4:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.1f/10", score)))
}

// CountBar renders a histogram bar scaled against the largest bucket.
// A zero max yields an empty bar.
func CountBar(count, max, width int) string {
	if width <= 0 {
		width = 30
	}
	var filled int
	if max > 0 {
		filled = count * width / max
	}
	if filled == 0 && count > 0 {
		filled = 1
	}
	return StyleHeader.Render(strings.Repeat("█", filled)) + StyleMuted.Render(strings.Repeat("·", width-filled))
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
