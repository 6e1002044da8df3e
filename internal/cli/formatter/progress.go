package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampPct(pct float64) float64 {
	return max(0, min(pct, 1))
}

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampPct(pct)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderGoal renders progress toward a target, e.g. "[███░] 75% 1500/2000 ml".
func RenderGoal(value, target float64, unit string, width int) string {
	pct := 0.0
	if target > 0 {
		pct = value / target
	}
	return fmt.Sprintf("%s %s", RenderProgress(pct, width),
		Dim(fmt.Sprintf("%.0f/%.0f %s", value, target, unit)))
}

// RenderCups renders water cups as filled and empty glyphs.
func RenderCups(cups, maxCups int) string {
	cups = max(0, min(cups, maxCups))
	return StyleBlue.Render(strings.Repeat("●", cups)) + StyleDim.Render(strings.Repeat("○", maxCups-cups))
}
