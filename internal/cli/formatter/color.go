package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StressStyle colors an average stress level: green below 3, yellow
// below 7, red otherwise.
func StressStyle(avg float64) lipgloss.Style {
	switch {
	case avg < 3:
		return StyleGreen
	case avg < 7:
		return StyleYellow
	default:
		return StyleRed
	}
}

// SourceBadge labels where a chat reply came from.
func SourceBadge(src domain.ChatSource) string {
	switch src {
	case domain.SourceDify:
		return StyleGreen.Render("● dify")
	case domain.SourceSpark:
		return StyleBlue.Render("● spark")
	case domain.SourceDifyError:
		return StyleRed.Render("● error")
	case domain.SourceFallback:
		return StyleYellow.Render("○ offline")
	default:
		return StyleDim.Render(string(src))
	}
}

// TrackerPill renders a monitoring state.
func TrackerPill(s domain.TrackerState) string {
	switch s {
	case domain.TrackerActive:
		return StyleGreen.Render("● 进行中")
	case domain.TrackerEnded:
		return StyleDim.Render("✔ 已结束")
	default:
		return StyleDim.Render("○ 未开始")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders a user-facing failure message.
func Error(text string) string {
	return StyleRed.Render("✖ " + text)
}

// Success renders a confirmation line.
func Success(text string) string {
	return StyleGreen.Render("✔ " + text)
}
