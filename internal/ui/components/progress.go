package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cuckoo-ai/cuckoo/internal/ui/theme"
)

// ProgressBar renders course progress as a horizontal bar.
type ProgressBar struct {
	Label   string
	Percent int // 0..100
	Width   int
}

func NewProgressBar(label string, percent, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Width: width}
}

func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	const percentWidth = 6 // "  100%"
	barWidth := p.Width - lipgloss.Width(result) - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	percent := min(max(p.Percent, 0), 100)
	filled := barWidth * percent / 100
	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d%%", percent))
	return result
}
