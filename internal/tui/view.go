package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuckoo-ai/cuckoo/internal/ui/components"
	"github.com/cuckoo-ai/cuckoo/internal/ui/layout"
	"github.com/cuckoo-ai/cuckoo/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.session.label(), m.status(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	v.SetContent(layout.RenderFrame(header, m.renderContent(contentHeight), footer, m.width, m.height))
	return v
}

func (m Model) status() string {
	if m.completed {
		return "已完成  "
	}
	return ""
}

// renderContent draws the tail of the transcript above the progress bar
// and the prompt.
func (m Model) renderContent(height int) string {
	bar := "  " + components.NewProgressBar("进度", m.progress, m.width-4).View()
	prompt := "  " + m.input.View()

	var lines []string
	for _, e := range m.transcript {
		lines = append(lines, strings.Split(m.renderEntry(e), "\n")...)
		lines = append(lines, "")
	}
	if m.pending {
		lines = append(lines, theme.Hint.Render("  …"))
	}

	avail := height - 3 // bar, separator, prompt
	if avail < 0 {
		avail = 0
	}
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}

	sep := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(m.width-4, 0)))
	return strings.Join(lines, "\n") + "\n" + bar + "\n" + "  " + sep + "\n" + prompt
}

func (m Model) renderEntry(e entry) string {
	wrap := lipgloss.NewStyle().Width(max(m.width-6, 10)).PaddingLeft(2)
	switch e.from {
	case speakerLearner:
		return wrap.Render(theme.Learner.Render("你: ") + theme.Body.Render(e.text))
	case speakerTutor:
		return wrap.Render(theme.Tutor.Render("Cuckoo: ") + theme.Body.Render(e.text))
	default:
		return wrap.Render(theme.System.Render(e.text))
	}
}
