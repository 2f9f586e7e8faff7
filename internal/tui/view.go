package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	problemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			PaddingLeft(2)

	retryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205"))

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(lipgloss.Color("240"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			PaddingLeft(2)
)

func (m decisionModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Conflict in %s", m.req.Profile)))
	b.WriteString("\n\n")

	problem := problemStyle
	if m.width > 0 {
		problem = problem.MaxWidth(m.width)
	}
	b.WriteString(problem.Render(m.req.Problem.String()))
	b.WriteString("\n")
	if m.req.Pending > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d more in this stage", m.req.Pending)))
		b.WriteString("\n")
	}
	if m.req.Retry != nil {
		b.WriteString(retryStyle.Render(m.req.Retry.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, c := range m.req.Choices {
		label := fmt.Sprintf("%d. %s", i+1, c.Label)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(unselectedItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}
