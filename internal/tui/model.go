package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/loadout/internal/engine"
	"github.com/danieljhkim/loadout/internal/session"
)

// decisionModel is the bubbletea model for one conflict decision.
type decisionModel struct {
	req    *engine.DecisionRequest
	help   help.Model
	width  int
	cursor int

	done      bool
	cancelled bool
}

func newDecisionModel(req *engine.DecisionRequest) decisionModel {
	return decisionModel{
		req:  req,
		help: help.New(),
	}
}

func (m decisionModel) Init() tea.Cmd {
	return nil
}

func (m decisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.req.Choices)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Choose):
			if len(m.req.Choices) == 0 {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		default:
			// Digits pick a choice directly.
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				if i := int(s[0] - '1'); i < len(m.req.Choices) {
					m.cursor = i
					m.done = true
					return m, tea.Quit
				}
			}
		}
	}
	return m, nil
}

// Result returns the chosen decision, or engine.ErrCancelled.
func (m decisionModel) Result() (session.Decision, error) {
	if m.cancelled || !m.done {
		return session.Decision{}, engine.ErrCancelled
	}
	return m.req.Choices[m.cursor].Decision, nil
}
