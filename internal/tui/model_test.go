package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/engine"
	"github.com/danieljhkim/loadout/internal/session"
)

func categoryRequest() *engine.DecisionRequest {
	prob := conflict.Problem{
		Kind:     conflict.KindExclusionByCategory,
		Addon:    &addon.Addon{ID: "a"},
		Excluded: []*addon.Addon{{ID: "b"}},
	}
	return &engine.DecisionRequest{
		Profile: "doom",
		Problem: prob,
		Pending: 1,
		Choices: session.Choices(prob),
	}
}

func press(m decisionModel, msgs ...tea.KeyMsg) (decisionModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(decisionModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDecisionModel_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want session.Action
	}{
		{name: "enter takes first", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, want: session.ActionDropExcluded},
		{name: "down then enter", keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, want: session.ActionDropExcluding},
		{name: "j then enter", keys: []tea.KeyMsg{runes("j"), {Type: tea.KeyEnter}}, want: session.ActionDropExcluding},
		{name: "down stops at last", keys: []tea.KeyMsg{runes("j"), runes("j"), runes("j"), {Type: tea.KeyEnter}}, want: session.ActionDropExcluding},
		{name: "up stops at first", keys: []tea.KeyMsg{{Type: tea.KeyUp}, runes("k"), {Type: tea.KeyEnter}}, want: session.ActionDropExcluded},
		{name: "digit picks directly", keys: []tea.KeyMsg{runes("2")}, want: session.ActionDropExcluding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(newDecisionModel(categoryRequest()), tt.keys...)
			if !m.done || cmd == nil {
				t.Fatal("expected the model to finish")
			}
			d, err := m.Result()
			if err != nil {
				t.Fatalf("Result() error = %v", err)
			}
			if d.Action != tt.want {
				t.Errorf("Action = %s, want %s", d.Action, tt.want)
			}
		})
	}
}

func TestDecisionModel_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}, runes("q")} {
		t.Run(msg.String(), func(t *testing.T) {
			m, _ := press(newDecisionModel(categoryRequest()), msg)
			if !m.cancelled {
				t.Fatal("expected the model to be cancelled")
			}
			if _, err := m.Result(); !errors.Is(err, engine.ErrCancelled) {
				t.Errorf("Result() error = %v, want ErrCancelled", err)
			}
			if m.View() != "" {
				t.Error("finished model should render nothing")
			}
		})
	}
}

func TestDecisionModel_IgnoresOutOfRangeDigit(t *testing.T) {
	m, _ := press(newDecisionModel(categoryRequest()), runes("7"))
	if m.done {
		t.Error("digit without a matching choice should be ignored")
	}
	if _, err := m.Result(); !errors.Is(err, engine.ErrCancelled) {
		t.Errorf("unfinished Result() error = %v, want ErrCancelled", err)
	}
}

func TestDecisionModel_View(t *testing.T) {
	req := categoryRequest()
	req.Retry = errors.New("keep does not answer exclusion-by-category")
	m := newDecisionModel(req)

	view := m.View()
	for _, want := range []string{"doom", "a excludes b", "1 more", "does not answer", "1. Don't use [b]", "2. Don't use a"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestPrompter_Decide(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("j\r"), &out)
	d, err := p.Decide(ctx, categoryRequest())
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if d.Action != session.ActionDropExcluding {
		t.Errorf("Action = %s, want drop-excluding", d.Action)
	}
}

func TestPrompter_NoChoices(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Decide(context.Background(), &engine.DecisionRequest{Profile: "doom"})
	if !errors.Is(err, engine.ErrConflict) {
		t.Errorf("Decide() error = %v, want ErrConflict", err)
	}
}
