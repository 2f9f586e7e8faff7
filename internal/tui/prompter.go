package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/loadout/internal/engine"
	"github.com/danieljhkim/loadout/internal/session"
)

// Prompter asks for decisions on a terminal. It implements engine.Prompter.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Decide runs the prompt until a choice is made or the prompt is cancelled.
func (p *Prompter) Decide(ctx context.Context, req *engine.DecisionRequest) (session.Decision, error) {
	if len(req.Choices) == 0 {
		return session.Decision{}, fmt.Errorf("%w: no choices for %s", engine.ErrConflict, req.Problem.Kind)
	}

	prog := tea.NewProgram(newDecisionModel(req),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return session.Decision{}, fmt.Errorf("%w: %v", engine.ErrCancelled, ctx.Err())
		}
		return session.Decision{}, fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(decisionModel)
	if !ok {
		return session.Decision{}, fmt.Errorf("prompt failed: unexpected model %T", final)
	}
	return m.Result()
}
