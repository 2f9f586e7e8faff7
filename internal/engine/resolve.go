package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/session"
)

// DecisionRequest is what a Prompter is asked to decide.
type DecisionRequest struct {
	// Profile is the profile being resolved
	Profile string

	// Problem is the conflict to answer
	Problem conflict.Problem

	// Pending is the number of further problems found in the same stage
	Pending int

	// Choices are the valid decisions, in presentation order
	Choices []session.Choice

	// Retry is set when the previous decision was rejected
	Retry error
}

// Prompter obtains decisions for conflicts, typically from a person.
// Returning ErrCancelled cancels the resolution.
type Prompter interface {
	Decide(ctx context.Context, req *DecisionRequest) (session.Decision, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, req *DecisionRequest) (session.Decision, error)

// Decide calls f.
func (f PrompterFunc) Decide(ctx context.Context, req *DecisionRequest) (session.Decision, error) {
	return f(ctx, req)
}

// FirstChoice is a Prompter that always takes the first offered choice.
var FirstChoice Prompter = PrompterFunc(func(_ context.Context, req *DecisionRequest) (session.Decision, error) {
	if len(req.Choices) == 0 {
		return session.Decision{}, fmt.Errorf("%w: no choices for %s", ErrConflict, req.Problem.Kind)
	}
	return req.Choices[0].Decision, nil
})

// NonInteractive is a Prompter that refuses every conflict.
var NonInteractive Prompter = PrompterFunc(func(_ context.Context, req *DecisionRequest) (session.Decision, error) {
	return session.Decision{}, fmt.Errorf("%w: %s", ErrConflict, req.Problem)
})

// maxRetries bounds how often one problem is re-prompted after rejected
// decisions.
const maxRetries = 3

// Resolve runs a resolution session for a profile, asking prompter for a
// decision whenever the detector reports a problem.
//
// Only one Resolve may run per profile at a time. Detachments applied
// before a cancellation or prompter error are saved along with the
// profile; the returned error then wraps ErrCancelled or the prompter's
// error.
func (e *Engine) Resolve(ctx context.Context, req *ResolveRequest, prompter Prompter) (*ResolveResult, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := w.profile(e.profileStore, req.Profile)
	if err != nil {
		return nil, err
	}

	if err := e.acquire(p.ID); err != nil {
		return nil, err
	}
	defer e.release(p.ID)

	target := p
	if req.DryRun {
		target = p.Clone()
	}
	sess := session.New(w.detector, w.planner, target)
	if _, err := sess.Start(w.planner.Roster(target)); err != nil {
		return nil, err
	}

	result := &ResolveResult{Profile: p.ID}
	runErr := e.drive(ctx, sess, prompter, result)

	result.State = sess.State().String()
	result.Addons = nonNil(sess.Result())
	result.Detached = sess.Detached()
	result.Overrides = newOverrideInfos(sess.Overrides())

	if len(result.Detached) > 0 && !req.DryRun {
		if err := e.saveProfile(target); err != nil {
			return result, err
		}
		result.Saved = true
	}

	e.logger.Info("resolution finished",
		"profile", p.ID,
		"state", result.State,
		"decisions", result.Decisions,
		"detached", result.Detached,
	)
	return result, runErr
}

// drive feeds decisions into sess until it reaches a terminal state.
func (e *Engine) drive(ctx context.Context, sess *session.Session, prompter Prompter, result *ResolveResult) error {
	var retry error
	retries := 0
	for sess.State() == session.StateAwaitingDecision {
		if err := ctx.Err(); err != nil {
			sess.Cancel()
			return fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		prob, _ := sess.CurrentProblem()
		decision, err := prompter.Decide(ctx, &DecisionRequest{
			Profile: sess.Profile().ID,
			Problem: prob,
			Pending: len(sess.Problems()) - 1,
			Choices: session.Choices(prob),
			Retry:   retry,
		})
		if err != nil {
			sess.Cancel()
			if errors.Is(err, ErrCancelled) {
				return err
			}
			return fmt.Errorf("prompter failed: %w", err)
		}

		if _, err := sess.Apply(decision); err != nil {
			if !errors.Is(err, session.ErrInvalidDecision) || retries >= maxRetries {
				sess.Cancel()
				return fmt.Errorf("%w: %v", ErrValidation, err)
			}
			e.logger.Warn("decision rejected", "problem", prob.Kind.String(), "err", err)
			retry = err
			retries++
			continue
		}

		e.logger.Debug("decision applied", "problem", prob.Kind.String(), "action", decision.Action.String())
		result.Decisions++
		retry = nil
		retries = 0
	}
	return nil
}
