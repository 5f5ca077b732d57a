package workflow

import (
	"errors"

	"slidesmith/internal/deck"
)

// ErrStepUnreachable is returned when manual navigation targets a step that
// is neither complete nor adjacent to a completed step.
var ErrStepUnreachable = errors.New("workflow step not reachable yet")

// Navigator tracks the step the UI currently shows. Automatic advancement is
// forward-only; an explicit user navigation to a later step is never
// overridden by a smaller computed default.
type Navigator struct {
	current deck.WorkflowStep
}

// NewNavigator starts at the document's derived default step.
func NewNavigator(doc deck.Document) *Navigator {
	return &Navigator{current: DefaultStep(doc)}
}

// Current returns the step the UI shows.
func (n *Navigator) Current() deck.WorkflowStep {
	return n.current
}

// Advance recomputes the default step for the document and applies it only
// when it moves the UI forward. It returns the step in effect afterwards.
func (n *Navigator) Advance(doc deck.Document) deck.WorkflowStep {
	if computed := DefaultStep(doc); n.current.Before(computed) {
		n.current = computed
	}
	return n.current
}

// Navigate records an explicit user step choice, subject to reachability
// gating. Unlike Advance it may move backward: user choices always win.
func (n *Navigator) Navigate(doc deck.Document, step deck.WorkflowStep) error {
	if !Reachable(doc, step) {
		return ErrStepUnreachable
	}
	n.current = step
	return nil
}
