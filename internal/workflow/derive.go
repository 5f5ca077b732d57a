package workflow

import "slidesmith/internal/deck"

// Completed reports which pipeline stages the persisted document satisfies.
// Completion is monotone in document content: adding content never removes a
// completed stage. Export has no content marker of its own and is never
// reported complete.
func Completed(doc deck.Document) map[deck.WorkflowStep]bool {
	completed := make(map[deck.WorkflowStep]bool, 3)
	for _, page := range doc.Pages {
		if page.HasTitle() {
			completed[deck.StepOutline] = true
		}
		if page.HasDescription() {
			completed[deck.StepDescriptions] = true
		}
		if page.HasImage() {
			completed[deck.StepImages] = true
		}
	}
	return completed
}

// DefaultStep computes the step the UI should land on: the first incomplete
// stage in canonical order. An empty document yields outline; a document
// complete through images yields export.
func DefaultStep(doc deck.Document) deck.WorkflowStep {
	completed := Completed(doc)
	for _, step := range deck.Steps() {
		if !completed[step] {
			return step
		}
	}
	return deck.StepExport
}

// Reachable reports whether manual navigation to step is allowed: the first
// step always is; any other step must be complete or immediately follow a
// completed step.
func Reachable(doc deck.Document, step deck.WorkflowStep) bool {
	if step == deck.StepOutline {
		return true
	}
	completed := Completed(doc)
	if completed[step] {
		return true
	}
	prev := step - 1
	return completed[prev]
}
