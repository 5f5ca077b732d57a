package workflow_test

import (
	"testing"

	"slidesmith/internal/deck"
	"slidesmith/internal/workflow"
)

func docWithPages(pages ...deck.Page) deck.Document {
	return deck.Document{ID: "doc-1", Pages: pages}
}

func TestEmptyDocumentDefaultsToOutline(t *testing.T) {
	doc := deck.Document{ID: "doc-1"}
	if step := workflow.DefaultStep(doc); step != deck.StepOutline {
		t.Fatalf("default = %s, want outline", step)
	}
	if len(workflow.Completed(doc)) != 0 {
		t.Fatal("empty document should complete nothing")
	}
	for _, step := range deck.Steps()[1:] {
		if workflow.Reachable(doc, step) {
			t.Errorf("step %s should be unreachable on an empty document", step)
		}
	}
	if !workflow.Reachable(doc, deck.StepOutline) {
		t.Fatal("first step must always be reachable")
	}
}

func TestThreePagesNoDescriptionsNoImages(t *testing.T) {
	doc := docWithPages(
		deck.Page{Title: "Intro"},
		deck.Page{Title: "Safety Basics"},
		deck.Page{Title: "Summary"},
	)
	completed := workflow.Completed(doc)
	if !completed[deck.StepOutline] {
		t.Fatal("outline should be complete")
	}
	if completed[deck.StepDescriptions] || completed[deck.StepImages] {
		t.Fatalf("unexpected completions: %v", completed)
	}
	if step := workflow.DefaultStep(doc); step != deck.StepDescriptions {
		t.Fatalf("default = %s, want descriptions", step)
	}
}

func TestCompletionIsMonotone(t *testing.T) {
	doc := docWithPages(
		deck.Page{Title: "Intro", Description: "overview of the unit"},
	)
	if !workflow.Completed(doc)[deck.StepDescriptions] {
		t.Fatal("descriptions should be complete")
	}
	// Adding content must never retract a completed stage.
	doc.Pages = append(doc.Pages, deck.Page{Title: "More", ImageRef: "/img/a.png"})
	completed := workflow.Completed(doc)
	if !completed[deck.StepDescriptions] || !completed[deck.StepImages] {
		t.Fatalf("completion regressed: %v", completed)
	}
}

func TestDefaultStepAllContentPresent(t *testing.T) {
	doc := docWithPages(deck.Page{
		Title:       "Intro",
		Description: "overview",
		ImageRef:    "/img/a.png",
	})
	if step := workflow.DefaultStep(doc); step != deck.StepExport {
		t.Fatalf("default = %s, want export", step)
	}
}

func TestReachabilityGating(t *testing.T) {
	doc := docWithPages(deck.Page{Title: "Intro"})
	if !workflow.Reachable(doc, deck.StepDescriptions) {
		t.Fatal("descriptions should follow completed outline")
	}
	if workflow.Reachable(doc, deck.StepImages) {
		t.Fatal("images should be gated until descriptions complete")
	}
	if workflow.Reachable(doc, deck.StepExport) {
		t.Fatal("export should be gated")
	}
}

func TestNavigatorForwardOnlyAdvance(t *testing.T) {
	doc := docWithPages(deck.Page{Title: "Intro", Description: "overview", ImageRef: "/img/a.png"})
	nav := workflow.NewNavigator(doc)
	if nav.Current() != deck.StepExport {
		t.Fatalf("start = %s, want export", nav.Current())
	}

	// User sits on export; a recomputation whose default is earlier must not
	// move the UI backward.
	partial := docWithPages(deck.Page{Title: "Intro", Description: "overview"})
	if step := nav.Advance(partial); step != deck.StepExport {
		t.Fatalf("auto-advance moved backward to %s", step)
	}
}

func TestNavigatorUserNavigationWins(t *testing.T) {
	doc := docWithPages(deck.Page{Title: "Intro", Description: "overview"})
	nav := workflow.NewNavigator(doc)
	if nav.Current() != deck.StepImages {
		t.Fatalf("start = %s, want images", nav.Current())
	}
	// Explicit navigation backward is allowed.
	if err := nav.Navigate(doc, deck.StepOutline); err != nil {
		t.Fatalf("backward navigation failed: %v", err)
	}
	if nav.Current() != deck.StepOutline {
		t.Fatalf("current = %s, want outline", nav.Current())
	}
	// Skipping ahead past the gate is not.
	if err := nav.Navigate(doc, deck.StepExport); err == nil {
		t.Fatal("expected gating error for export")
	}
	// Auto-advance from the user's outline position moves forward again.
	if step := nav.Advance(doc); step != deck.StepImages {
		t.Fatalf("advance = %s, want images", step)
	}
}
