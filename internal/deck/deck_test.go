package deck_test

import (
	"testing"

	"slidesmith/internal/deck"
)

func TestParseSlotStatus(t *testing.T) {
	cases := []struct {
		input    string
		expected deck.SlotStatus
		ok       bool
	}{
		{"pending", deck.SlotPending, true},
		{" Generating ", deck.SlotGenerating, true},
		{"COMPLETED", deck.SlotCompleted, true},
		{"done", deck.SlotCompleted, true},
		{"uploaded", deck.SlotUploaded, true},
		{"", "", false},
		{"unknown", "", false},
	}
	for _, tc := range cases {
		status, ok := deck.ParseSlotStatus(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseSlotStatus(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && status != tc.expected {
			t.Errorf("ParseSlotStatus(%q) = %q, want %q", tc.input, status, tc.expected)
		}
	}
}

func TestSlotStatusTerminal(t *testing.T) {
	terminal := map[deck.SlotStatus]bool{
		deck.SlotPending:    false,
		deck.SlotGenerating: false,
		deck.SlotCompleted:  true,
		deck.SlotFailed:     true,
		deck.SlotUploaded:   true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestParseJobStatus(t *testing.T) {
	if status, ok := deck.ParseJobStatus("partial"); !ok || status != deck.JobPartial {
		t.Fatalf("ParseJobStatus(partial) = %q, %v", status, ok)
	}
	if _, ok := deck.ParseJobStatus("bogus"); ok {
		t.Fatal("expected bogus status to be rejected")
	}
	if !deck.JobPartial.IsTerminal() {
		t.Fatal("PARTIAL must be terminal for flow control")
	}
	if deck.JobRunning.IsTerminal() {
		t.Fatal("RUNNING must not be terminal")
	}
}

func TestTaskProgressValid(t *testing.T) {
	cases := []struct {
		progress deck.TaskProgress
		valid    bool
	}{
		{deck.TaskProgress{Total: 5, Completed: 3, Failed: 1}, true},
		{deck.TaskProgress{Total: 5, Completed: 5, Failed: 0}, true},
		{deck.TaskProgress{Total: 5, Completed: 4, Failed: 2}, false},
		{deck.TaskProgress{Total: -1}, false},
		{deck.TaskProgress{Total: 2, Completed: -1}, false},
	}
	for _, tc := range cases {
		if got := tc.progress.Valid(); got != tc.valid {
			t.Errorf("%+v Valid() = %v, want %v", tc.progress, got, tc.valid)
		}
	}
}

func TestStepOrdering(t *testing.T) {
	steps := deck.Steps()
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	for i := 1; i < len(steps); i++ {
		if !steps[i-1].Before(steps[i]) {
			t.Errorf("expected %s < %s", steps[i-1], steps[i])
		}
	}
	if deck.StepExport.Next() != deck.StepExport {
		t.Error("export.Next() should stay at export")
	}
	if deck.StepOutline.Next() != deck.StepDescriptions {
		t.Error("outline.Next() should be descriptions")
	}
}

func TestParseStep(t *testing.T) {
	step, ok := deck.ParseStep(" Images ")
	if !ok || step != deck.StepImages {
		t.Fatalf("ParseStep(Images) = %v, %v", step, ok)
	}
	if _, ok := deck.ParseStep("review"); ok {
		t.Fatal("expected unknown step to be rejected")
	}
}

func TestPageContentPredicates(t *testing.T) {
	page := deck.Page{Title: "  ", Description: "", ImageRef: ""}
	if page.HasTitle() || page.HasDescription() || page.HasImage() {
		t.Fatal("blank page should have no content")
	}
	page = deck.Page{Title: "Intro", Description: "overview", ImageRef: "/files/a.png"}
	if !page.HasTitle() || !page.HasDescription() || !page.HasImage() {
		t.Fatal("populated page should report content present")
	}
}
