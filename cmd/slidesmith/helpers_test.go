package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"slidesmith/internal/deck"
	"slidesmith/internal/slotstate"
)

func TestProgressLine(t *testing.T) {
	tests := []struct {
		name     string
		progress deck.TaskProgress
		want     string
	}{
		{"empty", deck.TaskProgress{}, "no progress reported"},
		{"running", deck.TaskProgress{Total: 5, Completed: 2}, "2/5 slots finished"},
		{"with failures", deck.TaskProgress{Total: 5, Completed: 3, Failed: 1}, "4/5 slots finished (1 failed)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progressLine(tt.progress); got != tt.want {
				t.Errorf("progressLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	got := truncate("a very long theme description", 10)
	if len([]rune(got)) > 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncate long = %q", got)
	}
	// Multi-byte themes must not be cut mid-rune.
	got = truncate("数控机床安全操作要点概述", 6)
	if got != "数控机床安…" {
		t.Errorf("truncate cjk = %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
}

func TestRenderSnapshotListsSlotsInOrder(t *testing.T) {
	store := slotstate.NewStore()
	store.ReplaceSlots([]deck.ImageSlot{
		{SlotID: "intro", PageIndex: 0, Theme: "gear assembly"},
		{SlotID: "safety", PageIndex: 3, Theme: "checklist"},
	})
	store.ApplyStatus("intro", deck.SlotCompleted, "/img/intro.png")
	store.ApplyProgress(deck.TaskProgress{Total: 2, Completed: 1})

	out := renderSnapshot(store.Snapshot())
	introAt := strings.Index(out, "intro")
	safetyAt := strings.Index(out, "safety")
	if introAt < 0 || safetyAt < 0 || introAt > safetyAt {
		t.Fatalf("slots out of order in:\n%s", out)
	}
	if !strings.Contains(out, "1/2 slots finished") {
		t.Errorf("missing progress line in:\n%s", out)
	}
	if !strings.Contains(out, "/img/intro.png") {
		t.Errorf("missing image path in:\n%s", out)
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		title    string
		template string
		want     string
	}{
		{"mechatronics basics", "theory_professional", "Mechatronics_Basics_theory_professional.pptx"},
		{"", "", "Deck.pptx"},
		{"///", "", "Deck.pptx"},
		{"Intro to CNC", "", "Intro_To_CNC.pptx"},
	}
	for _, tt := range tests {
		if got := exportFilename(tt.title, tt.template); got != tt.want {
			t.Errorf("exportFilename(%q, %q) = %q, want %q", tt.title, tt.template, got, tt.want)
		}
	}
}

func TestSlotGlyphCoversStatuses(t *testing.T) {
	statuses := []deck.SlotStatus{
		deck.SlotPending, deck.SlotGenerating, deck.SlotCompleted, deck.SlotFailed, deck.SlotUploaded,
	}
	seen := map[string]bool{}
	for _, status := range statuses {
		glyph := slotGlyph(status)
		if glyph == "?" {
			t.Errorf("no glyph for %s", status)
		}
		if seen[glyph] {
			t.Errorf("glyph %q reused", glyph)
		}
		seen[glyph] = true
	}
}
