package main

import (
	"context"
	"errors"
	"testing"

	"slidesmith/internal/deck"
	"slidesmith/internal/services/deckapi"
	"slidesmith/internal/slotstate"
)

type fakePlanner struct {
	preview deckapi.RenderPreview
	err     error
	calls   int
}

func (f *fakePlanner) RenderPreview(_ context.Context, _, _, _ string) (deckapi.RenderPreview, error) {
	f.calls++
	return f.preview, f.err
}

func TestWatchSlotsUsesRenderPlanForRunningJob(t *testing.T) {
	planner := &fakePlanner{preview: deckapi.RenderPreview{
		ImageSlots: []deck.ImageSlot{
			{SlotID: "slot-1", PageIndex: 0},
			{SlotID: "slot-2", PageIndex: 1},
		},
	}}
	// A running job reports no per-slot results yet.
	initial := deckapi.JobStatusResponse{JobID: "job-1", Status: deck.JobRunning}

	slots, err := watchSlots(context.Background(), planner, "doc-1", initial)
	if err != nil {
		t.Fatalf("watchSlots failed: %v", err)
	}
	if planner.calls != 1 || len(slots) != 2 {
		t.Fatalf("slots = %+v (planner calls %d)", slots, planner.calls)
	}

	// Events for the planned slots must land instead of being dropped as
	// unknown slot IDs.
	store := slotstate.NewStore()
	store.ReplaceSlots(slots)
	if err := store.BeginJob("job-1"); err != nil {
		t.Fatalf("BeginJob failed: %v", err)
	}
	slotstate.Apply(store, slotstate.SlotStarted{SlotID: "slot-1"})
	slotstate.Apply(store, slotstate.SlotCompleted{SlotID: "slot-1", ImagePath: "/img/slot-1.png"})

	slot, ok := store.Slot("slot-1")
	if !ok || slot.Status != deck.SlotCompleted || slot.ImagePath != "/img/slot-1.png" {
		t.Fatalf("slot-1 = %+v (ok=%v)", slot, ok)
	}
}

func TestWatchSlotsPrefersReportedResults(t *testing.T) {
	planner := &fakePlanner{}
	initial := deckapi.JobStatusResponse{
		JobID:  "job-1",
		Status: deck.JobRunning,
		Result: map[string]deckapi.SlotResult{
			"slot-1": {Status: "completed", ImagePath: "/img/slot-1.png"},
			"slot-2": {Status: "failed", Error: "content policy"},
		},
	}

	slots, err := watchSlots(context.Background(), planner, "doc-1", initial)
	if err != nil {
		t.Fatalf("watchSlots failed: %v", err)
	}
	if planner.calls != 0 {
		t.Fatalf("planner called %d times, want 0 when results carry the slot set", planner.calls)
	}
	if len(slots) != 2 {
		t.Fatalf("slots = %+v", slots)
	}
}

func TestWatchSlotsSurfacesPlanFailure(t *testing.T) {
	planner := &fakePlanner{err: errors.New("render service down")}
	initial := deckapi.JobStatusResponse{JobID: "job-1", Status: deck.JobRunning}

	if _, err := watchSlots(context.Background(), planner, "doc-1", initial); err == nil {
		t.Fatal("expected an error when the slot plan cannot be fetched")
	}
}
