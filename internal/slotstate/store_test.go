package slotstate_test

import (
	"errors"
	"reflect"
	"testing"

	"slidesmith/internal/deck"
	"slidesmith/internal/slotstate"
)

func newStoreWithSlots(t *testing.T, ids ...string) *slotstate.Store {
	t.Helper()
	store := slotstate.NewStore()
	slots := make([]deck.ImageSlot, 0, len(ids))
	for i, id := range ids {
		slots = append(slots, deck.ImageSlot{SlotID: id, PageIndex: i})
	}
	store.ReplaceSlots(slots)
	return store
}

func TestReplaceSlotsDefaultsPending(t *testing.T) {
	store := newStoreWithSlots(t, "s1", "s2")
	snap := store.Snapshot()
	if len(snap.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(snap.Slots))
	}
	for _, slot := range snap.Slots {
		if slot.Status != deck.SlotPending {
			t.Errorf("slot %s status = %s, want pending", slot.SlotID, slot.Status)
		}
	}
}

func TestReplaceSlotsClearsStaleStatus(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyStatus("s1", deck.SlotCompleted, "/img/a.png")
	store.ReplaceSlots([]deck.ImageSlot{{SlotID: "s1"}})
	slot, _ := store.Slot("s1")
	if slot.Status != deck.SlotPending || slot.ImagePath != "" {
		t.Fatalf("stale status survived replace: %+v", slot)
	}
}

func TestApplyStatusIdempotent(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyStatus("s1", deck.SlotCompleted, "/img/a.png")
	first := store.Snapshot()
	store.ApplyStatus("s1", deck.SlotCompleted, "/img/a.png")
	second := store.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("duplicate application changed state:\n%+v\n%+v", first, second)
	}
}

func TestApplyStatusOrderIndependence(t *testing.T) {
	orders := [][]deck.SlotStatus{
		{deck.SlotGenerating, deck.SlotCompleted},
		{deck.SlotCompleted, deck.SlotGenerating},
	}
	for _, order := range orders {
		store := newStoreWithSlots(t, "s1")
		for _, status := range order {
			path := ""
			if status == deck.SlotCompleted {
				path = "/img/a.png"
			}
			store.ApplyStatus("s1", status, path)
		}
		slot, _ := store.Slot("s1")
		if slot.Status != deck.SlotCompleted || slot.ImagePath != "/img/a.png" {
			t.Errorf("order %v: final slot = %+v, want completed with path", order, slot)
		}
	}
}

func TestApplyStatusUnknownSlotNoop(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	before := store.Snapshot()
	store.ApplyStatus("ghost", deck.SlotCompleted, "/img/x.png")
	after := store.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatal("unknown slot should be a no-op")
	}
}

func TestApplyStatusPreservesImagePathWhenOmitted(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyStatus("s1", deck.SlotCompleted, "/img/a.png")
	store.ApplyStatus("s1", deck.SlotUploaded, "")
	slot, _ := store.Slot("s1")
	if slot.ImagePath != "/img/a.png" {
		t.Fatalf("omitted path overwrote prior value: %+v", slot)
	}
}

func TestTerminalStatusNotDemoted(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyStatus("s1", deck.SlotFailed, "")
	store.ApplyStatus("s1", deck.SlotGenerating, "")
	slot, _ := store.Slot("s1")
	if slot.Status != deck.SlotFailed {
		t.Fatalf("late generating event demoted terminal status: %s", slot.Status)
	}
	// A conflicting terminal status keeps the first applied.
	store.ApplyStatus("s1", deck.SlotCompleted, "/img/a.png")
	slot, _ = store.Slot("s1")
	if slot.Status != deck.SlotFailed {
		t.Fatalf("conflicting terminal status replaced first one: %s", slot.Status)
	}
}

func TestUploadForcesStatus(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyStatus("s1", deck.SlotFailed, "")
	store.ApplyStatus("s1", deck.SlotUploaded, "/uploads/a.png")
	slot, _ := store.Slot("s1")
	if slot.Status != deck.SlotUploaded || slot.ImagePath != "/uploads/a.png" {
		t.Fatalf("upload did not win: %+v", slot)
	}
}

func TestRegenerateReentersMachine(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyStatus("s1", deck.SlotFailed, "")
	if !store.Regenerate("s1") {
		t.Fatal("regenerate on known slot should succeed")
	}
	slot, _ := store.Slot("s1")
	if slot.Status != deck.SlotGenerating {
		t.Fatalf("regenerate should move slot to generating, got %s", slot.Status)
	}
	if store.Snapshot().RegeneratingSlot != "s1" {
		t.Fatal("regenerating slot should be tracked")
	}
	if store.Regenerate("ghost") {
		t.Fatal("regenerate on unknown slot should fail")
	}
	store.ClearRegenerating()
	if store.Snapshot().RegeneratingSlot != "" {
		t.Fatal("regenerating marker should be cleared")
	}
}

func TestApplyProgressSnapshotWholesale(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyProgress(deck.TaskProgress{Total: 5, Completed: 1, Failed: 0})
	store.ApplyProgress(deck.TaskProgress{Total: 5, Completed: 3, Failed: 1})
	snap := store.Snapshot()
	if !snap.HasProgress {
		t.Fatal("expected progress to be recorded")
	}
	want := deck.TaskProgress{Total: 5, Completed: 3, Failed: 1}
	if snap.Progress != want {
		t.Fatalf("progress = %+v, want %+v (no client-side arithmetic)", snap.Progress, want)
	}
}

func TestApplyProgressRejectsInvalidSnapshot(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.ApplyProgress(deck.TaskProgress{Total: 2, Completed: 2, Failed: 1})
	if store.Snapshot().HasProgress {
		t.Fatal("invalid snapshot must be dropped")
	}
}

func TestBeginJobGating(t *testing.T) {
	store := slotstate.NewStore()
	if err := store.BeginJob("job-1"); err != nil {
		t.Fatalf("BeginJob failed: %v", err)
	}
	if err := store.BeginJob("job-2"); !errors.Is(err, slotstate.ErrJobActive) {
		t.Fatalf("expected ErrJobActive, got %v", err)
	}
	// Re-tracking the same job is allowed (reconnect after restart).
	if err := store.BeginJob("job-1"); err != nil {
		t.Fatalf("re-begin of same job failed: %v", err)
	}
	store.SetActiveJob("")
	if err := store.BeginJob("job-2"); err != nil {
		t.Fatalf("BeginJob after clear failed: %v", err)
	}
	if store.ActiveJob() != "job-2" {
		t.Fatalf("active job = %q", store.ActiveJob())
	}
}

func TestBeginJobDiscardsPreviousProgress(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	if err := store.BeginJob("job-1"); err != nil {
		t.Fatalf("BeginJob failed: %v", err)
	}
	store.ApplyProgress(deck.TaskProgress{Total: 1, Completed: 1})
	store.SetActiveJob("")
	if err := store.BeginJob("job-2"); err != nil {
		t.Fatalf("BeginJob failed: %v", err)
	}
	if store.Snapshot().HasProgress {
		t.Fatal("new job must supersede the previous TaskProgress")
	}
}

func TestConnectedFlagDoesNotAffectStatuses(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	store.SetConnected(true)
	store.ApplyStatus("s1", deck.SlotGenerating, "")
	store.SetConnected(false)
	slot, _ := store.Slot("s1")
	if slot.Status != deck.SlotGenerating {
		t.Fatal("connection flag must not affect status application")
	}
	if store.Snapshot().Connected {
		t.Fatal("connected flag should read false")
	}
}

func TestSubscribeCoalescesNotifications(t *testing.T) {
	store := newStoreWithSlots(t, "s1")
	ch, cancel := store.Subscribe()
	defer cancel()
	store.ApplyStatus("s1", deck.SlotGenerating, "")
	store.ApplyStatus("s1", deck.SlotCompleted, "/img/a.png")
	select {
	case <-ch:
	default:
		t.Fatal("expected a pending notification")
	}
	cancel()
	store.ApplyStatus("s1", deck.SlotUploaded, "")
	select {
	case <-ch:
		t.Fatal("cancelled subscription still notified")
	default:
	}
}
