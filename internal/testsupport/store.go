package testsupport

import (
	"fmt"
	"testing"

	"slidesmith/internal/config"
	"slidesmith/internal/deck"
	"slidesmith/internal/journal"
	"slidesmith/internal/slotstate"
)

// MustOpenJournal opens a journal.Journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Journal {
	t.Helper()

	j, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}

// SeedStore builds a slot status store preloaded with n pending slots named
// slot-1..slot-n.
func SeedStore(t testing.TB, n int) *slotstate.Store {
	t.Helper()

	slots := make([]deck.ImageSlot, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, deck.ImageSlot{
			SlotID:    fmt.Sprintf("slot-%d", i+1),
			PageIndex: i,
		})
	}
	store := slotstate.NewStore()
	store.ReplaceSlots(slots)
	return store
}
