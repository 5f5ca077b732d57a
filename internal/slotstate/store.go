package slotstate

import (
	"errors"
	"sync"

	"slidesmith/internal/deck"
)

// ErrJobActive is returned by BeginJob while a previous batch job is still
// being tracked.
var ErrJobActive = errors.New("a generation job is already active")

// Snapshot is a consistent copy of the store for rendering. Slots preserve
// the order they were registered in.
type Snapshot struct {
	Slots            []deck.ImageSlot
	Progress         deck.TaskProgress
	HasProgress      bool
	ActiveJob        string
	RegeneratingSlot string
	Connected        bool
}

// Store owns the live slot set and job tracking state for one document
// editing session.
type Store struct {
	mu               sync.Mutex
	slots            map[string]deck.ImageSlot
	order            []string
	progress         *deck.TaskProgress
	activeJob        string
	regeneratingSlot string
	connected        bool
	watchers         []chan struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{slots: make(map[string]deck.ImageSlot)}
}

// ReplaceSlots swaps in a full slot set, discarding any stale status from a
// previous render generation. Slots without a status start out pending.
func (s *Store) ReplaceSlots(slots []deck.ImageSlot) {
	s.mu.Lock()
	s.slots = make(map[string]deck.ImageSlot, len(slots))
	s.order = s.order[:0]
	for _, slot := range slots {
		if slot.SlotID == "" {
			continue
		}
		if slot.Status == "" {
			slot.Status = deck.SlotPending
		}
		if _, exists := s.slots[slot.SlotID]; !exists {
			s.order = append(s.order, slot.SlotID)
		}
		s.slots[slot.SlotID] = slot
	}
	s.mu.Unlock()
	s.notify()
}

// ApplyStatus merges a single slot's new status. Unknown slot identifiers are
// a no-op; the slot set only ever contains server-known slots. An empty
// imagePath preserves any prior value. Applying the same (slot, status) pair
// twice produces the same resulting state.
//
// Transition tolerance mirrors at-least-once delivery: "generating" is
// accepted even when already generating but never demotes a terminal status,
// and terminal statuses are accepted from any non-terminal state so a dropped
// or reordered "started" event cannot wedge a slot. Uploads force the status
// unconditionally; they are client-initiated and always win.
func (s *Store) ApplyStatus(slotID string, status deck.SlotStatus, imagePath string) {
	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if !accepts(slot.Status, status) {
		s.mu.Unlock()
		return
	}
	changed := slot.Status != status
	slot.Status = status
	if imagePath != "" && slot.ImagePath != imagePath {
		slot.ImagePath = imagePath
		changed = true
	}
	s.slots[slotID] = slot
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// accepts applies the slot state machine's delivery tolerance rules.
func accepts(current, next deck.SlotStatus) bool {
	switch next {
	case deck.SlotUploaded:
		return true
	case deck.SlotCompleted, deck.SlotFailed:
		// Duplicate terminal deliveries of the same status are idempotent;
		// conflicting terminal statuses keep the first one applied.
		return !current.IsTerminal() || current == next
	case deck.SlotGenerating:
		return !current.IsTerminal()
	case deck.SlotPending:
		return current == deck.SlotPending
	default:
		return false
	}
}

// Regenerate re-enters the state machine for one slot as a new attempt. It is
// the only path from a terminal status back to generating and is tracked
// independently of the aggregate batch job.
func (s *Store) Regenerate(slotID string) bool {
	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	slot.Status = deck.SlotGenerating
	s.slots[slotID] = slot
	s.regeneratingSlot = slotID
	s.mu.Unlock()
	s.notify()
	return true
}

// ClearRegenerating drops the independently tracked regenerate marker.
func (s *Store) ClearRegenerating() {
	s.mu.Lock()
	s.regeneratingSlot = ""
	s.mu.Unlock()
	s.notify()
}

// ApplyProgress replaces the aggregate counters wholesale. Counters arrive as
// complete snapshots from the server, so no merge arithmetic happens here.
// Snapshots violating completed+failed <= total are dropped.
func (s *Store) ApplyProgress(progress deck.TaskProgress) {
	if !progress.Valid() {
		return
	}
	s.mu.Lock()
	cp := progress
	s.progress = &cp
	s.mu.Unlock()
	s.notify()
}

// BeginJob records a new tracked batch job. It fails while another job is
// active: the previous job must resolve (or be cleared) first. Beginning a
// job discards the previous job's progress counters.
func (s *Store) BeginJob(jobID string) error {
	s.mu.Lock()
	if s.activeJob != "" && s.activeJob != jobID {
		s.mu.Unlock()
		return ErrJobActive
	}
	s.activeJob = jobID
	s.progress = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetActiveJob records or clears the tracked job identifier without the
// launch gating of BeginJob. An empty jobID signals no job in flight;
// already-applied per-slot statuses are left intact.
func (s *Store) SetActiveJob(jobID string) {
	s.mu.Lock()
	s.activeJob = jobID
	if jobID == "" {
		s.regeneratingSlot = ""
	}
	s.mu.Unlock()
	s.notify()
}

// ActiveJob returns the currently tracked job identifier, if any.
func (s *Store) ActiveJob() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeJob
}

// SetConnected reflects push-channel connectivity for UI indication only; it
// has no effect on how statuses are applied.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	changed := s.connected != connected
	s.connected = connected
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Slot returns a copy of one slot by identifier.
func (s *Store) Slot(slotID string) (deck.ImageSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	return slot, ok
}

// Snapshot returns a consistent copy of the entire store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Slots:            make([]deck.ImageSlot, 0, len(s.order)),
		ActiveJob:        s.activeJob,
		RegeneratingSlot: s.regeneratingSlot,
		Connected:        s.connected,
	}
	for _, id := range s.order {
		if slot, ok := s.slots[id]; ok {
			snap.Slots = append(snap.Slots, slot)
		}
	}
	if s.progress != nil {
		snap.Progress = *s.progress
		snap.HasProgress = true
	}
	return snap
}

// Subscribe registers a coalescing change channel. The returned cancel
// function removes the registration; the channel is never closed.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	cancel := func() {
		s.mu.Lock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.mu.Lock()
	watchers := make([]chan struct{}, len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()
	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
