package slotstate

import (
	"encoding/json"
	"strings"

	"slidesmith/internal/deck"
)

// Event is one typed status notification from the generation service. Both
// the push channel and the polling fallback translate their payloads into
// this union and fold them through Apply, keeping a single state-transition
// implementation for the two delivery paths.
type Event interface {
	Kind() string
}

// SlotStarted reports that generation began for one slot.
type SlotStarted struct {
	SlotID string
}

func (SlotStarted) Kind() string { return "slot_started" }

// SlotCompleted reports a finished slot with its produced image path.
type SlotCompleted struct {
	SlotID    string
	ImagePath string
	Progress  *deck.TaskProgress
}

func (SlotCompleted) Kind() string { return "slot_completed" }

// SlotFailed reports a failed slot.
type SlotFailed struct {
	SlotID   string
	Error    string
	Progress *deck.TaskProgress
}

func (SlotFailed) Kind() string { return "slot_failed" }

// TaskCompleted reports the batch job resolved; Progress carries the final
// counters (a failed count above zero means partial completion).
type TaskCompleted struct {
	Progress *deck.TaskProgress
}

func (TaskCompleted) Kind() string { return "task_completed" }

// TaskFailed reports the batch job failed as a whole. Per-slot statuses
// already applied stay intact.
type TaskFailed struct {
	Error string
}

func (TaskFailed) Kind() string { return "task_failed" }

// Apply folds one event into the store. Applying the same event twice yields
// the same state as applying it once.
func Apply(store *Store, event Event) {
	switch ev := event.(type) {
	case SlotStarted:
		store.ApplyStatus(ev.SlotID, deck.SlotGenerating, "")
	case SlotCompleted:
		store.ApplyStatus(ev.SlotID, deck.SlotCompleted, ev.ImagePath)
		if ev.Progress != nil {
			store.ApplyProgress(*ev.Progress)
		}
	case SlotFailed:
		store.ApplyStatus(ev.SlotID, deck.SlotFailed, "")
		if ev.Progress != nil {
			store.ApplyProgress(*ev.Progress)
		}
	case TaskCompleted:
		if ev.Progress != nil {
			store.ApplyProgress(*ev.Progress)
		}
		store.SetActiveJob("")
	case TaskFailed:
		store.SetActiveJob("")
	}
}

// envelope is the wire shape shared by every inbound push-channel message.
type envelope struct {
	Type      string             `json:"type"`
	JobID     string             `json:"job_id,omitempty"`
	SlotID    string             `json:"slot_id,omitempty"`
	ImagePath string             `json:"image_path,omitempty"`
	Progress  *deck.TaskProgress `json:"progress,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// DecodeEvent parses an inbound push-channel message into an Event. Unknown
// or malformed event kinds return ok=false and are dropped by callers;
// leniency here keeps the channel forward compatible.
func DecodeEvent(data []byte) (Event, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	switch strings.TrimSpace(env.Type) {
	case "slot_started":
		if env.SlotID == "" {
			return nil, false
		}
		return SlotStarted{SlotID: env.SlotID}, true
	case "slot_completed":
		if env.SlotID == "" {
			return nil, false
		}
		return SlotCompleted{SlotID: env.SlotID, ImagePath: env.ImagePath, Progress: env.Progress}, true
	case "slot_failed":
		if env.SlotID == "" {
			return nil, false
		}
		return SlotFailed{SlotID: env.SlotID, Error: env.Error, Progress: env.Progress}, true
	case "task_completed":
		return TaskCompleted{Progress: env.Progress}, true
	case "task_failed":
		return TaskFailed{Error: env.Error}, true
	default:
		return nil, false
	}
}
