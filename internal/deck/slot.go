package deck

import "strings"

// SlotStatus represents the lifecycle of an image slot.
type SlotStatus string

const (
	SlotPending    SlotStatus = "pending"
	SlotGenerating SlotStatus = "generating"
	SlotCompleted  SlotStatus = "completed"
	SlotFailed     SlotStatus = "failed"
	SlotUploaded   SlotStatus = "uploaded"
)

var allSlotStatuses = []SlotStatus{
	SlotPending,
	SlotGenerating,
	SlotCompleted,
	SlotFailed,
	SlotUploaded,
}

var slotStatusSet = func() map[SlotStatus]struct{} {
	set := make(map[SlotStatus]struct{}, len(allSlotStatuses))
	for _, status := range allSlotStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllSlotStatuses returns the ordered list of known slot statuses.
func AllSlotStatuses() []SlotStatus {
	cp := make([]SlotStatus, len(allSlotStatuses))
	copy(cp, allSlotStatuses)
	return cp
}

// ParseSlotStatus converts a string into a known SlotStatus. The server's
// legacy "done" alias maps to SlotCompleted.
func ParseSlotStatus(value string) (SlotStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "done" {
		return SlotCompleted, true
	}
	status := SlotStatus(normalized)
	_, ok := slotStatusSet[status]
	return status, ok
}

// IsTerminal reports whether the status ends a generation attempt. Uploaded
// counts as terminal: only an explicit regenerate leaves it.
func (s SlotStatus) IsTerminal() bool {
	switch s {
	case SlotCompleted, SlotFailed, SlotUploaded:
		return true
	default:
		return false
	}
}

// ImageSlot is one image placeholder tied to a page, independently generated
// and tracked. The prompt-shaping fields (theme, keywords, style, layout box)
// come back from the render service and are immutable once created; Status
// and ImagePath are the live tracking state.
type ImageSlot struct {
	SlotID      string     `json:"slot_id"`
	PageIndex   int        `json:"page_index"`
	Description string     `json:"context,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	VisualStyle string     `json:"visual_style,omitempty"`
	AspectRatio string     `json:"aspect_ratio,omitempty"`
	Position    string     `json:"layout_position,omitempty"`
	X           float64    `json:"x,omitempty"`
	Y           float64    `json:"y,omitempty"`
	W           float64    `json:"w,omitempty"`
	H           float64    `json:"h,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	Status      SlotStatus `json:"status"`
	ImagePath   string     `json:"image_path,omitempty"`
}
