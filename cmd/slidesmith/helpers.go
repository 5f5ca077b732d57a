package main

import (
	"fmt"
	"strings"

	"slidesmith/internal/deck"
	"slidesmith/internal/slotstate"
)

func slotGlyph(status deck.SlotStatus) string {
	switch status {
	case deck.SlotPending:
		return "·"
	case deck.SlotGenerating:
		return "…"
	case deck.SlotCompleted:
		return "✓"
	case deck.SlotUploaded:
		return "⇧"
	case deck.SlotFailed:
		return "✗"
	default:
		return "?"
	}
}

// truncate shortens value to at most max runes, with an ellipsis. Slot
// themes and paths are not necessarily ASCII, so it never cuts mid-rune.
func truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max == 1 {
		return string(runes[:1])
	}
	return string(runes[:max-1]) + "…"
}

func progressLine(progress deck.TaskProgress) string {
	if progress.Total == 0 {
		return "no progress reported"
	}
	line := fmt.Sprintf("%d/%d slots finished", progress.Completed+progress.Failed, progress.Total)
	if progress.Failed > 0 {
		line += fmt.Sprintf(" (%d failed)", progress.Failed)
	}
	return line
}

func slotRows(snapshot slotstate.Snapshot) [][]string {
	rows := make([][]string, 0, len(snapshot.Slots))
	for _, slot := range snapshot.Slots {
		rows = append(rows, []string{
			fmt.Sprintf("%s %s", slotGlyph(slot.Status), slot.SlotID),
			fmt.Sprintf("%d", slot.PageIndex+1),
			string(slot.Status),
			truncate(slot.Theme, 40),
			truncate(slot.ImagePath, 48),
		})
	}
	return rows
}

func renderSnapshot(snapshot slotstate.Snapshot) string {
	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"Slot", "Page", "Status", "Theme", "Image"},
		slotRows(snapshot),
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))
	b.WriteString("\n")
	if snapshot.HasProgress {
		b.WriteString(progressLine(snapshot.Progress))
		b.WriteString("\n")
	}
	if snapshot.ActiveJob != "" {
		fmt.Fprintf(&b, "job %s in flight (push channel connected: %s)\n", snapshot.ActiveJob, yesNo(snapshot.Connected))
	}
	return b.String()
}
