package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slidesmith/internal/deck"
	"slidesmith/internal/services/deckapi"
	"slidesmith/internal/slotstate"
)

func newRegenerateCommand(ctx *commandContext) *cobra.Command {
	var subject string
	var detach bool

	cmd := &cobra.Command{
		Use:   "regenerate <slot-id> [slot-id...]",
		Short: "Regenerate one or more slot images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			// Slot parameters (theme, style, layout box) come from the
			// current render generation so regeneration matches the plan.
			preview, err := client.RenderPreview(cmd.Context(), documentID, "", "")
			if err != nil {
				return fmt.Errorf("fetch slot plan: %w", err)
			}
			byID := make(map[string]deck.ImageSlot, len(preview.ImageSlots))
			for _, slot := range preview.ImageSlots {
				byID[slot.SlotID] = slot
			}

			slots := make([]deck.ImageSlot, 0, len(args))
			for _, slotID := range args {
				slot, ok := byID[strings.TrimSpace(slotID)]
				if !ok {
					return fmt.Errorf("unknown slot %q; run `slidesmith render` to list slots", slotID)
				}
				slots = append(slots, slot)
			}

			var handle deckapi.JobHandle
			if len(slots) == 1 {
				handle, err = client.RegenerateSlot(cmd.Context(), documentID, slots[0], subject)
			} else {
				handle, err = client.BatchRegenerate(cmd.Context(), documentID, slots, subject)
			}
			if err != nil {
				return fmt.Errorf("regenerate: %w", err)
			}
			if err := journalLaunch(cmd, ctx, documentID, handle, deck.JobKindRegenerate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Launched regeneration job %s (%d slots)\n", handle.JobID, len(slots))
			if detach {
				return nil
			}

			store := slotstate.NewStore()
			store.ReplaceSlots(slots)
			if err := store.BeginJob(handle.JobID); err != nil {
				return err
			}
			for _, slot := range slots {
				store.Regenerate(slot.SlotID)
			}
			final, err := followJob(cmd, ctx, store, documentID, handle.JobID, deck.JobKindRegenerate)
			if err != nil {
				return err
			}
			return finishJob(cmd, ctx, final, deck.JobKindRegenerate)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Course subject used to steer image prompts")
	cmd.Flags().BoolVar(&detach, "detach", false, "Launch without tracking; use `slidesmith watch` later")

	return cmd
}
