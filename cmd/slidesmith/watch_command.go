package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"slidesmith/internal/deck"
	"slidesmith/internal/services/deckapi"
	"slidesmith/internal/slotstate"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var jobFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Track the active generation job live until it resolves",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			return runWatch(cmd, ctx, documentID, jobFlag)
		},
	}

	cmd.Flags().StringVar(&jobFlag, "job", "", "Job identifier (defaults to the journaled active job)")

	return cmd
}

func runWatch(cmd *cobra.Command, ctx *commandContext, documentID, jobFlag string) error {
	jobID, kind, err := resolveWatchTarget(cmd, ctx, documentID, jobFlag)
	if err != nil {
		return err
	}
	if jobID == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No generation job is being tracked for this document.")
		return nil
	}

	client, err := ctx.apiClient()
	if err != nil {
		return err
	}

	initial, err := client.JobStatus(cmd.Context(), documentID, jobID)
	if err != nil {
		return fmt.Errorf("fetch job status: %w", err)
	}
	if initial.Status.IsTerminal() {
		printJobStatus(cmd, initial)
		return finishJob(cmd, ctx, initial, kind)
	}

	slots, err := watchSlots(cmd.Context(), client, documentID, initial)
	if err != nil {
		return err
	}
	store := slotstate.NewStore()
	store.ReplaceSlots(slots)
	if err := store.BeginJob(jobID); err != nil {
		return err
	}

	final, err := followJob(cmd, ctx, store, documentID, jobID, kind)
	if err != nil {
		return err
	}
	return finishJob(cmd, ctx, final, kind)
}

// slotPlanner is the slice of the service client needed to discover the slot
// set for a job that has not resolved.
type slotPlanner interface {
	RenderPreview(ctx context.Context, documentID, templateID, pedagogy string) (deckapi.RenderPreview, error)
}

// watchSlots picks the slot set a watch invocation tracks. The status
// endpoint reports per-slot results only once a job resolves, so a running
// job's slots come from the render plan instead; without them the store
// would drop every slot event it receives.
func watchSlots(ctx context.Context, planner slotPlanner, documentID string, initial deckapi.JobStatusResponse) ([]deck.ImageSlot, error) {
	if len(initial.Result) > 0 {
		slots := make([]deck.ImageSlot, 0, len(initial.Result))
		for slotID := range initial.Result {
			slots = append(slots, deck.ImageSlot{SlotID: slotID})
		}
		return slots, nil
	}
	preview, err := planner.RenderPreview(ctx, documentID, "", "")
	if err != nil {
		return nil, fmt.Errorf("fetch slot plan: %w", err)
	}
	return preview.ImageSlots, nil
}

func resolveWatchTarget(cmd *cobra.Command, ctx *commandContext, documentID, jobFlag string) (string, deck.JobKind, error) {
	j, err := ctx.openJournal()
	if err != nil {
		return "", "", err
	}
	defer j.Close()

	if jobFlag != "" {
		record, err := j.Get(cmd.Context(), jobFlag)
		if err != nil {
			return "", "", err
		}
		if record != nil {
			return record.JobID, record.Kind, nil
		}
		return jobFlag, deck.JobKindImages, nil
	}

	active, err := j.Active(cmd.Context(), documentID)
	if err != nil {
		return "", "", err
	}
	if active == nil {
		return "", "", nil
	}
	return active.JobID, active.Kind, nil
}
