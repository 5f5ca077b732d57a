package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidesmith/internal/deck"
	"slidesmith/internal/services/deckapi"
	"slidesmith/internal/slotstate"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Launch generation jobs",
	}

	generateCmd.AddCommand(newGenerateOutlineCommand(ctx))
	generateCmd.AddCommand(newGenerateDescriptionsCommand(ctx))
	generateCmd.AddCommand(newGenerateImagesCommand(ctx))

	return generateCmd
}

func newGenerateOutlineCommand(ctx *commandContext) *cobra.Command {
	var prompt string
	var pageCount int
	var pedagogy string

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Generate a course outline from a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			handle, err := client.GenerateOutline(cmd.Context(), documentID, deckapi.OutlineRequest{
				Prompt:    prompt,
				PageCount: pageCount,
				Pedagogy:  pedagogy,
			})
			if err != nil {
				return fmt.Errorf("generate outline: %w", err)
			}
			return reportLaunch(cmd, ctx, documentID, handle, deck.JobKindOutline)
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Course idea to expand into an outline")
	cmd.Flags().IntVar(&pageCount, "pages", 0, "Target page count (0 lets the service decide)")
	cmd.Flags().StringVar(&pedagogy, "pedagogy", "", "Pedagogy method for slide structure")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func newGenerateDescriptionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "descriptions",
		Short: "Generate per-page descriptions for the current outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			handle, err := client.GenerateDescriptions(cmd.Context(), documentID)
			if err != nil {
				return fmt.Errorf("generate descriptions: %w", err)
			}
			return reportLaunch(cmd, ctx, documentID, handle, deck.JobKindDescriptions)
		},
	}
}

func newGenerateImagesCommand(ctx *commandContext) *cobra.Command {
	var templateID string
	var pedagogy string
	var subject string
	var detach bool

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Render the deck, then generate all planned slot images",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			preview, err := client.RenderPreview(cmd.Context(), documentID, templateID, pedagogy)
			if err != nil {
				return fmt.Errorf("render preview: %w", err)
			}
			if len(preview.ImageSlots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No image slots planned; nothing to generate.")
				return nil
			}

			handle, err := client.GenerateImages(cmd.Context(), documentID, preview.ImageSlots, subject)
			if err != nil {
				return fmt.Errorf("generate images: %w", err)
			}
			if err := journalLaunch(cmd, ctx, documentID, handle, deck.JobKindImages); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Launched job %s (%d slots)\n", handle.JobID, handle.TotalSlots)
			if detach {
				return nil
			}

			store := slotstate.NewStore()
			store.ReplaceSlots(preview.ImageSlots)
			if err := store.BeginJob(handle.JobID); err != nil {
				return err
			}
			final, err := followJob(cmd, ctx, store, documentID, handle.JobID, deck.JobKindImages)
			if err != nil {
				return err
			}
			return finishJob(cmd, ctx, final, deck.JobKindImages)
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Deck template identifier")
	cmd.Flags().StringVar(&pedagogy, "pedagogy", "", "Pedagogy method for slide structure")
	cmd.Flags().StringVar(&subject, "subject", "", "Course subject used to steer image prompts")
	cmd.Flags().BoolVar(&detach, "detach", false, "Launch without tracking; use `slidesmith watch` later")

	return cmd
}

// journalLaunch records a launched job, holding the journal lock so two
// invocations cannot race a second launch past the single-active-job rule.
func journalLaunch(cmd *cobra.Command, ctx *commandContext, documentID string, handle deckapi.JobHandle, kind deck.JobKind) error {
	j, err := ctx.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()
	if err := j.TryLock(); err != nil {
		return err
	}
	defer j.Unlock()

	if active, err := j.Active(cmd.Context(), documentID); err == nil && active != nil && active.JobID != handle.JobID {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: job %s was still journaled as active; it will no longer be tracked\n", active.JobID)
		_ = j.UpdateStatus(cmd.Context(), active.JobID, deck.JobFailed, active.Progress, "superseded by a newer launch")
	}
	if _, err := j.RecordLaunch(cmd.Context(), documentID, handle.JobID, kind, handle.TotalSlots); err != nil {
		return err
	}
	return nil
}

func reportLaunch(cmd *cobra.Command, ctx *commandContext, documentID string, handle deckapi.JobHandle, kind deck.JobKind) error {
	if handle.JobID != "" {
		if err := journalLaunch(cmd, ctx, documentID, handle, kind); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Launched %s job %s\n", kind, handle.JobID)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s finished synchronously\n", kind)
	return nil
}
