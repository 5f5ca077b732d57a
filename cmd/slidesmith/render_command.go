package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var templateID string
	var pedagogy string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the deck to an HTML preview and plan image slots",
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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %d pages\n", preview.TotalPages)
			if preview.HTMLURL != "" {
				fmt.Fprintf(out, "Preview: %s\n", preview.HTMLURL)
			}
			if len(preview.ImageSlots) == 0 {
				fmt.Fprintln(out, "No image slots planned for this deck.")
				return nil
			}

			rows := make([][]string, 0, len(preview.ImageSlots))
			for _, slot := range preview.ImageSlots {
				rows = append(rows, []string{
					slot.SlotID,
					fmt.Sprintf("%d", slot.PageIndex+1),
					truncate(slot.Theme, 40),
					slot.VisualStyle,
					slot.AspectRatio,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Slot", "Page", "Theme", "Style", "Aspect"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Deck template identifier")
	cmd.Flags().StringVar(&pedagogy, "pedagogy", "", "Pedagogy method for slide structure")

	return cmd
}
