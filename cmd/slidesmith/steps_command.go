package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidesmith/internal/deck"
	"slidesmith/internal/workflow"
)

func newStepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "Show workflow step completion for the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			doc, err := client.Document(cmd.Context(), documentID)
			if err != nil {
				return fmt.Errorf("fetch document: %w", err)
			}

			completed := workflow.Completed(doc)
			current := workflow.DefaultStep(doc)

			rows := make([][]string, 0, 4)
			for _, step := range deck.Steps() {
				marker := ""
				if step == current {
					marker = "→"
				}
				rows = append(rows, []string{
					marker,
					step.String(),
					yesNo(completed[step]),
					yesNo(workflow.Reachable(doc, step)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"", "Step", "Complete", "Reachable"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "Resume at: %s\n", current)
			return nil
		},
	}
}
