package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled generation jobs for the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			j, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			records, err := j.History(cmd.Context(), documentID, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs journaled for this document.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.JobID,
					string(record.Kind),
					string(record.Status),
					progressLine(record.Progress),
					record.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Job", "Kind", "Status", "Progress", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of jobs to list (0 for all)")

	return cmd
}
