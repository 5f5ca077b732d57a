package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"slidesmith/internal/services/deckapi"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		jobFlag string
		follow  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current generation job's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			if follow {
				return runWatch(cmd, ctx, documentID, jobFlag)
			}
			jobID, err := resolveJobID(cmd, ctx, documentID, jobFlag)
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
			status, err := client.JobStatus(cmd.Context(), documentID, jobID)
			if err != nil {
				return fmt.Errorf("fetch job status: %w", err)
			}

			printJobStatus(cmd, status)

			if j, jerr := ctx.openJournal(); jerr == nil {
				defer j.Close()
				_ = j.UpdateStatus(cmd.Context(), status.JobID, status.Status, status.Progress, status.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobFlag, "job", "", "Job identifier (defaults to the journaled active job)")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep tracking the job live until it resolves")

	return cmd
}

// resolveJobID prefers an explicit --job flag, then the journaled active job.
func resolveJobID(cmd *cobra.Command, ctx *commandContext, documentID, jobFlag string) (string, error) {
	if jobFlag != "" {
		return jobFlag, nil
	}
	j, err := ctx.openJournal()
	if err != nil {
		return "", err
	}
	defer j.Close()
	active, err := j.Active(cmd.Context(), documentID)
	if err != nil {
		return "", err
	}
	if active == nil {
		return "", nil
	}
	return active.JobID, nil
}

func printJobStatus(cmd *cobra.Command, status deckapi.JobStatusResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderKeyValues([][2]string{
		{"Job", status.JobID},
		{"Status", string(status.Status)},
		{"Progress", progressLine(status.Progress)},
	}))
	if status.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", status.Error)
	}
	if len(status.Result) == 0 {
		return
	}

	slotIDs := make([]string, 0, len(status.Result))
	for slotID := range status.Result {
		slotIDs = append(slotIDs, slotID)
	}
	sort.Strings(slotIDs)

	rows := make([][]string, 0, len(slotIDs))
	for _, slotID := range slotIDs {
		result := status.Result[slotID]
		rows = append(rows, []string{
			slotID,
			result.Status,
			truncate(result.Path(), 48),
			truncate(result.Error, 40),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Slot", "Status", "Image", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
}
