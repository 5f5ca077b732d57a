package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"slidesmith/internal/config"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <slot-id> <image-file>",
		Short: "Replace a slot's image with a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			slotID := args[0]
			path, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			result, err := client.UploadSlotImage(cmd.Context(), documentID, slotID, filepath.Base(path), file)
			if err != nil {
				return fmt.Errorf("upload image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to slot %s\n", filepath.Base(path), result.SlotID)
			if result.ImageURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Preview: %s\n", result.ImageURL)
			}
			return nil
		},
	}
}
