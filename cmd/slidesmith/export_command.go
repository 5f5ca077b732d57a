package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the deck to a PPTX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := ctx.documentID()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
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

			result, err := client.ExportPPTX(cmd.Context(), documentID, templateID, nil)
			if err != nil {
				return fmt.Errorf("export pptx: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Export ready: %s\n", result.DownloadURL)
			target := filepath.Join(cfg.Paths.ExportDir, exportFilename(doc.Title, templateID))
			fmt.Fprintf(out, "Suggested save path: %s\n", target)

			if notifier := ctx.notifier(); notifier != nil {
				_ = notifier.NotifyExportReady(cmd.Context(), result.DownloadURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Deck template identifier")

	return cmd
}

// exportFilename builds a presentable file name from the deck title, falling
// back to "deck" for untitled documents.
func exportFilename(title, templateID string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "deck"
	}
	title = cases.Title(language.Und, cases.NoLower).String(title)

	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "Deck"
	}
	if templateID = strings.TrimSpace(templateID); templateID != "" {
		name += "_" + templateID
	}
	return name + ".pptx"
}
