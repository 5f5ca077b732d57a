package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slidesmith/internal/services/deckapi"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	var scene string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available deck templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			templates, err := client.Templates(cmd.Context(), scene)
			if err != nil {
				return fmt.Errorf("list templates: %w", err)
			}
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates available.")
				return nil
			}
			rows := make([][]string, 0, len(templates))
			for _, tpl := range templates {
				rows = append(rows, []string{tpl.ID, tpl.Name, tpl.Scene, truncate(tpl.Description, 50)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Scene", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&scene, "scene", "", "Filter templates by scene")

	return cmd
}

func newPedagogiesCommand(ctx *commandContext) *cobra.Command {
	var scene string

	cmd := &cobra.Command{
		Use:   "pedagogies [id]",
		Short: "List teaching-method models or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				pedagogy, err := client.PedagogyDetail(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch pedagogy %s: %w", args[0], err)
				}
				printPedagogyDetail(cmd, pedagogy)
				return nil
			}

			pedagogies, err := client.Pedagogies(cmd.Context(), scene)
			if err != nil {
				return fmt.Errorf("list pedagogies: %w", err)
			}
			if len(pedagogies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pedagogies available.")
				return nil
			}
			rows := make([][]string, 0, len(pedagogies))
			for _, p := range pedagogies {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					strings.Join(p.ApplicableScenes, ", "),
					truncate(p.Description, 50),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Scenes", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&scene, "scene", "", "Filter pedagogies by scene (theory, practice, review, mixed)")

	return cmd
}

func printPedagogyDetail(cmd *cobra.Command, pedagogy deckapi.Pedagogy) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderKeyValues([][2]string{
		{"ID", pedagogy.ID},
		{"Name", pedagogy.Name},
		{"English", pedagogy.NameEN},
		{"Scenes", strings.Join(pedagogy.ApplicableScenes, ", ")},
		{"Description", pedagogy.Description},
	}))
	if len(pedagogy.Structure) == 0 {
		return
	}
	rows := make([][]string, 0, len(pedagogy.Structure))
	for i, stage := range pedagogy.Structure {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			stage,
			pedagogy.SlideTypeMapping[stage],
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Step", "Stage", "Slide Type"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}

func newLayoutsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List available slide layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			layouts, err := client.Layouts(cmd.Context())
			if err != nil {
				return fmt.Errorf("list layouts: %w", err)
			}
			if len(layouts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No layouts available.")
				return nil
			}
			rows := make([][]string, 0, len(layouts))
			for _, layout := range layouts {
				rows = append(rows, []string{
					layout.ID,
					layout.Name,
					fmt.Sprintf("%d", layout.SlotCount),
					truncate(layout.Description, 50),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Slots", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
