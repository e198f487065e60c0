package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autosub/internal/transcribe"
)

func newModelsCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:         "models",
		Short:       "List the speech recognition models accepted by --model",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			models := transcribe.Models()
			if done, err := writeStructured(cmd, format, models); done || err != nil {
				return err
			}

			rows := make([][]string, 0, len(models))
			for _, m := range models {
				def := ""
				if m.Name == transcribe.DefaultModel {
					def = "*"
				}
				rows = append(rows, []string{m.Name, m.Parameters, yesNo(m.EnglishOnly), def})
			}
			table := renderTable(
				[]string{"Model", "Parameters", "English only", "Default"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", formatTable, "Output format: table, json, or yaml")
	return cmd
}
