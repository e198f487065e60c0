package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"autosub/internal/history"
	"autosub/internal/language"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously processed videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
				return nil
			}

			store, err := history.Open(cmd.Context(), cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []history.Run{}
			}
			if done, err := writeStructured(cmd, format, runs); done || err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Input", "Model", "Task", "Language", "Cues", "Status", "Output"},
				historyRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().StringVar(&formatFlag, "format", formatTable, "Output format: table, json, or yaml")
	return cmd
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		output := run.VideoPath
		if output == "" {
			output = run.SRTPath
		}
		if run.Status == history.StatusFailed {
			output = run.ErrorMessage
		}
		rows = append(rows, []string{
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(run.SourcePath),
			run.Model,
			run.Task,
			language.DisplayName(run.Language),
			strconv.Itoa(run.Segments),
			string(run.Status),
			output,
		})
	}
	return rows
}
