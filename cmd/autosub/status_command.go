package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autosub/internal/language"
	"autosub/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories, and transcription settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			cfgMsg := ctx.configPath
			if !ctx.configExists {
				cfgMsg += " (not found; using defaults)"
			}
			lines = append(lines, renderStatusLine("Config file", statusInfo, cfgMsg, colorize))
			lines = append(lines, renderStatusLine("Model", statusInfo, cfg.Transcription.Model, colorize))
			lines = append(lines, renderStatusLine("Language", statusInfo, language.DisplayName(cfg.Transcription.Language), colorize))
			lines = append(lines, renderStatusLine("Supported languages", statusInfo, fmt.Sprintf("%d", len(language.Supported())), colorize))
			lines = append(lines, renderStatusLine("Task", statusInfo, cfg.Transcription.Task, colorize))
			lines = append(lines, renderStatusLine("CUDA", statusInfo, yesNo(cfg.Transcription.CUDAEnabled), colorize))
			lines = append(lines, "")

			statuses := checkSystemDeps(cfg)
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(statuses, colorize)...)
			lines = append(lines, "")

			results := preflight.RunAll(cfg)
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			lines = append(lines, preflightSummary(results, colorize))
			lines = append(lines, preflightLines(results, colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
