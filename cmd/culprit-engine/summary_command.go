package main

import (
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/store"
)

func newSummaryCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		resultsRoot string
		selection   []string
		event       string
		tableName   string
		mustInclude []string
		includeAll  bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate persisted results into a comparison table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger := cmdCtx.logger

			anchor, err := models.ParseAnchorPosition(event)
			if err != nil {
				return err
			}
			sel, err := store.ParseSelection(selection)
			if err != nil {
				return err
			}

			if resultsRoot == "" {
				resultsRoot = cfg.Results.Root
			}
			results := store.New(resultsRoot, logger)
			results.RequireEnvelopes = cfg.Results.RequireEnvelopes

			folders, err := results.Folders(!includeAll, mustInclude)
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				logger.Warn("no result folders found", slog.String("root", resultsRoot))
				return nil
			}

			summary, err := results.Summarize(folders, sel, anchor, tableName)
			if err != nil {
				return err
			}
			logger.Info("comparison table written",
				slog.String("path", summary.Path), slog.Int("rows", len(summary.Rows)))

			renderSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsRoot, "results", "", "Results root (defaults to the configured root)")
	cmd.Flags().StringSliceVar(&selection, "selection", []string{store.SelectionBest}, `Entries to aggregate: "best" or 1-based positions`)
	cmd.Flags().StringVar(&event, "event", "center", "Anchor position for the gps column: start, center, end")
	cmd.Flags().StringVar(&tableName, "table-name", "comparison.csv", "Output CSV file name")
	cmd.Flags().StringSliceVar(&mustInclude, "must-include", nil, "Glob patterns a folder must contain to be aggregated")
	cmd.Flags().BoolVar(&includeAll, "all", false, "Include folders that fail validity checks")
	return cmd
}

func renderSummary(cmd *cobra.Command, summary *store.SummaryTable) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())

	header := make(table.Row, 0, len(summary.Columns))
	for _, col := range summary.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for _, row := range summary.Rows {
		r := make(table.Row, 0, len(row))
		for _, cell := range row {
			r = append(r, cell)
		}
		t.AppendRow(r)
	}
	t.Render()
}
