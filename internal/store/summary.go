package store

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// SelectionBest is the literal token selecting the top-ranked entry of each
// record's correlation section.
const SelectionBest = "best"

// MissingValue marks an absent channel, correlation, or mean frequency in an
// aggregated row. Rows are never silently omitted.
const MissingValue = "NaN"

// Selection names which correlation entries the aggregation extracts from
// each record: the best entry, or explicit 1-based positions.
type Selection struct {
	Best      bool
	Positions []int
}

// ParseSelection accepts the "best" token or a list of integer positions.
func ParseSelection(args []string) (Selection, error) {
	if len(args) == 1 && args[0] == SelectionBest {
		return Selection{Best: true}, nil
	}
	if len(args) == 0 {
		return Selection{}, utils.InvalidArgumentf("selection must be %q or a list of integers", SelectionBest)
	}
	positions := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Selection{}, utils.InvalidArgumentf("selection %q must be %q or a list of integers", arg, SelectionBest)
		}
		positions = append(positions, n)
	}
	return Selection{Positions: positions}, nil
}

func (sel Selection) positions() []int {
	if sel.Best {
		return []int{1}
	}
	return sel.Positions
}

func (sel Selection) columns() []string {
	cols := []string{"gps"}
	if sel.Best {
		return append(cols, "culprit", "corr", "mean_freq")
	}
	for _, p := range sel.Positions {
		cols = append(cols,
			fmt.Sprintf("culprit_%d", p),
			fmt.Sprintf("corr_%d", p),
			fmt.Sprintf("mean_freq_%d", p),
		)
	}
	return cols
}

// SummaryTable is one aggregation result: a header row plus one row per
// input folder.
type SummaryTable struct {
	Columns []string
	Rows    [][]string
	Path    string
}

// Summarize builds a comparison table over the given result folders and
// writes it as CSV under <root>/comparison/<tableName>. Each row carries the
// window identifier converted to the chosen anchor position plus the
// selected channel/correlation/mean-frequency triples; folders with an
// unreadable record or a missing section contribute rows of missing-value
// markers rather than being dropped.
func (s *Store) Summarize(folders []string, sel Selection, anchor models.AnchorPosition, tableName string) (*SummaryTable, error) {
	if _, err := models.ParseAnchorPosition(string(anchor)); err != nil {
		return nil, err
	}
	positions := sel.positions()
	if len(positions) == 0 {
		return nil, utils.InvalidArgumentf("selection must name at least one position")
	}

	table := &SummaryTable{Columns: sel.columns()}
	for _, folder := range folders {
		table.Rows = append(table.Rows, s.summaryRow(folder, positions, anchor))
	}

	compDir := filepath.Join(s.root, "comparison")
	if err := os.MkdirAll(compDir, 0o755); err != nil {
		return nil, fmt.Errorf("create comparison dir: %w", err)
	}
	table.Path = filepath.Join(compDir, tableName)
	if err := writeCSV(table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *Store) summaryRow(folder string, positions []int, anchor models.AnchorPosition) []string {
	row := make([]string, 0, 1+3*len(positions))

	rec, err := LoadRecord(folder)
	if err != nil {
		s.logger.Warn("unreadable record in folder", slog.String("folder", folder), slog.Any("error", err))
		// Fall back to the folder name, which is the anchor identifier.
		row = append(row, filepath.Base(folder))
		for range positions {
			row = append(row, MissingValue, MissingValue, MissingValue)
		}
		return row
	}

	start, end, err := rec.GPS()
	if err != nil {
		row = append(row, filepath.Base(folder))
	} else {
		switch anchor {
		case models.AnchorStart:
			row = append(row, strconv.FormatInt(start, 10))
		case models.AnchorEnd:
			row = append(row, strconv.FormatInt(end, 10))
		default:
			row = append(row, strconv.FormatInt((start+end)/2, 10))
		}
	}

	for _, p := range positions {
		channel, chErr := rec.EntryChannel(p, false)
		corr, corrErr := rec.EntryCorrelation(p, false)
		freq, freqErr := rec.EntryMeanFrequency(p, false)
		if chErr != nil || corrErr != nil || freqErr != nil {
			row = append(row, MissingValue, MissingValue, MissingValue)
			continue
		}
		row = append(row,
			channel,
			strconv.FormatFloat(corr, 'g', -1, 64),
			strconv.FormatFloat(freq, 'g', -1, 64),
		)
	}
	return row
}

func writeCSV(table *SummaryTable) error {
	f, err := os.Create(table.Path)
	if err != nil {
		return fmt.Errorf("create comparison table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
