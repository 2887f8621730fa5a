package store

import (
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"best"})
	require.NoError(t, err)
	assert.True(t, sel.Best)

	sel, err = ParseSelection([]string{"1", "3"})
	require.NoError(t, err)
	assert.False(t, sel.Best)
	assert.Equal(t, []int{1, 3}, sel.Positions)

	_, err = ParseSelection(nil)
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = ParseSelection([]string{"best", "2"})
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = ParseSelection([]string{"first"})
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
}

func TestSummarizeBestSelection(t *testing.T) {
	s := New(t.TempDir(), nil)

	writeResultFolder(t, s, 1000, "V1:AUX_A")
	writeResultFolder(t, s, 1100, "V1:AUX_B")
	writeResultFolder(t, s, 1200, "V1:AUX_C")

	// Two folders without a readable record still contribute rows.
	_, err := s.CreateFolder(1300)
	require.NoError(t, err)
	_, err = s.CreateFolder(1400)
	require.NoError(t, err)

	folders, err := s.Folders(false, nil)
	require.NoError(t, err)
	require.Len(t, folders, 5)

	sel, err := ParseSelection([]string{"best"})
	require.NoError(t, err)

	table, err := s.Summarize(folders, sel, models.AnchorCenter, "comparison.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"gps", "culprit", "corr", "mean_freq"}, table.Columns)
	require.Len(t, table.Rows, 5)

	assert.Equal(t, []string{"1000", "V1:AUX_A", "0.95", "0.5"}, table.Rows[0])
	assert.Equal(t, []string{"1100", "V1:AUX_B", "0.95", "0.5"}, table.Rows[1])
	assert.Equal(t, []string{"1200", "V1:AUX_C", "0.95", "0.5"}, table.Rows[2])
	assert.Equal(t, []string{"1300", MissingValue, MissingValue, MissingValue}, table.Rows[3])
	assert.Equal(t, []string{"1400", MissingValue, MissingValue, MissingValue}, table.Rows[4])

	f, err := os.Open(table.Path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, table.Columns, records[0])
	assert.Equal(t, table.Rows[3], records[4])
}

func TestSummarizeAnchorPositions(t *testing.T) {
	s := New(t.TempDir(), nil)
	writeResultFolder(t, s, 1000, "V1:AUX_A") // window [995, 1005)

	folders, err := s.Folders(true, nil)
	require.NoError(t, err)

	sel := Selection{Best: true}

	table, err := s.Summarize(folders, sel, models.AnchorStart, "start.csv")
	require.NoError(t, err)
	assert.Equal(t, "995", table.Rows[0][0])

	table, err = s.Summarize(folders, sel, models.AnchorEnd, "end.csv")
	require.NoError(t, err)
	assert.Equal(t, "1005", table.Rows[0][0])

	table, err = s.Summarize(folders, sel, models.AnchorCenter, "center.csv")
	require.NoError(t, err)
	assert.Equal(t, "1000", table.Rows[0][0])
}

func TestSummarizePositionsBeyondRecord(t *testing.T) {
	s := New(t.TempDir(), nil)
	writeResultFolder(t, s, 1000, "V1:AUX_A") // one correlation entry only

	folders, err := s.Folders(true, nil)
	require.NoError(t, err)

	sel := Selection{Positions: []int{1, 2}}
	table, err := s.Summarize(folders, sel, models.AnchorCenter, "positions.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"gps", "culprit_1", "corr_1", "mean_freq_1", "culprit_2", "corr_2", "mean_freq_2"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{
		"1000",
		"V1:AUX_A", "0.95", "0.5",
		MissingValue, MissingValue, MissingValue,
	}, table.Rows[0])
}

func TestSummarizeRejectsBadInput(t *testing.T) {
	s := New(t.TempDir(), nil)

	_, err := s.Summarize(nil, Selection{Best: true}, models.AnchorPosition("middle"), "t.csv")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = s.Summarize(nil, Selection{}, models.AnchorCenter, "t.csv")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
}
