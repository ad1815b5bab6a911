package rates

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Rates")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, h := range []string{"HS Prefix", "Min Duty", "Max Duty", "Description"} {
		header.AddCell().SetString(h)
	}
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	path := filepath.Join(t.TempDir(), "duty_rates.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"1704", "4.5%", "10.4%", "Sugar confectionery"},
		{"18", "0", "6"},
		{"1806.32", "5", "8.5", "Chocolate, filled"},
	})

	table, err := LoadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	r, ok := table.Lookup("1704.90.35")
	require.True(t, ok)
	assert.Equal(t, "1704", r.HSPrefix)
	assert.InDelta(t, 4.5, r.MinPct, 0.001)
	assert.InDelta(t, 10.4, r.MaxPct, 0.001)
	assert.Equal(t, "Sugar confectionery", r.Description)
}

func TestLoadXLSXSkipsBadRows(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"1704", "4.5", "10.4"},
		{"", "1", "2"},                 // no prefix
		{"1806", "n/a", "5"},           // unparseable min
		{"1905"},                       // too few cells
		{"2106", "3", "junk"},          // unparseable max
	})

	table, err := LoadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoadXLSXNoUsableRows(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"", "1", "2"},
	})

	_, err := LoadXLSX(path)
	assert.Error(t, err)
}

func TestLoadXLSXMissingFile(t *testing.T) {
	_, err := LoadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestParseRowSwapsInvertedRange(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"8517", "12", "3"},
	})

	table, err := LoadXLSX(path)
	require.NoError(t, err)

	r, ok := table.Lookup("8517.62.00")
	require.True(t, ok)
	assert.InDelta(t, 3, r.MinPct, 0.001)
	assert.InDelta(t, 12, r.MaxPct, 0.001)
}

func TestLookupLongestPrefixWins(t *testing.T) {
	table := NewTable([]DutyRate{
		{HSPrefix: "18", MinPct: 0, MaxPct: 6},
		{HSPrefix: "180632", MinPct: 5, MaxPct: 8.5},
	})

	r, ok := table.Lookup("1806.32.06")
	require.True(t, ok)
	assert.InDelta(t, 5, r.MinPct, 0.001)

	r, ok = table.Lookup("1806.90.00")
	require.True(t, ok)
	assert.InDelta(t, 0, r.MinPct, 0.001)
}

func TestLookupNormalizesInput(t *testing.T) {
	table := NewTable([]DutyRate{{HSPrefix: "1704.90", MinPct: 4, MaxPct: 9}})

	_, ok := table.Lookup(" 1704 90 12 ")
	assert.True(t, ok)
}

func TestLookupMiss(t *testing.T) {
	table := NewTable([]DutyRate{{HSPrefix: "1704", MinPct: 4, MaxPct: 9}})

	_, ok := table.Lookup("9503.00.00")
	assert.False(t, ok)
	_, ok = table.Lookup("")
	assert.False(t, ok)
}

func TestNewTableLaterDuplicateWins(t *testing.T) {
	table := NewTable([]DutyRate{
		{HSPrefix: "1704", MinPct: 1, MaxPct: 2},
		{HSPrefix: "17.04", MinPct: 5, MaxPct: 6},
	})
	require.Equal(t, 1, table.Len())

	r, ok := table.Lookup("1704.10")
	require.True(t, ok)
	assert.InDelta(t, 5, r.MinPct, 0.001)
}

func TestRatesSorted(t *testing.T) {
	table := NewTable([]DutyRate{
		{HSPrefix: "9503"},
		{HSPrefix: "1704"},
		{HSPrefix: "18"},
	})

	got := table.Rates()
	require.Len(t, got, 3)
	assert.Equal(t, "1704", got[0].HSPrefix)
	assert.Equal(t, "18", got[1].HSPrefix)
	assert.Equal(t, "9503", got[2].HSPrefix)
}
