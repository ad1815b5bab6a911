// Package rates loads duty-rate tables from the spreadsheets customs
// brokers distribute and answers longest-prefix HS lookups over them.
package rates

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// DutyRate is one HS-prefix row of the duty table.
type DutyRate struct {
	HSPrefix    string  `json:"hs_prefix"`
	MinPct      float64 `json:"min_pct"`
	MaxPct      float64 `json:"max_pct"`
	Description string  `json:"description,omitempty"`
}

// Table is an immutable duty-rate lookup indexed by HS prefix.
type Table struct {
	byPrefix map[string]DutyRate
}

// NewTable indexes a list of duty rates. Later duplicates of a prefix
// win, matching spreadsheet row order.
func NewTable(rows []DutyRate) *Table {
	t := &Table{byPrefix: make(map[string]DutyRate, len(rows))}
	for _, r := range rows {
		if r.HSPrefix == "" {
			continue
		}
		t.byPrefix[normalizeHS(r.HSPrefix)] = r
	}
	return t
}

// Len returns the number of indexed prefixes.
func (t *Table) Len() int {
	return len(t.byPrefix)
}

// Lookup returns the duty rate for an HS code by longest matching
// prefix, trying the full code and then progressively shorter
// prefixes (8 → 6 → 4 → 2 digits).
func (t *Table) Lookup(hsCode string) (DutyRate, bool) {
	code := normalizeHS(hsCode)
	for _, n := range []int{10, 8, 6, 4, 2} {
		if len(code) < n {
			continue
		}
		if r, ok := t.byPrefix[code[:n]]; ok {
			return r, true
		}
	}
	return DutyRate{}, false
}

// Rates returns all rows sorted by prefix, for display.
func (t *Table) Rates() []DutyRate {
	out := make([]DutyRate, 0, len(t.byPrefix))
	for _, r := range t.byPrefix {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HSPrefix < out[j].HSPrefix })
	return out
}

// normalizeHS strips dots and spaces from an HS code.
func normalizeHS(s string) string {
	return strings.NewReplacer(".", "", " ", "").Replace(strings.TrimSpace(s))
}

// LoadXLSX reads a duty-rate spreadsheet. Expected columns: HS prefix,
// min duty %, max duty %, optional description. The first row is
// treated as a header. Unparseable rows are skipped with a warning,
// not fatal: broker spreadsheets are messy.
func LoadXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "rates: open spreadsheet")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("rates: spreadsheet has no sheets")
	}

	var rows []DutyRate
	for i, row := range f.Sheets[0].Rows {
		if i == 0 {
			continue
		}
		r, ok := parseRow(row)
		if !ok {
			zap.L().Warn("rates: skipping unparseable row", zap.Int("row", i+1))
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return nil, eris.New("rates: no usable rows in spreadsheet")
	}

	zap.L().Info("rates: loaded duty table",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return NewTable(rows), nil
}

func parseRow(row *xlsx.Row) (DutyRate, bool) {
	if len(row.Cells) < 3 {
		return DutyRate{}, false
	}
	cell := func(i int) string {
		if i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].String())
		}
		return ""
	}

	prefix := normalizeHS(cell(0))
	if prefix == "" {
		return DutyRate{}, false
	}
	min, err := strconv.ParseFloat(strings.TrimSuffix(cell(1), "%"), 64)
	if err != nil {
		return DutyRate{}, false
	}
	max, err := strconv.ParseFloat(strings.TrimSuffix(cell(2), "%"), 64)
	if err != nil {
		return DutyRate{}, false
	}
	if max < min {
		min, max = max, min
	}

	return DutyRate{
		HSPrefix:    prefix,
		MinPct:      min,
		MaxPct:      max,
		Description: cell(3),
	}, true
}
