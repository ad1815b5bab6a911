package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestLanded(t *testing.T) {
	q := Quote{UnitCost: 10, FreightPerUnit: 1.5}

	assert.InDelta(t, 11.5, Landed(q, 0), 0.001)
	assert.InDelta(t, 12.5, Landed(q, 10), 0.001)
}

func TestRangeEmptyQuotesIsZero(t *testing.T) {
	assert.Equal(t, model.CostRange{}, Range(nil, 5, 15))
}

func TestRangeCheapestMedianMax(t *testing.T) {
	quotes := []Quote{
		{Supplier: "b", UnitCost: 12},
		{Supplier: "a", UnitCost: 8},
		{Supplier: "c", UnitCost: 10},
	}

	got := Range(quotes, 0, 10)

	// Cheapest at the duty floor, median at the midpoint, max at the
	// ceiling.
	assert.InDelta(t, 8.0, got.Min, 0.001)
	assert.InDelta(t, 10.5, got.Best, 0.001)
	assert.InDelta(t, 13.2, got.Max, 0.001)
}

func TestRangeSingleQuote(t *testing.T) {
	got := Range([]Quote{{UnitCost: 10}}, 4, 6)

	assert.InDelta(t, 10.4, got.Min, 0.001)
	assert.InDelta(t, 10.5, got.Best, 0.001)
	assert.InDelta(t, 10.6, got.Max, 0.001)
}

func TestRangeDoesNotMutateInput(t *testing.T) {
	quotes := []Quote{{UnitCost: 12}, {UnitCost: 8}}
	Range(quotes, 0, 0)
	assert.Equal(t, 12.0, quotes[0].UnitCost)
}

func TestMarginPct(t *testing.T) {
	got := MarginPct(f64(20), 10)
	require.NotNil(t, got)
	assert.InDelta(t, 50, *got, 0.001)
}

func TestMarginPctNilWithoutPrice(t *testing.T) {
	assert.Nil(t, MarginPct(nil, 10))
	assert.Nil(t, MarginPct(f64(0), 10))
	assert.Nil(t, MarginPct(f64(-5), 10))
}

func TestMarginPctZeroIsARealAnswer(t *testing.T) {
	got := MarginPct(f64(10), 10)
	require.NotNil(t, got)
	assert.InDelta(t, 0, *got, 0.001)
}

func TestMarginPctNegative(t *testing.T) {
	got := MarginPct(f64(10), 11)
	require.NotNil(t, got)
	assert.InDelta(t, -10, *got, 0.001)
}
