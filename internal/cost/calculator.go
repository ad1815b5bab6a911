// Package cost derives the landed-cost baseline from supplier quotes
// and the estimated duty range.
package cost

import (
	"sort"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// Quote is one supplier's per-unit offer.
type Quote struct {
	Supplier       string  `json:"supplier"`
	UnitCost       float64 `json:"unit_cost"`
	FreightPerUnit float64 `json:"freight_per_unit"`
}

// Landed computes the per-unit landed cost for one quote at a given
// duty rate.
func Landed(q Quote, dutyPct float64) float64 {
	return q.UnitCost*(1+dutyPct/100) + q.FreightPerUnit
}

// Range derives the cost baseline from a quote set: the cheapest quote
// at the duty floor, the median quote at the duty midpoint, and the
// most expensive quote at the duty ceiling. An empty quote set yields
// the zero range, which downstream treats as "no cost data".
func Range(quotes []Quote, dutyMinPct, dutyMaxPct float64) model.CostRange {
	if len(quotes) == 0 {
		return model.CostRange{}
	}

	sorted := make([]Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		return Landed(sorted[i], 0) < Landed(sorted[j], 0)
	})

	mid := (dutyMinPct + dutyMaxPct) / 2
	return model.CostRange{
		Min:  Landed(sorted[0], dutyMinPct),
		Best: Landed(sorted[len(sorted)/2], mid),
		Max:  Landed(sorted[len(sorted)-1], dutyMaxPct),
	}
}

// MarginPct returns the margin percentage at a target sell price, or
// nil when no price exists. A zero margin is a real (disqualifying)
// answer; a nil margin means the question could not be asked.
func MarginPct(targetPrice *float64, landedBest float64) *float64 {
	if targetPrice == nil || *targetPrice <= 0 {
		return nil
	}
	m := (*targetPrice - landedBest) / *targetPrice * 100
	return &m
}
