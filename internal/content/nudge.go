package content

import (
	"sort"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// MissingEvidence flags which evidence a report still lacks; only
// nudges whose target is missing are applicable.
type MissingEvidence struct {
	Barcode bool
	Label   bool
	Weight  bool
	Box     bool
	Origin  bool
	Name    bool
	Pricing bool
}

func (m MissingEvidence) applies(target model.NudgeTarget) bool {
	switch target {
	case model.TargetBarcode:
		return m.Barcode
	case model.TargetLabel:
		return m.Label
	case model.TargetWeight:
		return m.Weight
	case model.TargetBox:
		return m.Box
	case model.TargetOrigin:
		return m.Origin
	case model.TargetName:
		return m.Name
	case model.TargetPricing:
		return m.Pricing
	case model.TargetGeneral:
		return true
	}
	return false
}

// SelectNudge picks the single most useful next-evidence prompt:
// applicable actions sorted by fixed priority, with the report-identity
// hash breaking ties only among equal-priority candidates. Always
// returns a nudge; the general fallback applies when nothing is
// missing.
func (c *Catalog) SelectNudge(reportID string, missing MissingEvidence) model.ReportNudge {
	var applicable []NudgeAction
	for _, n := range c.nudges {
		if missing.applies(n.Target) {
			applicable = append(applicable, n)
		}
	}
	if len(applicable) == 0 {
		return model.ReportNudge{
			ActionKey:  "general_recheck",
			ActionText: "Review and re-run",
			TipText:    "Re-run after any new evidence arrives to keep the verdict current.",
			Severity:   model.SeverityLow,
			Target:     model.TargetGeneral,
		}
	}

	// Stable sort keeps file order within equal priorities, so the
	// hash tie-break sees a fixed candidate order.
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority < applicable[j].Priority
	})

	top := []NudgeAction{applicable[0]}
	for _, n := range applicable[1:] {
		if n.Priority != top[0].Priority {
			break
		}
		top = append(top, n)
	}

	chosen := top[0]
	if len(top) > 1 {
		chosen = top[bucketIndex(Hash32(reportID), len(top))]
	}

	return model.ReportNudge{
		ActionKey:  chosen.ActionKey,
		ActionText: chosen.ActionText,
		TipText:    chosen.TipText,
		Severity:   chosen.Severity,
		Target:     chosen.Target,
	}
}
