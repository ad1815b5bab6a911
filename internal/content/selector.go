package content

import (
	"strings"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// EvidenceTier grades the strength of the supplier-match evidence.
type EvidenceTier string

const (
	TierHigh   EvidenceTier = "high"
	TierMedium EvidenceTier = "medium"
	TierLow    EvidenceTier = "low"
)

// TierFor derives the evidence tier from the exact-match count.
func TierFor(exactMatches int) EvidenceTier {
	switch {
	case exactMatches >= 3:
		return TierHigh
	case exactMatches >= 1:
		return TierMedium
	default:
		return TierLow
	}
}

// DataQuality carries the quality signals that steer bucket choice.
type DataQuality struct {
	Tier                EvidenceTier
	ComplianceSuspected bool
}

// Select picks exactly one template for the report, reproducibly: the
// same (reportID, category, decision, quality) tuple always yields the
// same template, across processes and over time.
//
// Bucket precedence is fixed: within the decision's bucket, a
// category-hinted sub-bucket wins over the unhinted remainder; if the
// hinted sub-bucket is empty the whole bucket is used; if the bucket
// itself is empty, every template for the decision is used. This is the
// documented tie-break for categories that match more than one view of
// the catalog: hints first, bucket order never consulted.
func (c *Catalog) Select(reportID, category string, decision model.Decision, quality DataQuality) model.ContentTemplate {
	ids := c.bucketFor(decision, quality)
	if hinted := c.filterByHints(ids, category); len(hinted) > 0 {
		ids = hinted
	}
	if len(ids) == 0 {
		ids = c.allForDecision(decision)
	}
	if len(ids) == 0 {
		// Data-file defect; never raise, return a zero template.
		return model.ContentTemplate{Decision: decision}
	}

	h := Hash32(reportID)
	id := ids[bucketIndex(h, len(ids))]
	if t, ok := c.byID[id]; ok {
		return t
	}
	// Resolved ID missing from the catalog: fall back to the bucket's
	// first entry.
	t := c.byID[ids[0]]
	return t
}

// bucketFor maps decision plus quality onto the catalog's priority
// bucket.
func (c *Catalog) bucketFor(decision model.Decision, quality DataQuality) []int {
	var name string
	switch decision {
	case model.DecisionGo:
		if quality.Tier == TierHigh {
			name = bucketGoStrong
		} else {
			name = bucketGoWeak
		}
	case model.DecisionHold:
		name = bucketHoldMissing
	case model.DecisionNo:
		if quality.ComplianceSuspected {
			name = bucketNoCompl
		} else {
			name = bucketNoEcon
		}
	}
	return c.byBucket[name]
}

// filterByHints keeps the ids whose category hints match the report
// category.
func (c *Catalog) filterByHints(ids []int, category string) []int {
	lower := strings.ToLower(category)
	if lower == "" {
		return nil
	}
	var out []int
	for _, id := range ids {
		for _, hint := range c.hints[id] {
			if strings.Contains(lower, hint) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func (c *Catalog) allForDecision(decision model.Decision) []int {
	var out []int
	for _, name := range []string{bucketGoStrong, bucketGoWeak, bucketHoldMissing, bucketNoCompl, bucketNoEcon} {
		for _, id := range c.byBucket[name] {
			if c.byID[id].Decision == decision {
				out = append(out, id)
			}
		}
	}
	return out
}
