// Package facts maps raw per-fact evidence into one of four canonical
// readiness states per fact. The mapping is stateless: it is recomputed
// fresh from the current raw facts on every call.
package facts

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/sourcing-cli/internal/model"
)

var titleCaser = cases.Title(language.Und)

// Raw is the per-fact input to normalization: whether the evidence was
// supplied at all, and what the fallback chain resolved for it.
type Raw struct {
	Provided bool
	Resolved bool
	Source   model.Source
	Display  string
}

// Inputs carries the raw state of the four user-facing facts.
type Inputs struct {
	Barcode Raw
	Label   Raw
	Weight  Raw
	Origin  Raw
}

// Normalize derives the canonical state of each fact:
//
//	not_provided  no photo or input was supplied
//	unreadable    supplied, but extraction failed
//	captured      resolved from a high-trust source
//	inferred      only a vision inference was available
func Normalize(in Inputs) model.EvidenceSummary {
	return model.EvidenceSummary{
		Barcode: normalizeOne(in.Barcode),
		Label:   normalizeOne(in.Label),
		Weight:  normalizeOne(in.Weight),
		Origin:  normalizeOne(originDisplay(in.Origin)),
	}
}

func normalizeOne(r Raw) model.FactItem {
	switch {
	case !r.Provided:
		return model.FactItem{State: model.FactNotProvided}
	case !r.Resolved || r.Source == model.SourceDefault:
		return model.FactItem{State: model.FactUnreadable}
	case r.Source.HighTrust():
		return model.FactItem{State: model.FactCaptured, Display: r.Display}
	default:
		return model.FactItem{State: model.FactInferred, Display: r.Display}
	}
}

// originDisplay canonicalizes an OCR'd country string: Unicode NFC,
// collapsed whitespace, title case.
func originDisplay(r Raw) Raw {
	if r.Display == "" {
		return r
	}
	s := norm.NFC.String(r.Display)
	s = strings.Join(strings.Fields(s), " ")
	r.Display = titleCaser.String(s)
	return r
}

// FromDraft builds normalization inputs from a resolved draft plus the
// report's input flags, so callers do not restate which source won.
func FromDraft(d model.DraftInference, in model.InputStatus) Inputs {
	weightProvided := in.WeightProvided || in.PackagePhoto || in.LabelPhoto

	var weightDisplay string
	if d.Weight.Grams.HasValue() {
		weightDisplay = fmt.Sprintf("%g g", *d.Weight.Grams.Value)
	}

	return Inputs{
		Barcode: Raw{
			Provided: in.BarcodePhoto,
			Resolved: d.Barcode.HasValue(),
			Source:   d.Barcode.Source,
			Display:  d.Barcode.Get(),
		},
		Label: Raw{
			Provided: in.LabelPhoto,
			Resolved: d.Label.Status != model.LabelStatusEmpty,
			Source:   labelSource(d.Label),
			Display:  d.Label.ProductName.Get(),
		},
		Weight: Raw{
			Provided: weightProvided,
			Resolved: d.Weight.Grams.HasValue() && !d.Weight.Grams.IsDefault(),
			Source:   d.Weight.Grams.Source,
			Display:  weightDisplay,
		},
		Origin: Raw{
			Provided: in.OriginProvided || in.LabelPhoto,
			Resolved: d.Label.OriginCountry.HasValue(),
			Source:   d.Label.OriginCountry.Source,
			Display:  d.Label.OriginCountry.Get(),
		},
	}
}

// labelSource picks the provenance of the label as a whole: the first
// populated critical sub-field wins.
func labelSource(l model.LabelDraft) model.Source {
	for _, f := range []model.Field[string]{l.OriginCountry, l.NetWeight, l.Brand, l.ProductName} {
		if f.HasValue() {
			return f.Source
		}
	}
	return model.SourceDefault
}
