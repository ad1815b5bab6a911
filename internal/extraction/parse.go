package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/sourcing-cli/internal/fallback"
	"github.com/sells-group/sourcing-cli/internal/model"
)

var (
	barcodeRe = regexp.MustCompile(`\b\d{8,14}\b`)
	weightRe  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|g|ml)\b`)
	originRe  = regexp.MustCompile(`(?i)(?:made in|product of|origin:?)\s+([A-Za-z][A-Za-z .'-]{1,40})`)
	containRe = regexp.MustCompile(`(?i)contains:?\s+([^.\n]+)`)
)

// ocrConfidence is the confidence assigned to values parsed out of OCR
// text. OCR reads are high-trust but the parsing is heuristic.
const ocrConfidence = 0.85

// parseBarcode finds the first barcode-length digit run in OCR text.
func parseBarcode(text string) fallback.Result[string] {
	m := barcodeRe.FindString(text)
	if m == "" {
		return fallback.Fail[string](model.SourceOCR, fallback.ReasonUnreadable)
	}
	return fallback.Ok(m, ocrConfidence, model.SourceOCR, snippetAround(text, m))
}

// parseWeight finds the first weight or volume declaration in label
// text.
func parseWeight(text string) fallback.Result[model.WeightValue] {
	m := weightRe.FindStringSubmatch(text)
	if m == nil {
		return fallback.Fail[model.WeightValue](model.SourceLabelText, fallback.ReasonUnreadable)
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || amount <= 0 {
		return fallback.Fail[model.WeightValue](model.SourceLabelText, fallback.ReasonMalformed)
	}
	return fallback.Ok(
		model.WeightValue{Amount: amount, Unit: model.WeightUnit(strings.ToLower(m[2]))},
		ocrConfidence, model.SourceLabelText, m[0],
	)
}

// parseLabel pulls the label-critical fields out of OCR'd label text.
// Fields the heuristics cannot find stay empty; the attempt succeeds
// if anything at all was found.
func parseLabel(text string) fallback.Result[fallback.LabelFields] {
	var lf fallback.LabelFields

	if m := originRe.FindStringSubmatch(text); m != nil {
		lf.OriginCountry = strings.TrimSpace(m[1])
	}
	if m := weightRe.FindStringSubmatch(text); m != nil {
		lf.NetWeight = m[0]
	}
	if m := containRe.FindStringSubmatch(text); m != nil {
		for _, a := range strings.Split(m[1], ",") {
			a = strings.TrimSpace(strings.TrimSuffix(a, "."))
			if a != "" {
				lf.Allergens = append(lf.Allergens, a)
			}
		}
	}

	if lf.OriginCountry == "" && lf.NetWeight == "" && len(lf.Allergens) == 0 {
		return fallback.Fail[fallback.LabelFields](model.SourceOCR, fallback.ReasonUnreadable)
	}
	return fallback.Ok(lf, ocrConfidence, model.SourceOCR, snippetAround(text, lf.NetWeight))
}

// snippetAround returns a short slice of the source text surrounding
// the match, for the evidence trail.
func snippetAround(text, match string) string {
	text = strings.Join(strings.Fields(text), " ")
	if match == "" {
		if len(text) > 60 {
			return text[:60]
		}
		return text
	}
	i := strings.Index(text, match)
	if i < 0 {
		return match
	}
	start := i - 20
	if start < 0 {
		start = 0
	}
	end := i + len(match) + 20
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
