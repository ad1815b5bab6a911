// Package extraction fans the logically independent extraction
// attempts out to the OCR and vision providers and collects their raw
// results. Attempts are isolated: one provider's failure or timeout
// never prevents the others from completing, and never aborts the
// synthesis pass. A timeout is just a failure, and a failure is just a
// fallback input.
package extraction

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sourcing-cli/internal/fallback"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/ocr"
	"github.com/sells-group/sourcing-cli/internal/resilience"
	"github.com/sells-group/sourcing-cli/pkg/vision"
)

// defaultAttemptTimeout bounds each provider call so no extraction can
// block the synthesis stage indefinitely.
const defaultAttemptTimeout = 45 * time.Second

// Inputs is the raw evidence supplied with a report.
type Inputs struct {
	BarcodeImage []byte
	LabelImage   []byte
	PackageImage []byte
	BoxImage     []byte

	UserWeight *model.WeightValue

	Category    string
	ProductName string
}

// Runner coordinates the concurrent extraction attempts for one
// report.
type Runner struct {
	ocr     ocr.Extractor
	vision  vision.Client
	timeout time.Duration
	retry   resilience.RetryConfig
}

// NewRunner creates a Runner. Either provider may be nil; its attempts
// then resolve as not attempted.
func NewRunner(ocrClient ocr.Extractor, visionClient vision.Client, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	return &Runner{
		ocr:     ocrClient,
		vision:  visionClient,
		timeout: timeout,
		retry:   resilience.DefaultRetryConfig(),
	}
}

// Run issues every applicable extraction attempt concurrently and
// returns the raw attempt set. It never returns an error: provider
// failures become failed Results.
func (r *Runner) Run(ctx context.Context, reportID string, in Inputs) fallback.Attempts {
	a := emptyAttempts()
	a.WeightUser = WeightFromUser(in.UserWeight)

	g, gCtx := errgroup.WithContext(ctx)

	// Barcode photo: OCR text scan, then vision read of the same photo.
	if len(in.BarcodeImage) > 0 {
		g.Go(func() error {
			a.BarcodeOCR = r.barcodeOCR(gCtx, in.BarcodeImage)
			return nil
		})
		g.Go(func() error {
			a.BarcodeVision = r.barcodeVision(gCtx, reportID, in.BarcodeImage)
			return nil
		})
	}

	// Label photo: OCR parse, vision draft, and the label-text weight
	// reading all come off this image.
	if len(in.LabelImage) > 0 {
		g.Go(func() error {
			text, err := r.ocrText(gCtx, in.LabelImage)
			if err != nil {
				reason := classify(err)
				a.LabelOCR = fallback.Fail[fallback.LabelFields](model.SourceOCR, reason)
				a.WeightLabel = fallback.Fail[model.WeightValue](model.SourceLabelText, reason)
				return nil
			}
			a.LabelOCR = parseLabel(text)
			a.WeightLabel = parseWeight(text)
			return nil
		})
		g.Go(func() error {
			a.LabelVision = r.labelVision(gCtx, reportID, in.LabelImage)
			return nil
		})
	}

	// Package photo: vision weight estimate.
	if len(in.PackageImage) > 0 {
		g.Go(func() error {
			a.WeightVision = r.weightVision(gCtx, reportID, in.PackageImage, in.Category)
			return nil
		})
	}

	// Box photo: case-pack candidates.
	if len(in.BoxImage) > 0 {
		g.Go(func() error {
			a.CasePackVision = r.casePackVision(gCtx, reportID, in.BoxImage)
			return nil
		})
	}

	// Customs classification needs only text signals.
	if in.ProductName != "" || in.Category != "" {
		g.Go(func() error {
			a.Customs = r.customs(gCtx, reportID, in.ProductName, in.Category)
			return nil
		})
	}

	// All goroutines return nil; Wait only orders completion.
	_ = g.Wait()
	return *a
}

// WeightFromUser builds the weight attempt for a user-entered value.
// It needs no provider, so it resolves even when extraction never runs.
func WeightFromUser(w *model.WeightValue) fallback.Result[model.WeightValue] {
	if w == nil {
		return fallback.NotAttempted[model.WeightValue](model.SourceUserInput)
	}
	return fallback.Ok(*w, 0.95, model.SourceUserInput, "entered by user")
}

// OfflineAttempts is the attempt set for callers without providers:
// every provider slot is not attempted and only user input resolves.
func OfflineAttempts(in Inputs) fallback.Attempts {
	a := emptyAttempts()
	a.WeightUser = WeightFromUser(in.UserWeight)
	return *a
}

// emptyAttempts marks every source as not attempted; Run overwrites
// the slots it actually tries.
func emptyAttempts() *fallback.Attempts {
	return &fallback.Attempts{
		WeightUser:     fallback.NotAttempted[model.WeightValue](model.SourceUserInput),
		WeightLabel:    fallback.NotAttempted[model.WeightValue](model.SourceLabelText),
		WeightVision:   fallback.NotAttempted[model.WeightValue](model.SourceVision),
		BarcodeOCR:     fallback.NotAttempted[string](model.SourceOCR),
		BarcodeVision:  fallback.NotAttempted[string](model.SourceVision),
		LabelOCR:       fallback.NotAttempted[fallback.LabelFields](model.SourceOCR),
		LabelVision:    fallback.NotAttempted[fallback.LabelFields](model.SourceVision),
		CasePackVision: fallback.NotAttempted[[]int](model.SourceVision),
		Customs:        fallback.NotAttempted[fallback.CustomsGuess](model.SourceReasoning),
	}
}

func (r *Runner) ocrText(ctx context.Context, image []byte) (string, error) {
	if r.ocr == nil {
		return "", errNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	// Remote OCR flags 429/5xx responses as transient; those get
	// another try within the attempt timeout.
	return resilience.DoVal(ctx, r.retry, func(ctx context.Context) (string, error) {
		return r.ocr.ExtractText(ctx, image)
	})
}

func (r *Runner) barcodeOCR(ctx context.Context, image []byte) fallback.Result[string] {
	text, err := r.ocrText(ctx, image)
	if err != nil {
		return fallback.Fail[string](model.SourceOCR, classify(err))
	}
	return parseBarcode(text)
}

func (r *Runner) barcodeVision(ctx context.Context, reportID string, image []byte) fallback.Result[string] {
	if r.vision == nil {
		return fallback.NotAttempted[string](model.SourceVision)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.vision.ReadBarcode(ctx, image, reportID)
	if err != nil {
		logAttempt("barcode_vision", reportID, err)
		return fallback.Fail[string](model.SourceVision, classify(err))
	}
	if !res.Success || res.Barcode == "" {
		return fallback.Fail[string](model.SourceVision, fallback.ReasonUnreadable)
	}
	return fallback.Ok(res.Barcode, res.Confidence, model.SourceVision, res.Snippet)
}

func (r *Runner) labelVision(ctx context.Context, reportID string, image []byte) fallback.Result[fallback.LabelFields] {
	if r.vision == nil {
		return fallback.NotAttempted[fallback.LabelFields](model.SourceVision)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.vision.ExtractLabel(ctx, image, reportID)
	if err != nil {
		logAttempt("label_vision", reportID, err)
		return fallback.Fail[fallback.LabelFields](model.SourceVision, classify(err))
	}
	if !res.Success {
		return fallback.Fail[fallback.LabelFields](model.SourceVision, fallback.ReasonUnreadable)
	}
	return fallback.Ok(fallback.LabelFields{
		OriginCountry: res.OriginCountry,
		NetWeight:     res.NetWeight,
		Allergens:     res.Allergens,
		Brand:         res.Brand,
		ProductName:   res.ProductName,
	}, res.Confidence, model.SourceVision, res.Snippet)
}

func (r *Runner) weightVision(ctx context.Context, reportID string, image []byte, category string) fallback.Result[model.WeightValue] {
	if r.vision == nil {
		return fallback.NotAttempted[model.WeightValue](model.SourceVision)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.vision.EstimateWeight(ctx, image, category, reportID)
	if err != nil {
		logAttempt("weight_vision", reportID, err)
		return fallback.Fail[model.WeightValue](model.SourceVision, classify(err))
	}
	if !res.Success || res.Amount <= 0 {
		return fallback.Fail[model.WeightValue](model.SourceVision, fallback.ReasonUnreadable)
	}
	unit := model.WeightUnit(res.Unit)
	switch unit {
	case model.UnitGrams, model.UnitKilograms, model.UnitMilliliter:
	default:
		return fallback.Fail[model.WeightValue](model.SourceVision, fallback.ReasonMalformed)
	}
	return fallback.Ok(model.WeightValue{Amount: res.Amount, Unit: unit},
		res.Confidence, model.SourceVision, res.Snippet)
}

func (r *Runner) casePackVision(ctx context.Context, reportID string, image []byte) fallback.Result[[]int] {
	if r.vision == nil {
		return fallback.NotAttempted[[]int](model.SourceVision)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.vision.CountCasePack(ctx, image, reportID)
	if err != nil {
		logAttempt("case_pack_vision", reportID, err)
		return fallback.Fail[[]int](model.SourceVision, classify(err))
	}
	if !res.Success {
		return fallback.Fail[[]int](model.SourceVision, fallback.ReasonUnreadable)
	}
	if len(res.Counts) == 0 {
		return fallback.Fail[[]int](model.SourceVision, fallback.ReasonMalformed)
	}
	return fallback.Ok(res.Counts, res.Confidence, model.SourceVision, res.Snippet)
}

func (r *Runner) customs(ctx context.Context, reportID, productName, category string) fallback.Result[fallback.CustomsGuess] {
	if r.vision == nil {
		return fallback.NotAttempted[fallback.CustomsGuess](model.SourceReasoning)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.vision.ClassifyCustoms(ctx, productName, category, reportID)
	if err != nil {
		logAttempt("customs", reportID, err)
		return fallback.Fail[fallback.CustomsGuess](model.SourceReasoning, classify(err))
	}
	if !res.Success || res.Category == "" {
		return fallback.Fail[fallback.CustomsGuess](model.SourceReasoning, fallback.ReasonUnreadable)
	}

	guess := fallback.CustomsGuess{Category: res.Category}
	for _, c := range res.Candidates {
		guess.Candidates = append(guess.Candidates, model.HSCandidate{
			HSCode:     c.HSCode,
			Confidence: model.ClampConfidence(c.Confidence),
			Rationale:  c.Rationale,
			Source:     model.SourceReasoning,
		})
	}
	return fallback.Ok(guess, res.Confidence, model.SourceReasoning, "")
}

var errNoProvider = errors.New("extraction: no provider configured")

// classify maps a provider error onto a failure reason.
func classify(err error) fallback.FailureReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fallback.ReasonTimeout
	case errors.Is(err, errNoProvider):
		return fallback.ReasonNotAttempted
	default:
		return fallback.ReasonProviderError
	}
}

func logAttempt(op, reportID string, err error) {
	zap.L().Warn("extraction: attempt failed",
		zap.String("op", op),
		zap.String("report_id", reportID),
		zap.Error(err),
	)
}
