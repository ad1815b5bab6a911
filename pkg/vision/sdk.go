package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/sourcing-cli/internal/resilience"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 1024
	// requestsPerSecond throttles the provider; extraction calls are
	// bursty (five per report) but reports arrive one at a time.
	requestsPerSecond = 2
	burst             = 5
)

// sdkClient implements Client against the hosted model API.
type sdkClient struct {
	client  sdk.Client
	model   string
	limiter *rate.Limiter
	circuit *resilience.Circuit
	retry   resilience.RetryConfig
}

// NewClient creates a vision client. An empty model uses the default.
func NewClient(apiKey, model string) Client {
	return NewClientWithRate(apiKey, model, requestsPerSecond, burst)
}

// NewClientWithRate creates a vision client with explicit throttling.
// Non-positive rate or burst values fall back to the defaults.
func NewClientWithRate(apiKey, model string, perSecond float64, burstSize int) Client {
	if model == "" {
		model = defaultModel
	}
	if perSecond <= 0 {
		perSecond = requestsPerSecond
	}
	if burstSize <= 0 {
		burstSize = burst
	}
	retry := resilience.DefaultRetryConfig()
	retry.ShouldRetry = retryableProviderError
	return &sdkClient{
		client:  sdk.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burstSize),
		circuit: resilience.NewCircuit(resilience.CircuitConfig{}),
		retry:   retry,
	}
}

// retryableProviderError maps API error statuses onto the transient
// set; non-API errors fall back to the generic transient check.
func retryableProviderError(err error) bool {
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		return resilience.IsTransientHTTPStatus(apierr.StatusCode)
	}
	return resilience.IsTransient(err)
}

const labelPrompt = `Read the product label in this photo. Respond with only a JSON object:
{"success": bool, "origin_country": str, "net_weight": str, "allergens": [str], "brand": str, "product_name": str, "confidence": 0..1, "snippet": str}
Use empty strings for unreadable fields and set success=false if the photo shows no label.`

func (c *sdkClient) ExtractLabel(ctx context.Context, image []byte, requestID string) (*LabelResult, error) {
	var out LabelResult
	if err := c.visionJSON(ctx, requestID, "label", labelPrompt, image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const barcodePrompt = `Find the barcode digits in this photo. Respond with only a JSON object:
{"success": bool, "barcode": str, "confidence": 0..1, "snippet": str}
Set success=false if no barcode is legible.`

func (c *sdkClient) ReadBarcode(ctx context.Context, image []byte, requestID string) (*BarcodeResult, error) {
	var out BarcodeResult
	if err := c.visionJSON(ctx, requestID, "barcode", barcodePrompt, image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const weightPromptFmt = `Estimate the net weight of this %s product from the photo. Respond with only a JSON object:
{"success": bool, "amount": number, "unit": "g"|"kg"|"ml", "confidence": 0..1, "snippet": str}
Set success=false if no estimate is possible.`

func (c *sdkClient) EstimateWeight(ctx context.Context, image []byte, category, requestID string) (*WeightResult, error) {
	var out WeightResult
	prompt := fmt.Sprintf(weightPromptFmt, category)
	if err := c.visionJSON(ctx, requestID, "weight", prompt, image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const casePackPrompt = `Count the units per case visible in this photo of the case or inner box. Respond with only a JSON object:
{"success": bool, "counts": [int], "confidence": 0..1, "snippet": str}
List the plausible counts, most likely first. Set success=false if nothing indicates a count.`

func (c *sdkClient) CountCasePack(ctx context.Context, image []byte, requestID string) (*CasePackResult, error) {
	var out CasePackResult
	if err := c.visionJSON(ctx, requestID, "case_pack", casePackPrompt, image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const customsPromptFmt = `Classify the product %q (category %q) for customs. Respond with only a JSON object:
{"success": bool, "category": str, "candidates": [{"hs_code": str, "confidence": 0..1, "rationale": str}], "confidence": 0..1}
Give up to three HS candidates, most likely first.`

func (c *sdkClient) ClassifyCustoms(ctx context.Context, productName, category, requestID string) (*CustomsResult, error) {
	prompt := fmt.Sprintf(customsPromptFmt, productName, category)
	var out CustomsResult
	if err := c.textJSON(ctx, requestID, "customs", prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// visionJSON sends one image plus prompt and decodes the JSON reply.
func (c *sdkClient) visionJSON(ctx context.Context, requestID, op, prompt string, image []byte, out any) error {
	blocks := []sdk.ContentBlockParamUnion{
		sdk.NewImageBlockBase64("image/png", base64.StdEncoding.EncodeToString(image)),
		sdk.NewTextBlock(prompt),
	}
	return c.callJSON(ctx, requestID, op, blocks, out)
}

// textJSON sends a text-only prompt and decodes the JSON reply.
func (c *sdkClient) textJSON(ctx context.Context, requestID, op, prompt string, out any) error {
	blocks := []sdk.ContentBlockParamUnion{sdk.NewTextBlock(prompt)}
	return c.callJSON(ctx, requestID, op, blocks, out)
}

func (c *sdkClient) callJSON(ctx context.Context, requestID, op string, blocks []sdk.ContentBlockParamUnion, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "vision: rate limit wait")
	}

	return c.circuit.Execute(ctx, func(ctx context.Context) error {
		msg, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*sdk.Message, error) {
			return c.client.Messages.New(ctx, sdk.MessageNewParams{
				Model:     sdk.Model(c.model),
				MaxTokens: defaultMaxTokens,
				Messages:  []sdk.MessageParam{sdk.NewUserMessage(blocks...)},
			})
		})
		if err != nil {
			return eris.Wrapf(err, "vision: %s request %s", op, requestID)
		}

		text := firstText(msg)
		if text == "" {
			return eris.Errorf("vision: %s request %s returned no text", op, requestID)
		}
		if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
			zap.L().Warn("vision: malformed response",
				zap.String("op", op),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return eris.Wrapf(err, "vision: %s request %s malformed response", op, requestID)
		}
		return nil
	})
}

func firstText(msg *sdk.Message) string {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

// stripFences removes a markdown code fence if the model wrapped its
// JSON in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
