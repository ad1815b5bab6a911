package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sourcing-cli/internal/resilience"
)

const defaultRemoteEndpoint = "https://api.mistral.ai/v1/ocr"

// Remote extracts text via a hosted OCR API.
type Remote struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewRemote creates a remote extractor. An empty endpoint uses the
// default hosted service.
func NewRemote(endpoint, apiKey string) *Remote {
	if endpoint == "" {
		endpoint = defaultRemoteEndpoint
	}
	return &Remote{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type remoteRequest struct {
	Document remoteDocument `json:"document"`
}

type remoteDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type remoteResponse struct {
	Pages []struct {
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

// ExtractText sends the image as a data URL and concatenates the
// returned page text.
func (r *Remote) ExtractText(ctx context.Context, image []byte) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	body, err := json.Marshal(remoteRequest{
		Document: remoteDocument{Type: "image_url", ImageURL: dataURL},
	})
	if err != nil {
		return "", eris.Wrap(err, "ocr: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "ocr: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "ocr: request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "ocr: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("ocr: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	var parsed remoteResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", eris.Wrap(err, "ocr: parse response")
	}

	var sb strings.Builder
	for _, p := range parsed.Pages {
		sb.WriteString(p.Markdown)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
