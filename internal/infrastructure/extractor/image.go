package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

const defaultInferenceBaseURL = "https://api-inference.huggingface.co"

// OCRClient runs hosted image-to-text inference for scanned contract pages.
type OCRClient struct {
	baseURL     string
	apiToken    string
	model       string
	callTimeout time.Duration
	httpClient  *http.Client
}

type OCROption func(*OCRClient)

// WithOCRBaseURL overrides the inference endpoint, for tests.
func WithOCRBaseURL(baseURL string) OCROption {
	return func(c *OCRClient) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func NewOCRClient(apiToken, model string, callTimeout time.Duration, opts ...OCROption) *OCRClient {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	c := &OCRClient{
		baseURL:     defaultInferenceBaseURL,
		apiToken:    apiToken,
		model:       model,
		callTimeout: callTimeout,
		httpClient:  &http.Client{Timeout: callTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadImage posts raw image bytes to the image-to-text model and returns the
// recognized text.
func (c *OCRClient) ReadImage(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	url := c.baseURL + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr inference call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ocr response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr inference returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	var parts []string
	for _, r := range results {
		if t := strings.TrimSpace(r.GeneratedText); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (e *Extractor) extractImage(ctx context.Context, doc *domain.Document) (string, error) {
	if e.ocr == nil {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract image",
			errors.New("image recognition is not configured"))
	}

	raw, err := e.readAll(ctx, doc)
	if err != nil {
		return "", err
	}
	return e.ocr.ReadImage(ctx, raw)
}
