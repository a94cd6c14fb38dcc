// Package zeroshot implements the model-backed risk-classification strategy
// on top of the HuggingFace Inference API. The hosted model receives a clause
// plus the topic vocabulary and returns ranked labels with scores.
package zeroshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/resilience"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

type Classifier struct {
	baseURL         string
	apiToken        string
	model           string
	topics          []string
	acceptThreshold float64
	callTimeout     time.Duration
	httpClient      *http.Client
	executor        *resilience.Executor
}

type Option func(*Classifier)

// WithBaseURL overrides the inference endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Classifier) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

func New(apiToken, model string, topics []string, acceptThreshold float64, callTimeout time.Duration, executor *resilience.Executor, opts ...Option) *Classifier {
	if acceptThreshold <= 0 || acceptThreshold >= 1 {
		acceptThreshold = 0.6
	}
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	c := &Classifier{
		baseURL:         defaultBaseURL,
		apiToken:        apiToken,
		model:           model,
		topics:          topics,
		acceptThreshold: acceptThreshold,
		callTimeout:     callTimeout,
		httpClient:      &http.Client{Timeout: callTimeout},
		executor:        executor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the model path can serve at all. Without an API
// token the orchestrator goes straight to the keyword fallback.
func (c *Classifier) Available() bool {
	return c.apiToken != ""
}

type inferenceResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Classify submits one clause for zero-shot classification. The second
// return value reports whether the top label cleared the acceptance
// threshold; a below-threshold clause is unclassified by this strategy,
// not an error.
func (c *Classifier) Classify(ctx context.Context, clause domain.Clause) (domain.RiskAssessment, bool, error) {
	if !c.Available() {
		return domain.RiskAssessment{}, false, domain.WrapError(domain.ErrUnavailable, "zero-shot classify", fmt.Errorf("no API token configured"))
	}

	var result inferenceResponse
	err := c.executor.Execute(ctx, "zeroshot_classify", func(ctx context.Context) error {
		return c.infer(ctx, clause.Text, &result)
	}, classifyInferenceError)
	if err != nil {
		return domain.RiskAssessment{}, false, fmt.Errorf("zero-shot classify: %w", err)
	}

	if len(result.Labels) == 0 || len(result.Scores) == 0 {
		return domain.RiskAssessment{}, false, nil
	}
	if result.Scores[0] <= c.acceptThreshold {
		return domain.RiskAssessment{}, false, nil
	}
	return domain.RiskAssessment{
		Clause:     clause,
		Label:      result.Labels[0],
		Confidence: result.Scores[0],
	}, true, nil
}

func (c *Classifier) infer(ctx context.Context, text string, out *inferenceResponse) error {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": c.topics,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal inference request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/models/"+c.model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "zeroshot_classify",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode inference response: %w", err)
	}
	return nil
}
