// Package reasoning asks an OpenAI-compatible chat completion API for a
// verdict on a computed indicator set.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/config"
	"github.com/irfndi/paragon-ai-go/internal/models"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = time.Second
	defaultModel      = "gpt-4o-mini"
)

// Client produces a verdict for an indicator set.
type Client interface {
	Analyze(ctx context.Context, indicators models.IndicatorSet, market models.MarketSnapshot, symbol string) (models.AnalysisVerdict, error)
}

// OpenAIClient talks to any API exposing POST {api_url}/chat/completions.
type OpenAIClient struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxRetries  int
	retryDelay  time.Duration
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewOpenAIClient creates a client from the reasoning config section.
func NewOpenAIClient(cfg config.ReasoningConfig, logger *logrus.Logger) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &OpenAIClient{
		endpoint:    strings.TrimSuffix(cfg.APIURL, "/") + "/chat/completions",
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		maxRetries:  maxRetries,
		retryDelay:  defaultRetryDelay,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Analyze sends the prompt and validates the returned verdict. Transport
// failures are retried; a malformed verdict is not.
func (c *OpenAIClient) Analyze(ctx context.Context, indicators models.IndicatorSet, market models.MarketSnapshot, symbol string) (models.AnalysisVerdict, error) {
	if c.apiKey == "" {
		return models.AnalysisVerdict{}, errors.New("reasoning API key is empty")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildPrompt(indicators, market, symbol)},
		},
		Temperature:    c.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.AnalysisVerdict{}, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		content, err := c.sendRequest(ctx, reqBody)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return models.AnalysisVerdict{}, ctx.Err()
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"symbol":  symbol,
				"attempt": attempt + 1,
			}).Warn("Reasoning request failed")
			continue
		}

		return ParseVerdict(content)
	}

	return models.AnalysisVerdict{}, errors.Wrapf(lastErr, "reasoning failed after %d attempts", c.maxRetries+1)
}

func (c *OpenAIClient) sendRequest(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "HTTP request failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Error closing reasoning response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reasoning API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal response")
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("reasoning API error: %s (type: %s)", chatResp.Error.Message, chatResp.Error.Type)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("reasoning API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
