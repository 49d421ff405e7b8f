package summary

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

	"todoSummary/internal/config"
	"todoSummary/internal/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const chatCompletionsPath = "/chat/completions"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the OpenAI chat completions endpoint. It never retries.
type Client struct {
	apiKey  string
	baseURL string
	params  config.OpenAIConfig
	client  *http.Client
}

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	PresencePenalty  float64   `json:"presence_penalty"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type openaiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		params:  cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Complete sends messages as one request and returns the first choice verbatim.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", &Error{
			Kind:    KindAuth,
			Message: "OpenAI API authentication failed. Please check your API key.",
			Err:     errors.New("OPENAI_API_KEY not set"),
		}
	}

	body, err := json.Marshal(chatRequest{
		Model:            c.params.Model,
		Messages:         messages,
		MaxTokens:        c.params.MaxTokens,
		Temperature:      c.params.Temperature,
		PresencePenalty:  c.params.PresencePenalty,
		FrequencyPenalty: c.params.FrequencyPenalty,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		logger.Error("Summary: completion request failed", err, zap.Duration("ms", time.Since(start)))
		return "", transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		upstream := strings.TrimSpace(string(respBody))
		var apiErr openaiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			upstream = apiErr.Error.Message
		}
		logger.Warn("Summary: completion rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("upstream_error", upstream))
		return "", statusError(resp.StatusCode, upstream)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &Error{Kind: KindUpstream, StatusCode: resp.StatusCode,
			Message: "OpenAI API error: malformed response", Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return "", &Error{Kind: KindUpstream, StatusCode: resp.StatusCode,
			Message: "OpenAI API error: no choices returned", Err: errors.New("empty choices")}
	}

	logger.Info("Summary: completion received",
		zap.String("model", c.params.Model),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
		zap.Duration("ms", time.Since(start)))
	return chatResp.Choices[0].Message.Content, nil
}
