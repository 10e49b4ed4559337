// Package ai21 implements the decoy provider against the AI21 Studio
// chat-completions API.
package ai21

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.ai21.com/studio/v1"
	defaultModel   = "jamba-large-1.6-2025-03"

	systemPrompt = "You are a creative assistant for a party game. Answer briefly and with originality."
)

var (
	decoyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoy_requests_total",
			Help: "Total number of decoy generation requests",
		},
		[]string{"status"},
	)

	decoyRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "decoy_request_duration_seconds",
			Help:    "Decoy generation request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20},
		},
	)
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) ports.DecoyProvider {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, theme string) (string, error) {
	start := time.Now()
	text, status, err := c.generate(ctx, theme)
	decoyRequestDuration.Observe(time.Since(start).Seconds())
	decoyRequestsTotal.WithLabelValues(status).Inc()
	return text, err
}

func (c *Client) generate(ctx context.Context, theme string) (string, string, error) {
	reqBody := completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Come up with a creative answer on the theme: %s", theme)},
		},
		Temperature: 0.7,
		TopP:        1,
		MaxTokens:   200,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", "encode_error", fmt.Errorf("%w: failed to marshal request: %v", domain.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", "request_error", fmt.Errorf("%w: failed to create request: %v", domain.ErrGeneration, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "transport_error", fmt.Errorf("%w: request failed: %v", domain.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", strconv.Itoa(resp.StatusCode), fmt.Errorf("%w: unexpected status %d: %s", domain.ErrGeneration, resp.StatusCode, string(body))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", "decode_error", fmt.Errorf("%w: failed to decode response: %v", domain.ErrGeneration, err)
	}
	if len(completion.Choices) == 0 {
		return "", "empty_response", fmt.Errorf("%w: response contains no choices", domain.ErrGeneration)
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", "empty_response", fmt.Errorf("%w: response contains empty content", domain.ErrGeneration)
	}

	return text, "200", nil
}
