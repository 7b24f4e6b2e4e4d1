// internal/completion/client.go
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"nlq-gateway/internal/common/metrics"
)

var (
	ErrCompletionFailed  = errors.New("COMPLETION_FAILED")
	ErrCompletionTimeout = errors.New("COMPLETION_TIMEOUT")
	ErrEmptyCompletion   = errors.New("EMPTY_COMPLETION")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Completer is the capability consumed by the pipeline components. Each
// component owns its temperature and token budget, so both travel in the
// request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single chat completion call.
type Request struct {
	Purpose     string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Config holds the completion endpoint settings.
type Config struct {
	Endpoint       string
	APIKey         string
	Deployment     string
	APIVersion     string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client calls an Azure-hosted chat completion deployment.
type Client struct {
	config Config
	client *http.Client
	logger Logger
}

func NewClient(cfg Config, log Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
		logger: log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.config.Endpoint, "/"), c.config.Deployment, c.config.APIVersion)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.config.APIKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.CompletionRequests.WithLabelValues(req.Purpose, "error").Inc()
		if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
			return "", fmt.Errorf("%w: %s", ErrCompletionTimeout, req.Purpose)
		}
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.CompletionRequests.WithLabelValues(req.Purpose, "error").Inc()
		return "", fmt.Errorf("%w: status %d", ErrCompletionFailed, resp.StatusCode)
	}

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		metrics.CompletionRequests.WithLabelValues(req.Purpose, "error").Inc()
		return "", fmt.Errorf("%w: decode error: %v", ErrCompletionFailed, err)
	}

	if apiResponse.Error != nil {
		metrics.CompletionRequests.WithLabelValues(req.Purpose, "error").Inc()
		return "", fmt.Errorf("%w: %s", ErrCompletionFailed, apiResponse.Error.Message)
	}

	if len(apiResponse.Choices) == 0 || strings.TrimSpace(apiResponse.Choices[0].Message.Content) == "" {
		metrics.CompletionRequests.WithLabelValues(req.Purpose, "empty").Inc()
		return "", fmt.Errorf("%w: %s", ErrEmptyCompletion, req.Purpose)
	}

	metrics.CompletionRequests.WithLabelValues(req.Purpose, "ok").Inc()
	c.logger.Info("completion finished", map[string]interface{}{
		"purpose":    req.Purpose,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return strings.TrimSpace(apiResponse.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
