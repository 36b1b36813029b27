package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/liftlab/liftlab-backend/internal/logger"
)

// Client talks to the Expo push HTTP API. One message in, one ticket out.
type Client interface {
	SendPush(ctx context.Context, msg PushMessage) (*PushTicket, error)
}

type Config struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
}

func ConfigFromEnv() Config {
	timeoutSec := 30
	if v := strings.TrimSpace(os.Getenv("EXPO_TIMEOUT_SECONDS")); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &timeoutSec); err != nil {
			timeoutSec = 30
		}
	}
	return Config{
		AccessToken: strings.TrimSpace(os.Getenv("EXPO_ACCESS_TOKEN")),
		BaseURL:     strings.TrimSpace(os.Getenv("EXPO_BASE_URL")),
		Timeout:     time.Duration(timeoutSec) * time.Second,
		MaxRetries:  3,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://exp.host"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &client{
		log:        log.With("client", "ExpoPushClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type PushMessage struct {
	To       string         `json:"to"`
	Title    string         `json:"title,omitempty"`
	Body     string         `json:"body,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Sound    string         `json:"sound,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

type PushTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (t *PushTicket) OK() bool {
	return t != nil && t.Status == "ok"
}

type pushResponse struct {
	Data   []PushTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *client) SendPush(ctx context.Context, msg PushMessage) (*PushTicket, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("expo client unavailable")
	}
	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		return nil, fmt.Errorf("expo: To required")
	}

	raw, err := c.do(ctx, "/--/api/v2/push/send", []PushMessage{msg})
	if err != nil {
		return nil, err
	}

	var parsed pushResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("expo: decode response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("expo: %s: %s", parsed.Errors[0].Code, parsed.Errors[0].Message)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("expo: empty ticket response")
	}
	ticket := parsed.Data[0]
	return &ticket, nil
}

func (c *client) do(ctx context.Context, path string, body any) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, status, err := c.doOnce(ctx, path, body)
		if err == nil {
			return raw, nil
		}

		retryable := status == http.StatusTooManyRequests || status >= 500 || status == 0
		if !retryable || attempt == c.cfg.MaxRetries {
			return nil, err
		}

		c.log.Warn("Expo push request retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", backoff.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp.StatusCode, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > 2000 {
			snippet = snippet[:2000] + "..."
		}
		return nil, resp.StatusCode, fmt.Errorf("expo http %d: %s", resp.StatusCode, snippet)
	}
	return raw, resp.StatusCode, nil
}
