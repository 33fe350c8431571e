package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/httpx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const mailSendPath = "/v3/mail/send"

// Client sends transactional mail through the SendGrid v3 API.
type Client interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
}

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
	Retry     httpx.RetryPolicy
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:    envutil.String("SENDGRID_API_KEY", ""),
		BaseURL:   envutil.String("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
		FromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
		FromName:  envutil.String("SENDGRID_FROM_NAME", "LearnHub"),
		Timeout:   envutil.Seconds("SENDGRID_TIMEOUT_SECONDS", 30*time.Second),
		Retry: httpx.RetryPolicy{
			MaxRetries: envutil.Int("SENDGRID_MAX_RETRIES", 4),
			Base:       time.Second,
			Max:        10 * time.Second,
		},
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("missing SENDGRID_FROM_EMAIL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxRetries < 0 {
		cfg.Retry.MaxRetries = 0
	}
	if cfg.Retry.Base <= 0 {
		cfg.Retry.Base = time.Second
	}
	return &client{
		log:  log.With("client", "SendGridClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Message is a single-recipient HTML mail.
type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	HTML     string
	Category string
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type payload struct {
	Personalizations []struct {
		To []address `json:"to"`
	} `json:"personalizations"`
	From       address   `json:"from"`
	Subject    string    `json:"subject"`
	Content    []content `json:"content"`
	Categories []string  `json:"categories,omitempty"`
}

func (c *client) payload(msg Message) (*payload, error) {
	msg.ToEmail = strings.TrimSpace(msg.ToEmail)
	msg.Subject = strings.TrimSpace(msg.Subject)
	switch {
	case msg.ToEmail == "":
		return nil, fmt.Errorf("sendgrid: recipient required")
	case msg.Subject == "":
		return nil, fmt.Errorf("sendgrid: subject required")
	case strings.TrimSpace(msg.HTML) == "":
		return nil, fmt.Errorf("sendgrid: html body required")
	}
	p := &payload{
		From:    address{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		Subject: msg.Subject,
		Content: []content{{Type: "text/html", Value: msg.HTML}},
	}
	p.Personalizations = make([]struct {
		To []address `json:"to"`
	}, 1)
	p.Personalizations[0].To = []address{{Email: msg.ToEmail, Name: msg.ToName}}
	if msg.Category != "" {
		p.Categories = []string{msg.Category}
	}
	return p, nil
}

// APIError is a non-2xx answer from SendGrid.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

func apiError(status int, body []byte) *APIError {
	var parsed struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &parsed) == nil && len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		msg = parsed.Errors[0].Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if len(msg) > 500 {
		msg = msg[:500] + "..."
	}
	return &APIError{StatusCode: status, Message: msg}
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func (c *client) Send(ctx context.Context, msg Message) (string, error) {
	p, err := c.payload(msg)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("sendgrid: encode: %w", err)
	}
	resp, err := httpx.Do(ctx, c.cfg.Retry, func(ctx context.Context) (*http.Response, error) {
		return c.post(ctx, body)
	}, func(attempt int, wait time.Duration, err error) {
		c.log.Warn("SendGrid request retrying", "attempt", attempt, "max_retries", c.cfg.Retry.MaxRetries, "wait", wait.String(), "error", err)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Header.Get("X-Message-Id")), nil
}

// post returns the response with its body drained, so callers only read
// status and headers.
func (c *client) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+mailSendPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
	if err != nil {
		return resp, err
	}
	if resp.StatusCode/100 != 2 {
		return resp, apiError(resp.StatusCode, raw)
	}
	return resp, nil
}
