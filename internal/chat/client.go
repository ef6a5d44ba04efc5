package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dormdesk/internal/config"
	"dormdesk/internal/logger"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Notifier sends text messages to chat users
type Notifier interface {
	Push(ctx context.Context, to, text string) error
	Reply(ctx context.Context, replyToken, text string) error
}

// APIError is a non-2xx answer from the messaging API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api returned %d: %s", e.StatusCode, e.Message)
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LineClient talks to a LINE compatible Messaging API
type LineClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewLineClient(baseURL, token string, timeout time.Duration) *LineClient {
	return &LineClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewNotifier returns a LineClient, or a NoopNotifier when no channel token is configured
func NewNotifier(cfg config.ChatConfig, log *zap.Logger) Notifier {
	if cfg.ChannelToken == "" {
		log.Info("chat channel token not configured, outbound messages are logged only")
		return NewNoopNotifier(log)
	}
	return NewLineClient(cfg.APIBaseURL, cfg.ChannelToken, cfg.Timeout)
}

func (c *LineClient) Push(ctx context.Context, to, text string) error {
	return c.post(ctx, "/v2/bot/message/push", map[string]any{
		"to":       to,
		"messages": []textMessage{{Type: "text", Text: text}},
	})
}

func (c *LineClient) Reply(ctx context.Context, replyToken, text string) error {
	return c.post(ctx, "/v2/bot/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages":   []textMessage{{Type: "text", Text: text}},
	})
}

func (c *LineClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := gjson.GetBytes(data, "message").String()
	if detail := gjson.GetBytes(data, "details.0.message").String(); detail != "" {
		msg += ": " + detail
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// NoopNotifier logs messages instead of sending them
type NoopNotifier struct {
	log *zap.Logger
}

func NewNoopNotifier(log *zap.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) Push(ctx context.Context, to, text string) error {
	logger.FromContext(ctx).Debug("chat push skipped", zap.String("to", to), zap.Int("length", len(text)))
	n.log.Info("chat push (noop)", zap.String("to", to))
	return nil
}

func (n *NoopNotifier) Reply(ctx context.Context, replyToken, text string) error {
	n.log.Info("chat reply (noop)", zap.Int("length", len(text)))
	return nil
}
