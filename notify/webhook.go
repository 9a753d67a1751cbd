package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrDisabled is returned by Forward when no webhook URL is configured.
var ErrDisabled = errors.New("webhook not configured")

const maxResponseBody = 64 << 10

// Delivery is the webhook's answer to a forwarded payload.
type Delivery struct {
	Status int    `json:"webhook_status"`
	Body   string `json:"webhook_response"`
}

// Webhook forwards confirmed reservations to an external notification hook.
type Webhook struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhook(url string, timeout time.Duration, logger *zap.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Forward POSTs payload as JSON. A non-2xx answer is an error carrying the
// delivery so callers can report what the hook said.
func (w *Webhook) Forward(ctx context.Context, payload any) (*Delivery, error) {
	if w.url == "" {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	d := &Delivery{Status: resp.StatusCode, Body: string(respBody)}
	w.logger.Info("webhook delivered", zap.Int("status", d.Status))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return d, fmt.Errorf("webhook call failed with status %d", resp.StatusCode)
	}
	return d, nil
}
