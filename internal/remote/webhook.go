package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrWebhookDisabled is returned when no webhook URL is configured.
var ErrWebhookDisabled = errors.New("webhook not configured")

// Webhook triggers workflows on an external automation service.
type Webhook struct {
	url   string
	token string
	http  *http.Client
}

func NewWebhook(url, token string, timeout time.Duration) *Webhook {
	return &Webhook{url: url, token: token, http: &http.Client{Timeout: timeout}}
}

// Trigger posts {workflow, data}. Any 2xx status counts as accepted.
func (w *Webhook) Trigger(ctx context.Context, workflow string, data any) error {
	if w.url == "" {
		return ErrWebhookDisabled
	}
	body, err := json.Marshal(map[string]any{"workflow": workflow, "data": data})
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("triggering %s: %w", workflow, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("triggering %s: webhook returned %d", workflow, resp.StatusCode)
	}
	return nil
}
