package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storefront-gate/internal/domain"
)

// Sender posts notifications as JSON to a single webhook URL.
// The payload carries a top-level "text" field, which chat webhooks render as the message.
type Sender struct {
	url        string
	httpClient *http.Client
}

// NewSender returns a Sender for url. timeout bounds each request independently
// of any caller deadline.
func NewSender(url string, timeout time.Duration) *Sender {
	return &Sender{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *Sender) Name() string { return "webhook" }

func (s *Sender) Send(ctx context.Context, n *domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status=%d body=%s", resp.StatusCode, respBody)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
