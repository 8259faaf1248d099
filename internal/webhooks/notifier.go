package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmejorado/agentic-checkout/pkg/config"
	"github.com/dmejorado/agentic-checkout/pkg/logger"
)

const (
	eventSessionCompleted = "checkout_session.completed"
	signatureHeader       = "X-Merchant-Signature"
)

// CompletedEvent is the payload delivered to the agent platform after a
// successful charge.
type CompletedEvent struct {
	Type              string `json:"type"`
	CheckoutSessionID string `json:"checkout_session_id"`
	OrderID           string `json:"order_id"`
	OrderPermalink    string `json:"order_permalink"`
	OccurredAt        string `json:"occurred_at"`
}

// Notifier delivers completion events without blocking the request path. A
// nil Notifier is a no-op, which is how deployments without a webhook URL run.
type Notifier struct {
	url     string
	secret  string
	timeout time.Duration
	client  *http.Client
	logg    *logger.Logger
}

// NewNotifier returns nil when no URL is configured.
func NewNotifier(cfg config.WebhookConfig, logg *logger.Logger) *Notifier {
	if cfg.URL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		url:     cfg.URL,
		secret:  cfg.Secret,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logg:    logg,
	}
}

// NotifySessionCompleted dispatches the event on a detached goroutine. The
// caller never observes delivery failures; they are logged for out-of-band
// retry tooling.
func (n *Notifier) NotifySessionCompleted(sessionID, orderID, permalink string) {
	if n == nil {
		return
	}
	event := CompletedEvent{
		Type:              eventSessionCompleted,
		CheckoutSessionID: sessionID,
		OrderID:           orderID,
		OrderPermalink:    permalink,
		OccurredAt:        time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.deliver(ctx, event); err != nil && n.logg != nil {
			fields := map[string]any{"checkout_session_id": sessionID, "order_id": orderID}
			n.logg.Error(n.logg.WithFields(ctx, fields), "webhook delivery failed", err)
		}
	}()
}

func (n *Notifier) deliver(ctx context.Context, event CompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set(signatureHeader, Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 signature receivers verify.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
