package webhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmejorado/agentic-checkout/pkg/config"
)

func TestNotifySessionCompletedDeliversSignedEvent(t *testing.T) {
	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- body
		received <- r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier(config.WebhookConfig{URL: server.URL, Secret: "shh", Timeout: 2 * time.Second}, nil)
	notifier.NotifySessionCompleted("cs_1", "order_1", "https://merchant.example.com/orders/order_1")

	select {
	case r := <-received:
		body := <-bodies
		var event CompletedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if event.Type != "checkout_session.completed" || event.OrderID != "order_1" {
			t.Fatalf("unexpected event %+v", event)
		}
		if got := r.Header.Get("X-Merchant-Signature"); got != Sign("shh", body) {
			t.Fatalf("signature mismatch: %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was never delivered")
	}
}

func TestNilNotifierIsNoop(t *testing.T) {
	t.Parallel()

	var notifier *Notifier
	notifier.NotifySessionCompleted("cs_1", "order_1", "permalink")

	if NewNotifier(config.WebhookConfig{}, nil) != nil {
		t.Fatal("expected nil notifier without a URL")
	}
}
