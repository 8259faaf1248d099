package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dmejorado/agentic-checkout/internal/catalog"
	"github.com/dmejorado/agentic-checkout/internal/fulfillment"
	"github.com/dmejorado/agentic-checkout/internal/payments"
	"github.com/dmejorado/agentic-checkout/internal/pricing"
	"github.com/dmejorado/agentic-checkout/internal/session"
)

type stubProcessor struct {
	outcome payments.Outcome
	err     error
}

func (s *stubProcessor) Charge(context.Context, string, int64, string, payments.Metadata) (payments.Outcome, error) {
	if s.err != nil {
		return payments.Outcome{}, s.err
	}
	return s.outcome, nil
}

func newTestRouter(t *testing.T, proc payments.Processor) http.Handler {
	t.Helper()
	if proc == nil {
		proc = &stubProcessor{outcome: payments.Outcome{Status: payments.OutcomeSucceeded, ChargeID: "pay_1"}}
	}
	table, err := pricing.NewRateTable("0.08", nil)
	if err != nil {
		t.Fatalf("rate table: %v", err)
	}
	svc, err := session.NewService(session.ServiceParams{
		Store: session.NewMemoryStore(),
		Catalog: catalog.NewStatic([]catalog.Product{
			{ID: "item_tee", Title: "Tee", BaseAmount: 2500, InStock: true},
		}),
		Resolver:           fulfillment.NewResolver(0),
		Tax:                table,
		Processor:          proc,
		Currency:           "usd",
		PaymentProvider:    "square",
		OrderPermalinkBase: "https://merchant.example.com/orders",
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	r := chi.NewRouter()
	r.Post("/checkout_sessions", Create(svc, nil))
	r.Route("/checkout_sessions/{checkout_session_id}", func(r chi.Router) {
		r.Get("/", Get(svc, nil))
		r.Post("/", Update(svc, nil))
		r.Post("/cancel", Cancel(svc, nil))
		r.Post("/complete", Complete(svc, nil))
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("{}")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var view sessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding session view: %v body=%s", err, rec.Body.String())
	}
	return view
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v body=%s", err, rec.Body.String())
	}
	return body
}

func createReadySession(t *testing.T, h http.Handler) sessionView {
	t.Helper()
	rec := doJSON(t, h, "POST", "/checkout_sessions", `{
		"items":[{"id":"item_tee","quantity":2}],
		"fulfillment_address":{"line_one":"1 Main St","city":"Austin","state":"TX","country":"US","postal_code":"78701"}
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeView(t, rec)
}

func TestCreateReturns201WithSessionBody(t *testing.T) {
	h := newTestRouter(t, nil)
	view := createReadySession(t, h)

	if view.ID == "" || view.Status != "ready_for_payment" {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(view.LineItems) != 1 || view.LineItems[0].Subtotal != 5000 {
		t.Fatalf("unexpected line items %+v", view.LineItems)
	}
	if view.FulfillmentOptionID == "" || len(view.FulfillmentOptions) == 0 {
		t.Fatal("expected fulfillment resolved with default selection")
	}
	if view.Order != nil {
		t.Fatal("order must not exist before completion")
	}
}

func TestCreateInvalidItemsReturns400(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := doJSON(t, h, "POST", "/checkout_sessions", `{"items":[{"id":"item_nope","quantity":1}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["type"] != "invalid_request" || body["code"] != "invalid" || body["param"] != "items" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestCreateRejectsUnknownField(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := doJSON(t, h, "POST", "/checkout_sessions", `{"items":[{"id":"item_tee","quantity":1}],"surprise":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetUnknownSessionReturns404(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest("GET", "/checkout_sessions/cs_missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["code"] != "not_found" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestUpdateSelectsFulfillmentOption(t *testing.T) {
	h := newTestRouter(t, nil)
	view := createReadySession(t, h)

	rec := doJSON(t, h, "POST", "/checkout_sessions/"+view.ID, `{"fulfillment_option_id":"shipping_express"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	updated := decodeView(t, rec)
	if updated.FulfillmentOptionID != "shipping_express" {
		t.Fatalf("expected express selected, got %s", updated.FulfillmentOptionID)
	}
}

func TestCancelThenCancelReturns405(t *testing.T) {
	h := newTestRouter(t, nil)
	view := createReadySession(t, h)

	rec := doJSON(t, h, "POST", "/checkout_sessions/"+view.ID+"/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first cancel: expected 200, got %d", rec.Code)
	}
	if canceled := decodeView(t, rec); canceled.Status != "canceled" {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}

	rec = doJSON(t, h, "POST", "/checkout_sessions/"+view.ID+"/cancel", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("second cancel: expected 405, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["code"] != "request_not_allowed" || body["type"] != "invalid_request" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestCompleteReturnsOrder(t *testing.T) {
	h := newTestRouter(t, nil)
	view := createReadySession(t, h)

	rec := doJSON(t, h, "POST", "/checkout_sessions/"+view.ID+"/complete",
		`{"payment_data":{"token":"tok_abc","provider":"square"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	done := decodeView(t, rec)
	if done.Status != "completed" || done.Order == nil {
		t.Fatalf("expected completed session with order, got %+v", done)
	}
	if done.Order.CheckoutSessionID != view.ID || done.Order.Permalink == "" {
		t.Fatalf("unexpected order %+v", done.Order)
	}
}

func TestCompleteDeclinedReturnsPaymentError(t *testing.T) {
	h := newTestRouter(t, &stubProcessor{outcome: payments.Outcome{Status: payments.OutcomeDeclined}})
	view := createReadySession(t, h)

	rec := doJSON(t, h, "POST", "/checkout_sessions/"+view.ID+"/complete",
		`{"payment_data":{"token":"tok_abc","provider":"square"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["type"] != "error" || body["code"] != "payment_declined" {
		t.Fatalf("unexpected error body %v", body)
	}

	// Session must remain payable.
	req := httptest.NewRequest("GET", "/checkout_sessions/"+view.ID, nil)
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, req)
	if after := decodeView(t, getRec); after.Status != "ready_for_payment" {
		t.Fatalf("decline must not move state, got %s", after.Status)
	}
}

func TestCompleteMissingTokenReturnsParam(t *testing.T) {
	h := newTestRouter(t, nil)
	view := createReadySession(t, h)

	rec := doJSON(t, h, "POST", "/checkout_sessions/"+view.ID+"/complete",
		`{"payment_data":{"provider":"square"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["code"] != "missing" || body["param"] != "payment_data.token" {
		t.Fatalf("unexpected error body %v", body)
	}
}
