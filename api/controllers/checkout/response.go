package checkout

import (
	"github.com/dmejorado/agentic-checkout/internal/fulfillment"
	"github.com/dmejorado/agentic-checkout/internal/pricing"
	"github.com/dmejorado/agentic-checkout/internal/session"
)

// sessionView is the wire representation. Store bookkeeping timestamps stay
// internal.
type sessionView struct {
	ID                  string               `json:"id"`
	Status              string               `json:"status"`
	Currency            string               `json:"currency"`
	Buyer               *session.Buyer       `json:"buyer,omitempty"`
	LineItems           []pricing.LineItem   `json:"line_items"`
	FulfillmentAddress  *fulfillment.Address `json:"fulfillment_address,omitempty"`
	FulfillmentOptions  []fulfillment.Option `json:"fulfillment_options"`
	FulfillmentOptionID string               `json:"fulfillment_option_id,omitempty"`
	Totals              []session.Total      `json:"totals"`
	Order               *session.Order       `json:"order,omitempty"`
}

func newSessionView(sess *session.Session) sessionView {
	view := sessionView{
		ID:                  sess.ID,
		Status:              string(sess.Status),
		Currency:            sess.Currency,
		Buyer:               sess.Buyer,
		LineItems:           sess.LineItems,
		FulfillmentAddress:  sess.FulfillmentAddress,
		FulfillmentOptions:  sess.FulfillmentOptions,
		FulfillmentOptionID: sess.FulfillmentOptionID,
		Totals:              sess.Totals,
		Order:               sess.Order,
	}
	if view.LineItems == nil {
		view.LineItems = []pricing.LineItem{}
	}
	if view.FulfillmentOptions == nil {
		view.FulfillmentOptions = []fulfillment.Option{}
	}
	if view.Totals == nil {
		view.Totals = []session.Total{}
	}
	return view
}
