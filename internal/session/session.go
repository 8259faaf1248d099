package session

import (
	"time"

	"github.com/dmejorado/agentic-checkout/internal/fulfillment"
	"github.com/dmejorado/agentic-checkout/internal/pricing"
)

// Status is the session state machine position.
type Status string

const (
	StatusNotReadyForPayment Status = "not_ready_for_payment"
	StatusReadyForPayment    Status = "ready_for_payment"
	StatusCompleted          Status = "completed"
	StatusCanceled           Status = "canceled"
)

// Terminal reports whether the status admits no further mutation.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Buyer is the optional identity attached to a session.
type Buyer struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Total type names in the display-oriented breakdown.
const (
	TotalItemsBaseAmount = "items_base_amount"
	TotalSubtotal        = "subtotal"
	TotalFulfillment     = "fulfillment"
	TotalTax             = "tax"
	TotalTotal           = "total"
)

// Total is one named amount in the session breakdown.
type Total struct {
	Type        string `json:"type"`
	DisplayText string `json:"display_text"`
	Amount      int64  `json:"amount"`
}

// Order is minted once at completion and immutable afterwards.
type Order struct {
	ID                string `json:"id"`
	CheckoutSessionID string `json:"checkout_session_id"`
	Permalink         string `json:"permalink"`
}

// Session is the checkout aggregate. CreatedAt/UpdatedAt are store
// bookkeeping and stay out of the public representation.
type Session struct {
	ID                  string               `json:"id"`
	Status              Status               `json:"status"`
	Currency            string               `json:"currency"`
	Buyer               *Buyer               `json:"buyer,omitempty"`
	LineItems           []pricing.LineItem   `json:"line_items"`
	FulfillmentAddress  *fulfillment.Address `json:"fulfillment_address,omitempty"`
	FulfillmentOptions  []fulfillment.Option `json:"fulfillment_options"`
	FulfillmentOptionID string               `json:"fulfillment_option_id,omitempty"`
	Totals              []Total              `json:"totals"`
	Order               *Order               `json:"order,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// Clone deep-copies the aggregate so store reads never alias caller state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Buyer != nil {
		buyer := *s.Buyer
		out.Buyer = &buyer
	}
	if s.FulfillmentAddress != nil {
		addr := *s.FulfillmentAddress
		out.FulfillmentAddress = &addr
	}
	if s.Order != nil {
		order := *s.Order
		out.Order = &order
	}
	out.LineItems = append([]pricing.LineItem(nil), s.LineItems...)
	out.FulfillmentOptions = append([]fulfillment.Option(nil), s.FulfillmentOptions...)
	out.Totals = append([]Total(nil), s.Totals...)
	return &out
}

// TotalAmount returns the named entry from the totals breakdown.
func (s *Session) TotalAmount(totalType string) (int64, bool) {
	for _, total := range s.Totals {
		if total.Type == totalType {
			return total.Amount, true
		}
	}
	return 0, false
}

// buildTotals assembles the breakdown from scratch. Optional rows appear only
// when fulfillment has been established.
func buildTotals(itemsBaseAmount, fulfillmentCost, tax int64, fulfillmentSet bool) []Total {
	totals := []Total{
		{Type: TotalItemsBaseAmount, DisplayText: "Items", Amount: itemsBaseAmount},
		{Type: TotalSubtotal, DisplayText: "Subtotal", Amount: itemsBaseAmount},
	}
	grand := itemsBaseAmount
	if fulfillmentSet {
		totals = append(totals,
			Total{Type: TotalFulfillment, DisplayText: "Shipping", Amount: fulfillmentCost},
			Total{Type: TotalTax, DisplayText: "Tax", Amount: tax},
		)
		grand += fulfillmentCost + tax
	}
	totals = append(totals, Total{Type: TotalTotal, DisplayText: "Total", Amount: grand})
	return totals
}
