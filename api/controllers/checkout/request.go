package checkout

import (
	"github.com/dmejorado/agentic-checkout/internal/fulfillment"
	"github.com/dmejorado/agentic-checkout/internal/pricing"
	"github.com/dmejorado/agentic-checkout/internal/session"
)

// Item validity (unknown id, quantity bounds, stock) is the pricing layer's
// call so every failure points at the items param; nothing here is tagged.
type itemParam struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

type buyerParam struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type addressParam struct {
	Name       string `json:"name"`
	LineOne    string `json:"line_one"`
	LineTwo    string `json:"line_two"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type paymentDataParam struct {
	Token    string `json:"token"`
	Provider string `json:"provider"`
}

type createRequest struct {
	Items              []itemParam   `json:"items"`
	Buyer              *buyerParam   `json:"buyer"`
	FulfillmentAddress *addressParam `json:"fulfillment_address"`
}

type updateRequest struct {
	Items               []itemParam   `json:"items"`
	Buyer               *buyerParam   `json:"buyer"`
	FulfillmentAddress  *addressParam `json:"fulfillment_address"`
	FulfillmentOptionID string        `json:"fulfillment_option_id"`
}

type completeRequest struct {
	Buyer       *buyerParam      `json:"buyer"`
	PaymentData paymentDataParam `json:"payment_data"`
}

func toItemInputs(items []itemParam) []pricing.ItemInput {
	if items == nil {
		return nil
	}
	inputs := make([]pricing.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, pricing.ItemInput{ID: item.ID, Quantity: item.Quantity})
	}
	return inputs
}

func toBuyer(payload *buyerParam) *session.Buyer {
	if payload == nil {
		return nil
	}
	return &session.Buyer{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		PhoneNumber: payload.PhoneNumber,
	}
}

func toAddress(payload *addressParam) *fulfillment.Address {
	if payload == nil {
		return nil
	}
	return &fulfillment.Address{
		Name:       payload.Name,
		LineOne:    payload.LineOne,
		LineTwo:    payload.LineTwo,
		City:       payload.City,
		State:      payload.State,
		Country:    payload.Country,
		PostalCode: payload.PostalCode,
	}
}

func toCreateInput(payload createRequest) session.CreateInput {
	return session.CreateInput{
		Items:              toItemInputs(payload.Items),
		Buyer:              toBuyer(payload.Buyer),
		FulfillmentAddress: toAddress(payload.FulfillmentAddress),
	}
}

func toUpdateInput(payload updateRequest) session.UpdateInput {
	return session.UpdateInput{
		Items:               toItemInputs(payload.Items),
		Buyer:               toBuyer(payload.Buyer),
		FulfillmentAddress:  toAddress(payload.FulfillmentAddress),
		FulfillmentOptionID: payload.FulfillmentOptionID,
	}
}

func toCompleteInput(payload completeRequest) session.CompleteInput {
	return session.CompleteInput{
		Buyer:        toBuyer(payload.Buyer),
		PaymentToken: payload.PaymentData.Token,
		Provider:     payload.PaymentData.Provider,
	}
}
