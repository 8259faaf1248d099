package payments

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/square/square-go-sdk"

	"github.com/dmejorado/agentic-checkout/pkg/square"
)

// paymentClient is the slice of pkg/square the processor needs.
type paymentClient interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
	LocationID() string
}

// SquareProcessor charges delegated tokens through the Square Payments API.
type SquareProcessor struct {
	client paymentClient
}

// NewSquareProcessor wraps the shared Square client.
func NewSquareProcessor(client *square.Client) (*SquareProcessor, error) {
	if client == nil {
		return nil, fmt.Errorf("square client required")
	}
	return &SquareProcessor{client: client}, nil
}

// Charge submits the payment and folds the Square result into the small
// outcome vocabulary the session state machine understands.
func (p *SquareProcessor) Charge(ctx context.Context, token string, amountMinorUnits int64, currency string, meta Metadata) (Outcome, error) {
	payment, err := p.client.CreatePayment(ctx, square.PaymentCreateParams{
		AmountCents: amountMinorUnits,
		Currency:    currency,
		LocationID:  p.client.LocationID(),
		SourceID:    token,
		ReferenceID: meta.SessionID,
		Note:        chargeNote(meta),
	})
	if err != nil {
		if outcome, ok := outcomeFromError(err); ok {
			return outcome, nil
		}
		return Outcome{}, fmt.Errorf("square charge: %w", err)
	}

	chargeID := square.StringValue(payment.GetID())
	switch strings.ToUpper(square.StringValue(payment.GetStatus())) {
	case "COMPLETED", "APPROVED":
		return Outcome{Status: OutcomeSucceeded, ChargeID: chargeID}, nil
	case "FAILED", "CANCELED":
		return Outcome{Status: OutcomeDeclined, ChargeID: chargeID}, nil
	default:
		// PENDING settles asynchronously; the authorization already held.
		return Outcome{Status: OutcomeSucceeded, ChargeID: chargeID}, nil
	}
}

// outcomeFromError maps structured Square errors onto decline/3DS outcomes.
// Anything else stays an error for the caller to surface as processing.
func outcomeFromError(err error) (Outcome, bool) {
	for _, sqErr := range square.APIErrors(err) {
		if sqErr == nil {
			continue
		}
		code := strings.ToUpper(string(sqErr.Code))
		if strings.Contains(code, "VERIFICATION_REQUIRED") {
			return Outcome{Status: OutcomeRequiresAction}, true
		}
		if string(sqErr.Category) == "PAYMENT_METHOD_ERROR" {
			return Outcome{Status: OutcomeDeclined}, true
		}
	}
	return Outcome{}, false
}

func chargeNote(meta Metadata) string {
	note := "agentic checkout " + meta.SessionID
	if meta.Source != "" {
		note += " via " + meta.Source
	}
	return note
}
