package payments

import "context"

// OutcomeStatus is the only part of a processor result the state machine
// inspects.
type OutcomeStatus string

const (
	OutcomeSucceeded      OutcomeStatus = "succeeded"
	OutcomeRequiresAction OutcomeStatus = "requires_action"
	OutcomeDeclined       OutcomeStatus = "declined"
)

// Outcome is the settlement result of a charge attempt.
type Outcome struct {
	Status   OutcomeStatus
	ChargeID string
}

// Metadata travels with the charge for reconciliation on the processor side.
type Metadata struct {
	SessionID  string
	BuyerEmail string
	Source     string
}

// Processor executes a charge against a delegated payment token. Declines and
// authentication challenges are outcomes, not errors; errors mean the charge
// could not be attempted or its result is unknown.
type Processor interface {
	Charge(ctx context.Context, token string, amountMinorUnits int64, currency string, meta Metadata) (Outcome, error)
}
