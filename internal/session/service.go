package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmejorado/agentic-checkout/internal/catalog"
	"github.com/dmejorado/agentic-checkout/internal/fulfillment"
	"github.com/dmejorado/agentic-checkout/internal/payments"
	"github.com/dmejorado/agentic-checkout/internal/pricing"
	pkgerrors "github.com/dmejorado/agentic-checkout/pkg/errors"
	"github.com/dmejorado/agentic-checkout/pkg/logger"
	"github.com/dmejorado/agentic-checkout/pkg/metrics"
)

// CompletionNotifier receives the fire-and-forget order event. The service
// never awaits or inspects delivery.
type CompletionNotifier interface {
	NotifySessionCompleted(sessionID, orderID, permalink string)
}

// Service owns the checkout session state machine.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Session, error)
	Cancel(ctx context.Context, id string) (*Session, error)
	Complete(ctx context.Context, id string, input CompleteInput) (*Session, error)
}

// CreateInput carries the create operation payload.
type CreateInput struct {
	Items              []pricing.ItemInput
	Buyer              *Buyer
	FulfillmentAddress *fulfillment.Address
}

// UpdateInput carries partial session mutations. Nil fields mean "unchanged";
// a non-nil Items slice replaces the line items wholesale.
type UpdateInput struct {
	Items               []pricing.ItemInput
	Buyer               *Buyer
	FulfillmentAddress  *fulfillment.Address
	FulfillmentOptionID string
}

// CompleteInput carries the delegated payment credential.
type CompleteInput struct {
	Buyer        *Buyer
	PaymentToken string
	Provider     string
}

// ServiceParams wires the collaborators.
type ServiceParams struct {
	Store              Store
	Catalog            catalog.Service
	Resolver           *fulfillment.Resolver
	Tax                pricing.TaxCalculator
	Processor          payments.Processor
	Notifier           CompletionNotifier
	Metrics            *metrics.CheckoutMetrics
	Logger             *logger.Logger
	Currency           string
	PaymentProvider    string
	OrderPermalinkBase string
}

type service struct {
	store     Store
	catalog   catalog.Service
	resolver  *fulfillment.Resolver
	tax       pricing.TaxCalculator
	processor payments.Processor
	notifier  CompletionNotifier
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger

	currency      string
	provider      string
	permalinkBase string

	locks *keyedMutex
	now   func() time.Time
	newID func(prefix string) string
}

// NewService builds the session service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("fulfillment resolver required")
	}
	if params.Tax == nil {
		return nil, fmt.Errorf("tax calculator required")
	}
	if params.Processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "usd"
	}
	provider := strings.TrimSpace(params.PaymentProvider)
	if provider == "" {
		return nil, fmt.Errorf("payment provider required")
	}
	return &service{
		store:         params.Store,
		catalog:       params.Catalog,
		resolver:      params.Resolver,
		tax:           params.Tax,
		processor:     params.Processor,
		notifier:      params.Notifier,
		metrics:       params.Metrics,
		logg:          params.Logger,
		currency:      currency,
		provider:      provider,
		permalinkBase: strings.TrimRight(params.OrderPermalinkBase, "/"),
		locks:         newKeyedMutex(),
		now:           time.Now,
		newID: func(prefix string) string {
			return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""))
		},
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Session, error) {
	lineItems, _, err := pricing.BuildLineItems(ctx, s.catalog, input.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:                 s.newID("cs"),
		Currency:           s.currency,
		Buyer:              input.Buyer,
		LineItems:          lineItems,
		FulfillmentAddress: input.FulfillmentAddress,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.refreshPricing(sess, "")

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "persisting session")
	}

	s.metrics.IncSession("created")
	s.info(ctx, sess.ID, "checkout session created")
	return sess, nil
}

func (s *service) Get(ctx context.Context, id string) (*Session, error) {
	return s.load(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Session, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalid, fmt.Sprintf("a %s session cannot be updated", sess.Status))
	}

	if input.Buyer != nil {
		sess.Buyer = input.Buyer
	}

	itemsChanged := input.Items != nil
	if itemsChanged {
		lineItems, _, err := pricing.BuildLineItems(ctx, s.catalog, input.Items)
		if err != nil {
			return nil, err
		}
		sess.LineItems = lineItems
	}

	addressChanged := input.FulfillmentAddress != nil
	if addressChanged {
		sess.FulfillmentAddress = input.FulfillmentAddress
	}

	// Buyer-only updates must not churn fulfillment options; everything that
	// moves money triggers a full rebuild.
	if itemsChanged || addressChanged || input.FulfillmentOptionID != "" {
		s.refreshPricing(sess, input.FulfillmentOptionID)
	}

	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "persisting session")
	}
	return sess, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Session, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, pkgerrors.New(pkgerrors.CodeRequestNotAllowed, fmt.Sprintf("a %s session cannot be canceled", sess.Status))
	}

	sess.Status = StatusCanceled
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "persisting session")
	}

	s.metrics.IncSession("canceled")
	s.info(ctx, sess.ID, "checkout session canceled")
	return sess, nil
}

func (s *service) Complete(ctx context.Context, id string, input CompleteInput) (*Session, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case sess.Status == StatusCompleted:
		// Idempotent retry: the stored representation, no second charge.
		return sess, nil
	case sess.Status == StatusCanceled:
		return nil, pkgerrors.New(pkgerrors.CodeInvalid, "a canceled session cannot be completed")
	case sess.Status != StatusReadyForPayment:
		return nil, pkgerrors.New(pkgerrors.CodeInvalid, "session is not ready for payment")
	}

	if strings.TrimSpace(input.PaymentToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissing, "payment token is required").WithParam("payment_data.token")
	}
	switch strings.TrimSpace(input.Provider) {
	case "":
		return nil, pkgerrors.New(pkgerrors.CodeMissing, "payment provider is required").WithParam("payment_data.provider")
	case s.provider:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalid, fmt.Sprintf("payment provider must be %q", s.provider)).WithParam("payment_data.provider")
	}

	amount, ok := sess.TotalAmount(TotalTotal)
	if !ok {
		// Structurally impossible for a ready session; treat as a fault, not
		// a client error.
		return nil, pkgerrors.New(pkgerrors.CodeProcessingError, "session total is missing")
	}

	if input.Buyer != nil {
		sess.Buyer = input.Buyer
	}
	var buyerEmail string
	if sess.Buyer != nil {
		buyerEmail = sess.Buyer.Email
	}

	started := s.now()
	outcome, err := s.processor.Charge(ctx, input.PaymentToken, amount, s.currency, payments.Metadata{
		SessionID:  sess.ID,
		BuyerEmail: buyerEmail,
		Source:     "agentic_checkout",
	})
	s.metrics.ObserveCompleteDuration(s.now().Sub(started))
	if err != nil {
		s.metrics.IncChargeOutcome("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "charge could not be processed")
	}

	s.metrics.IncChargeOutcome(string(outcome.Status))
	switch outcome.Status {
	case payments.OutcomeDeclined:
		// Session stays ready_for_payment so the agent can retry.
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "the payment was declined")
	case payments.OutcomeRequiresAction:
		return nil, pkgerrors.New(pkgerrors.CodeRequires3DS, "the payment requires additional authentication")
	}

	orderID := s.newID("order")
	order := &Order{
		ID:                orderID,
		CheckoutSessionID: sess.ID,
		Permalink:         fmt.Sprintf("%s/%s", s.permalinkBase, orderID),
	}
	sess.Order = order
	sess.Status = StatusCompleted
	sess.UpdatedAt = s.now().UTC()

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "persisting completed session")
	}

	if s.notifier != nil {
		s.notifier.NotifySessionCompleted(sess.ID, order.ID, order.Permalink)
	}
	s.metrics.IncSession("completed")
	s.info(ctx, sess.ID, "checkout session completed")
	return sess, nil
}

// refreshPricing rebuilds fulfillment, tax, totals, and status from the
// current line items and address. Totals are never patched in place.
func (s *service) refreshPricing(sess *Session, requestedOptionID string) {
	var itemsBase int64
	for _, item := range sess.LineItems {
		itemsBase += item.Subtotal
	}

	if sess.FulfillmentAddress == nil {
		sess.FulfillmentOptions = nil
		sess.FulfillmentOptionID = ""
		sess.LineItems = pricing.ApportionTax(sess.LineItems, 0)
		sess.Totals = buildTotals(itemsBase, 0, 0, false)
		sess.Status = StatusNotReadyForPayment
		return
	}

	options := s.resolver.Resolve(sess.LineItems, *sess.FulfillmentAddress)
	selected := fulfillment.ResolveSelection(requestedOptionID, sess.FulfillmentOptionID, options)
	cost := fulfillment.CostFor(options, selected)
	tax := s.tax.Calculate(itemsBase, cost, sess.FulfillmentAddress.Region())

	sess.FulfillmentOptions = options
	sess.FulfillmentOptionID = selected
	sess.LineItems = pricing.ApportionTax(sess.LineItems, tax)
	sess.Totals = buildTotals(itemsBase, cost, tax, true)
	sess.Status = StatusReadyForPayment
}

func (s *service) load(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("checkout session %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "loading session")
	}
	return sess, nil
}

func (s *service) info(ctx context.Context, sessionID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), msg)
}
