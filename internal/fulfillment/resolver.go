package fulfillment

import (
	"strings"
	"time"

	"github.com/dmejorado/agentic-checkout/internal/pricing"
)

// Address is the fulfillment destination supplied by the agent.
type Address struct {
	Name       string `json:"name,omitempty"`
	LineOne    string `json:"line_one"`
	LineTwo    string `json:"line_two,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Region returns the tax/shipping region code for the destination.
func (a Address) Region() string {
	return strings.ToUpper(strings.TrimSpace(a.State))
}

// Option is one available shipping choice. Amounts are minor currency units.
type Option struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Subtitle             string    `json:"subtitle"`
	EarliestDeliveryTime time.Time `json:"earliest_delivery_time"`
	LatestDeliveryTime   time.Time `json:"latest_delivery_time"`
	Total                int64     `json:"total"`
}

const (
	OptionIDStandard     = "shipping_standard"
	OptionIDExpress      = "shipping_express"
	OptionIDFreeStandard = "shipping_free_standard"
)

const (
	standardCost = 500
	expressCost  = 1500
)

// Resolver produces the deterministic shipping option set for a destination.
// The first option is always the default selection.
type Resolver struct {
	freeThreshold int64
	now           func() time.Time
}

// NewResolver builds a resolver. A positive freeThreshold switches to a single
// free-shipping option once the items base amount reaches it.
func NewResolver(freeThreshold int64) *Resolver {
	return &Resolver{freeThreshold: freeThreshold, now: time.Now}
}

// Resolve returns the ordered option set for the given items and destination.
// Ordering is cheapest-first so index zero doubles as the default.
func (r *Resolver) Resolve(items []pricing.LineItem, _ Address) []Option {
	now := r.now().UTC()

	var itemsBase int64
	for _, item := range items {
		itemsBase += item.Subtotal
	}

	if r.freeThreshold > 0 && itemsBase >= r.freeThreshold {
		return []Option{{
			ID:                   OptionIDFreeStandard,
			Title:                "Free Standard Shipping",
			Subtitle:             "Arrives in 5 to 7 business days",
			EarliestDeliveryTime: addBusinessDays(now, 5),
			LatestDeliveryTime:   addBusinessDays(now, 7),
			Total:                0,
		}}
	}

	return []Option{
		{
			ID:                   OptionIDStandard,
			Title:                "Standard Shipping",
			Subtitle:             "Arrives in 5 to 7 business days",
			EarliestDeliveryTime: addBusinessDays(now, 5),
			LatestDeliveryTime:   addBusinessDays(now, 7),
			Total:                standardCost,
		},
		{
			ID:                   OptionIDExpress,
			Title:                "Express Shipping",
			Subtitle:             "Arrives in 1 to 2 business days",
			EarliestDeliveryTime: addBusinessDays(now, 1),
			LatestDeliveryTime:   addBusinessDays(now, 2),
			Total:                expressCost,
		},
	}
}

// ResolveSelection picks the effective option id with the documented
// precedence: explicit request, then the prior selection, then the default.
// Stale ids fall through silently.
func ResolveSelection(requested, previous string, options []Option) string {
	if len(options) == 0 {
		return ""
	}
	if requested != "" && containsOption(options, requested) {
		return requested
	}
	if previous != "" && containsOption(options, previous) {
		return previous
	}
	return options[0].ID
}

// CostFor returns the cost of the selected option.
func CostFor(options []Option, id string) int64 {
	for _, opt := range options {
		if opt.ID == id {
			return opt.Total
		}
	}
	return 0
}

func containsOption(options []Option, id string) bool {
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

func addBusinessDays(t time.Time, days int) time.Time {
	out := t
	for remaining := days; remaining > 0; {
		out = out.AddDate(0, 0, 1)
		if wd := out.Weekday(); wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return out
}
