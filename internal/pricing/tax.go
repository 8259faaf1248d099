package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxCalculator derives tax from the taxable base and destination region.
type TaxCalculator interface {
	Calculate(itemsBaseAmount, fulfillmentCost int64, region string) int64
}

// RateTable is a deterministic per-region tax calculator. Rates are applied to
// subtotal plus fulfillment cost and floored to minor units.
type RateTable struct {
	defaultRate decimal.Decimal
	byRegion    map[string]decimal.Decimal
}

// NewRateTable builds a calculator with a fallback rate and optional
// per-region overrides (keys are upper-cased region codes).
func NewRateTable(defaultRate string, overrides map[string]string) (*RateTable, error) {
	base, err := decimal.NewFromString(defaultRate)
	if err != nil {
		return nil, err
	}
	byRegion := make(map[string]decimal.Decimal, len(overrides))
	for region, raw := range overrides {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		byRegion[strings.ToUpper(strings.TrimSpace(region))] = rate
	}
	return &RateTable{defaultRate: base, byRegion: byRegion}, nil
}

// Calculate returns a non-negative tax amount in minor units.
func (t *RateTable) Calculate(itemsBaseAmount, fulfillmentCost int64, region string) int64 {
	taxable := itemsBaseAmount + fulfillmentCost
	if taxable <= 0 {
		return 0
	}
	rate := t.defaultRate
	if override, ok := t.byRegion[strings.ToUpper(strings.TrimSpace(region))]; ok {
		rate = override
	}
	tax := decimal.NewFromInt(taxable).Mul(rate).Floor().IntPart()
	if tax < 0 {
		return 0
	}
	return tax
}

// ApportionTax distributes the session-level tax across line items
// proportionally to each item's subtotal share, flooring per item. The
// unassigned remainder is bounded by len(items)-1 minor units.
func ApportionTax(items []LineItem, tax int64) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)

	var base int64
	for _, item := range out {
		base += item.Subtotal
	}
	for i := range out {
		var share int64
		if base > 0 && tax > 0 {
			share = tax * out[i].Subtotal / base
		}
		out[i].Tax = share
		out[i].Total = out[i].Subtotal + share
	}
	return out
}
