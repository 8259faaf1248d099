package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmejorado/agentic-checkout/internal/catalog"
	pkgerrors "github.com/dmejorado/agentic-checkout/pkg/errors"
)

const paramItems = "items"

// ItemInput is the (id, quantity) pair an agent submits.
type ItemInput struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

// LineItem is a priced catalog row inside the session aggregate. All amounts
// are integer minor currency units.
type LineItem struct {
	ItemID         string `json:"item_id"`
	Quantity       int64  `json:"quantity"`
	UnitBaseAmount int64  `json:"unit_base_amount"`
	Discount       int64  `json:"discount"`
	Subtotal       int64  `json:"subtotal"`
	Tax            int64  `json:"tax"`
	Total          int64  `json:"total"`
}

// BuildLineItems prices the requested items against the catalog snapshot and
// returns the rebuilt line items plus their base amount. Failures are client
// errors pointing at the items parameter, never server faults.
func BuildLineItems(ctx context.Context, cat catalog.Service, items []ItemInput) ([]LineItem, int64, error) {
	if cat == nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeProcessingError, "catalog unavailable")
	}
	if len(items) == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeMissing, "items are required").WithParam(paramItems)
	}

	lineItems := make([]LineItem, 0, len(items))
	var itemsBaseAmount int64
	for _, item := range items {
		if item.ID == "" {
			return nil, 0, pkgerrors.New(pkgerrors.CodeInvalid, "item id is required").WithParam(paramItems)
		}
		if item.Quantity < 1 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeInvalid, fmt.Sprintf("item %s quantity must be at least 1", item.ID)).WithParam(paramItems)
		}

		product, err := cat.GetProduct(ctx, item.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, 0, pkgerrors.New(pkgerrors.CodeInvalid, fmt.Sprintf("item %s does not exist", item.ID)).WithParam(paramItems)
			}
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeProcessingError, err, "catalog lookup failed")
		}
		if !product.InStock {
			return nil, 0, pkgerrors.New(pkgerrors.CodeInvalid, fmt.Sprintf("item %s is out of stock", item.ID)).WithParam(paramItems)
		}

		// Discount stays zero until promo support lands; subtotal equals the
		// pre-tax total.
		subtotal := product.BaseAmount * item.Quantity
		lineItems = append(lineItems, LineItem{
			ItemID:         item.ID,
			Quantity:       item.Quantity,
			UnitBaseAmount: product.BaseAmount,
			Discount:       0,
			Subtotal:       subtotal,
			Tax:            0,
			Total:          subtotal,
		})
		itemsBaseAmount += subtotal
	}

	return lineItems, itemsBaseAmount, nil
}
