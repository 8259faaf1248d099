package fulfillment

import (
	"testing"
	"time"

	"github.com/dmejorado/agentic-checkout/internal/pricing"
)

func fixedResolver(threshold int64) *Resolver {
	r := NewResolver(threshold)
	// Wednesday 2026-01-07, so business-day math crosses a weekend.
	r.now = func() time.Time {
		return time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC)
	}
	return r
}

func usAddress() Address {
	return Address{LineOne: "1 Main St", City: "Portland", State: "OR", Country: "US", PostalCode: "97201"}
}

func TestResolveReturnsCheapestFirst(t *testing.T) {
	t.Parallel()

	opts := fixedResolver(0).Resolve([]pricing.LineItem{{Subtotal: 10000}}, usAddress())
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if opts[0].ID != OptionIDStandard || opts[1].ID != OptionIDExpress {
		t.Fatalf("unexpected ordering: %s, %s", opts[0].ID, opts[1].ID)
	}
	if opts[0].Total >= opts[1].Total {
		t.Fatal("expected default option to be the cheapest")
	}
}

func TestResolveBusinessDayWindows(t *testing.T) {
	t.Parallel()

	opts := fixedResolver(0).Resolve(nil, usAddress())

	express := opts[1]
	// Wed + 1 business day = Thu Jan 8; +2 = Fri Jan 9.
	if express.EarliestDeliveryTime.Day() != 8 || express.LatestDeliveryTime.Day() != 9 {
		t.Fatalf("unexpected express window %v - %v", express.EarliestDeliveryTime, express.LatestDeliveryTime)
	}

	standard := opts[0]
	// Wed + 5 business days skips the weekend: Wed Jan 14; +7 = Fri Jan 16.
	if standard.EarliestDeliveryTime.Day() != 14 || standard.LatestDeliveryTime.Day() != 16 {
		t.Fatalf("unexpected standard window %v - %v", standard.EarliestDeliveryTime, standard.LatestDeliveryTime)
	}
}

func TestResolveFreeShippingThreshold(t *testing.T) {
	t.Parallel()

	r := fixedResolver(5000)

	opts := r.Resolve([]pricing.LineItem{{Subtotal: 6000}}, usAddress())
	if len(opts) != 1 || opts[0].ID != OptionIDFreeStandard || opts[0].Total != 0 {
		t.Fatalf("expected single free option, got %+v", opts)
	}

	opts = r.Resolve([]pricing.LineItem{{Subtotal: 4000}}, usAddress())
	if len(opts) != 2 {
		t.Fatalf("expected paid options below threshold, got %+v", opts)
	}
}

func TestResolveSelectionPrecedence(t *testing.T) {
	t.Parallel()

	options := []Option{{ID: OptionIDStandard}, {ID: OptionIDExpress}}

	if got := ResolveSelection(OptionIDExpress, OptionIDStandard, options); got != OptionIDExpress {
		t.Fatalf("explicit request should win, got %s", got)
	}
	if got := ResolveSelection("", OptionIDExpress, options); got != OptionIDExpress {
		t.Fatalf("prior selection should hold, got %s", got)
	}
	if got := ResolveSelection("", "", options); got != OptionIDStandard {
		t.Fatalf("default should be first option, got %s", got)
	}
	if got := ResolveSelection("stale_id", "also_stale", options); got != OptionIDStandard {
		t.Fatalf("stale ids should fall back to default, got %s", got)
	}
	if got := ResolveSelection("anything", "", nil); got != "" {
		t.Fatalf("empty option set should resolve to empty id, got %s", got)
	}
}

func TestCostFor(t *testing.T) {
	t.Parallel()

	options := []Option{{ID: OptionIDStandard, Total: 500}, {ID: OptionIDExpress, Total: 1500}}
	if got := CostFor(options, OptionIDExpress); got != 1500 {
		t.Fatalf("unexpected cost %d", got)
	}
	if got := CostFor(options, "ghost"); got != 0 {
		t.Fatalf("unknown option should cost 0, got %d", got)
	}
}
