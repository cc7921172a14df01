// Package pricing computes cart totals: subtotal, promo discount, tax,
// shipping, and the running free-shipping progress. Everything here is pure;
// amounts stay unrounded until a presentation boundary.
package pricing

import (
	"strings"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// TaxRate is applied to the discounted subtotal, never the raw one.
var TaxRate = decimal.NewFromFloat(0.08)

// ShippingRule is a flat-rate shipping charge waived above a subtotal
// threshold. The storefront runs two independent instances of this rule, one
// per cart view.
type ShippingRule struct {
	FreeThreshold decimal.Decimal
	FlatRate      decimal.Decimal
}

var (
	// StandardShipping backs the primary cart view.
	StandardShipping = ShippingRule{
		FreeThreshold: decimal.NewFromInt(100),
		FlatRate:      decimal.NewFromInt(15),
	}

	// ReducedShipping backs the secondary cart view.
	ReducedShipping = ShippingRule{
		FreeThreshold: decimal.NewFromInt(75),
		FlatRate:      decimal.RequireFromString("9.99"),
	}
)

// Cost returns the shipping charge for a subtotal: zero strictly above the
// threshold, the flat rate otherwise.
func (r ShippingRule) Cost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(r.FreeThreshold) {
		return decimal.Zero
	}
	return r.FlatRate
}

// RemainingForFree returns how much more subtotal earns free shipping, zero
// once the threshold is crossed.
func (r ShippingRule) RemainingForFree(subtotal decimal.Decimal) decimal.Decimal {
	remaining := r.FreeThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PromoRule is a percentage discount off the subtotal.
type PromoRule struct {
	Code       string
	PercentOff decimal.Decimal // 10 means 10%
}

// Catalog maps lowercase promo codes to their rules.
type Catalog map[string]PromoRule

// DefaultCatalog carries the storefront's single live code: save10, 10% off.
func DefaultCatalog() Catalog {
	return Catalog{
		"save10": {Code: "save10", PercentOff: decimal.NewFromInt(10)},
	}
}

// Resolve looks up a code case-insensitively. Unknown codes are not an
// error; they simply resolve to no discount.
func (c Catalog) Resolve(code string) (PromoRule, bool) {
	rule, ok := c[strings.ToLower(strings.TrimSpace(code))]
	return rule, ok
}

// Totals is the computed price breakdown. All fields are unrounded; use
// Rounded for display.
type Totals struct {
	Subtotal                 decimal.Decimal `json:"subtotal"`
	Discount                 decimal.Decimal `json:"discount"`
	Tax                      decimal.Decimal `json:"tax"`
	Shipping                 decimal.Decimal `json:"shipping"`
	Total                    decimal.Decimal `json:"total"`
	RemainingForFreeShipping decimal.Decimal `json:"remaining_for_free_shipping"`
}

// Rounded returns the totals rounded to 2 fractional digits for display.
// Rounding happens only here, never between computation steps.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:                 t.Subtotal.Round(2),
		Discount:                 t.Discount.Round(2),
		Tax:                      t.Tax.Round(2),
		Shipping:                 t.Shipping.Round(2),
		Total:                    t.Total.Round(2),
		RemainingForFreeShipping: t.RemainingForFreeShipping.Round(2),
	}
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals prices a cart snapshot under a promo code and shipping rule:
//
//	subtotal = Σ unitPrice × quantity
//	discount = subtotal × promo% (zero for unknown codes)
//	tax      = (subtotal − discount) × 8%
//	shipping = rule.Cost(subtotal)
//	total    = subtotal − discount + tax + shipping
//
// The function is pure and idempotent; it never mutates the cart.
func ComputeTotals(lines []cart.Line, promoCode string, catalog Catalog, rule ShippingRule) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discount := decimal.Zero
	if promo, ok := catalog.Resolve(promoCode); ok {
		discount = subtotal.Mul(promo.PercentOff).Div(oneHundred)
	}

	tax := subtotal.Sub(discount).Mul(TaxRate)
	shipping := rule.Cost(subtotal)

	remaining := decimal.Zero
	if shipping.IsPositive() {
		remaining = rule.RemainingForFree(subtotal)
	}

	return Totals{
		Subtotal:                 subtotal,
		Discount:                 discount,
		Tax:                      tax,
		Shipping:                 shipping,
		Total:                    subtotal.Sub(discount).Add(tax).Add(shipping),
		RemainingForFreeShipping: remaining,
	}
}
