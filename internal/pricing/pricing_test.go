package pricing

import (
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func linesOf(pairs ...cart.Line) []cart.Line {
	return pairs
}

// ============================================
// ComputeTotals Tests
// ============================================

func TestComputeTotals_Save10AboveFreeShipping(t *testing.T) {
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("100.00"), Quantity: 2})

	totals := ComputeTotals(lines, "save10", DefaultCatalog(), StandardShipping).Rounded()

	assert.Equal(t, "200.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "14.40", totals.Tax.StringFixed(2), "tax applies after the discount")
	assert.Equal(t, "0.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "194.40", totals.Total.StringFixed(2))
	assert.Equal(t, "0.00", totals.RemainingForFreeShipping.StringFixed(2))
}

func TestComputeTotals_SingleItemBelowThreshold(t *testing.T) {
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("50.00"), Quantity: 1})

	totals := ComputeTotals(lines, "", DefaultCatalog(), StandardShipping).Rounded()

	assert.Equal(t, "50.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "4.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "15.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "69.00", totals.Total.StringFixed(2))
	assert.Equal(t, "50.00", totals.RemainingForFreeShipping.StringFixed(2))
}

func TestComputeTotals_PromoCodeIsCaseInsensitive(t *testing.T) {
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("200.00"), Quantity: 1})

	for _, code := range []string{"save10", "SAVE10", "Save10", " save10 "} {
		totals := ComputeTotals(lines, code, DefaultCatalog(), StandardShipping)
		assert.True(t, totals.Discount.Equal(d("20")), "code %q should apply", code)
	}
}

func TestComputeTotals_UnknownPromoCodeMeansNoDiscount(t *testing.T) {
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("200.00"), Quantity: 1})

	totals := ComputeTotals(lines, "save99", DefaultCatalog(), StandardShipping)

	assert.True(t, totals.Discount.IsZero(), "unknown codes are not an error")
}

func TestComputeTotals_Idempotent(t *testing.T) {
	lines := linesOf(
		cart.Line{ID: 1, UnitPrice: d("39.99"), Quantity: 3},
		cart.Line{ID: 2, UnitPrice: d("12.49"), Quantity: 1},
	)

	first := ComputeTotals(lines, "save10", DefaultCatalog(), StandardShipping)
	second := ComputeTotals(lines, "save10", DefaultCatalog(), StandardShipping)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Discount.Equal(second.Discount))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, "save10", DefaultCatalog(), StandardShipping).Rounded()

	assert.Equal(t, "0.00", totals.Subtotal.StringFixed(2))
	// An empty cart still sits below the threshold.
	assert.Equal(t, "15.00", totals.Shipping.StringFixed(2))
}

// ============================================
// ShippingRule Tests
// ============================================

func TestShippingRule_ThresholdIsStrict(t *testing.T) {
	// Exactly at the threshold still pays shipping; the rule is
	// "subtotal > threshold".
	assert.True(t, StandardShipping.Cost(d("100.00")).Equal(d("15")))
	assert.True(t, StandardShipping.Cost(d("100.01")).IsZero())
}

func TestReducedShipping_IndependentOfStandard(t *testing.T) {
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("80.00"), Quantity: 1})

	standard := ComputeTotals(lines, "", DefaultCatalog(), StandardShipping)
	reduced := ComputeTotals(lines, "", DefaultCatalog(), ReducedShipping)

	assert.True(t, standard.Shipping.Equal(d("15")), "80 is below the 100 threshold")
	assert.True(t, reduced.Shipping.IsZero(), "80 clears the 75 threshold")
}

func TestReducedShipping_FlatRateBelowThreshold(t *testing.T) {
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("60.00"), Quantity: 1})

	totals := ComputeTotals(lines, "", DefaultCatalog(), ReducedShipping).Rounded()

	assert.Equal(t, "9.99", totals.Shipping.StringFixed(2))
	assert.Equal(t, "15.00", totals.RemainingForFreeShipping.StringFixed(2))
}

// ============================================
// Rounding Tests
// ============================================

func TestComputeTotals_RoundsOnlyAtPresentation(t *testing.T) {
	// 3 × 33.33 = 99.99; 10% off = 9.999; tax on 89.991 = 7.19928.
	lines := linesOf(cart.Line{ID: 1, UnitPrice: d("33.33"), Quantity: 3})

	raw := ComputeTotals(lines, "save10", DefaultCatalog(), StandardShipping)

	assert.True(t, raw.Discount.Equal(d("9.999")), "intermediate values stay unrounded")
	assert.True(t, raw.Tax.Equal(d("7.19928")))

	rounded := raw.Rounded()
	assert.Equal(t, "10.00", rounded.Discount.StringFixed(2))
	assert.Equal(t, "7.20", rounded.Tax.StringFixed(2))

	// total = 99.99 − 9.999 + 7.19928 + 15 = 112.19028
	require.Equal(t, "112.19", rounded.Total.StringFixed(2))
}
