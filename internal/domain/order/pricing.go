package order

import "github.com/shopspring/decimal"

// DiscountedPrice applies a percentage discount to a whole-taka price,
// rounding half away from zero: round(price * (1 - percent/100)).
func DiscountedPrice(price, discountPercent int) int {
	factor := decimal.NewFromInt(100 - int64(discountPercent)).Div(decimal.NewFromInt(100))
	return int(decimal.NewFromInt(int64(price)).Mul(factor).Round(0).IntPart())
}

// DiscountAmount returns the absolute discount on a total.
func DiscountAmount(total, discountPercent int) int {
	pct := decimal.NewFromInt(int64(discountPercent)).Div(decimal.NewFromInt(100))
	return int(decimal.NewFromInt(int64(total)).Mul(pct).Round(0).IntPart())
}

// CapDiscount clamps a requested discount to the product maximum.
func CapDiscount(requested, max int) int {
	if requested < 0 {
		return 0
	}
	if requested > max {
		return max
	}
	return requested
}
