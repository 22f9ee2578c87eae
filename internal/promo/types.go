package promo

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is the normalized binary discount kind. Remote cart-level and
// product-level fixed discounts both map to TypeFixed.
type DiscountType string

const (
	TypePercent DiscountType = "percent"
	TypeFixed   DiscountType = "fixed"
)

// Record is a coupon as the evaluator sees it, regardless of source. Value is
// percent points for TypePercent and cents for TypeFixed. Zero min/max means
// no bound.
type Record struct {
	Code          string
	Type          DiscountType
	Value         decimal.Decimal
	Active        bool
	UsageLimit    *int
	UsageCount    int
	ExpiresAt     *time.Time
	MinOrderCents int64
	MaxOrderCents int64
}

// Application is a validated promo attached to a session.
type Application struct {
	Code  string          `json:"code"`
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Discount computes the cents discounted off the given subtotal. Percent
// values round to the nearest cent. The result never goes below zero and
// never exceeds the subtotal.
func Discount(app Application, subtotalCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}

	var cents int64
	switch app.Type {
	case TypePercent:
		cents = decimal.NewFromInt(subtotalCents).
			Mul(app.Value).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case TypeFixed:
		cents = app.Value.Round(0).IntPart()
	}

	if cents < 0 {
		return 0
	}
	if cents > subtotalCents {
		return subtotalCents
	}
	return cents
}

func formatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
