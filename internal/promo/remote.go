package promo

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/woocommerce"
)

// wooDateLayout is the timezone-less timestamp the commerce API returns.
const wooDateLayout = "2006-01-02T15:04:05"

// CouponFinder is the slice of the commerce client the promo evaluator uses.
type CouponFinder interface {
	GetCouponByCode(ctx context.Context, code string) (*woocommerce.Coupon, error)
}

// RemoteSource resolves coupons against the commerce backend.
type RemoteSource struct {
	client CouponFinder
}

// NewRemoteSource wraps a commerce client as a coupon source.
func NewRemoteSource(client CouponFinder) (*RemoteSource, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon client is required")
	}
	return &RemoteSource{client: client}, nil
}

// FindCoupon fetches and normalizes a remote coupon record.
func (s *RemoteSource) FindCoupon(ctx context.Context, code string) (*Record, error) {
	coupon, err := s.client.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return mapCoupon(coupon)
}

func mapCoupon(coupon *woocommerce.Coupon) (*Record, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(coupon.Amount))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse coupon amount")
	}

	record := Record{
		Code:       strings.ToUpper(coupon.Code),
		Active:     coupon.Status == "publish",
		UsageLimit: coupon.UsageLimit,
		UsageCount: coupon.UsageCount,
	}

	if coupon.DiscountType == "percent" {
		record.Type = TypePercent
		record.Value = amount
	} else {
		record.Type = TypeFixed
		record.Value = amount.Mul(decimal.NewFromInt(100))
	}

	if coupon.DateExpires != nil && *coupon.DateExpires != "" {
		expires, err := time.Parse(wooDateLayout, *coupon.DateExpires)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse coupon expiry")
		}
		record.ExpiresAt = &expires
	}

	record.MinOrderCents, err = moneyCents(coupon.MinimumAmount)
	if err != nil {
		return nil, err
	}
	record.MaxOrderCents, err = moneyCents(coupon.MaximumAmount)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func moneyCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, nil
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse coupon bound")
	}
	return value.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
