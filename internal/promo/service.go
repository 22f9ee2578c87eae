package promo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/kvstore"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const docVersion = 1

type document struct {
	Version     int          `json:"version"`
	Application *Application `json:"application"`
}

// CouponSource resolves a code to a coupon record. Unknown codes return a
// not-found error.
type CouponSource interface {
	FindCoupon(ctx context.Context, code string) (*Record, error)
}

// Service validates promo codes and tracks the single application a session
// may hold.
type Service interface {
	Validate(ctx context.Context, code string, subtotalCents int64) (*Application, error)
	Apply(ctx context.Context, sessionID, code string, subtotalCents int64) (*Application, error)
	Applied(ctx context.Context, sessionID string) (*Application, error)
	Remove(ctx context.Context, sessionID string) error
}

type service struct {
	source        CouponSource
	store         kvstore.Store
	logg          *logger.Logger
	met           *metrics.StorefrontMetrics
	lookupTimeout time.Duration
	now           func() time.Time
	inflight      singleflight.Group
}

// NewService builds the promo service. Metrics are optional.
func NewService(source CouponSource, store kvstore.Store, logg *logger.Logger, met *metrics.StorefrontMetrics, lookupTimeout time.Duration) (Service, error) {
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon source is required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo logger is required")
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &service{
		source:        source,
		store:         store,
		logg:          logg,
		met:           met,
		lookupTimeout: lookupTimeout,
		now:           time.Now,
	}, nil
}

// Validate resolves and checks a code against the subtotal. The first failing
// check wins and each failure carries a distinct message. State is never
// touched here.
func (s *service) Validate(ctx context.Context, code string, subtotalCents int64) (*Application, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	record, err := s.find(ctx, normalized)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			s.met.IncPromoValidation("invalid")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid promo code")
		}
		s.met.IncPromoValidation("error")
		return nil, err
	}

	if !record.Active {
		s.met.IncPromoValidation("inactive")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon no longer active")
	}
	if record.UsageLimit != nil && record.UsageCount >= *record.UsageLimit {
		s.met.IncPromoValidation("limit")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
	}
	if record.ExpiresAt != nil && record.ExpiresAt.Before(s.now()) {
		s.met.IncPromoValidation("expired")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon expired")
	}
	if record.MinOrderCents > 0 && subtotalCents < record.MinOrderCents {
		s.met.IncPromoValidation("min_order")
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("minimum order of %s required", formatCents(record.MinOrderCents)))
	}
	if record.MaxOrderCents > 0 && subtotalCents > record.MaxOrderCents {
		s.met.IncPromoValidation("max_order")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon not valid for this order size")
	}

	s.met.IncPromoValidation("ok")
	return &Application{Code: record.Code, Type: record.Type, Value: record.Value}, nil
}

// Apply validates the code and persists it as the session's active promo,
// replacing any previous one. Promos never stack.
func (s *service) Apply(ctx context.Context, sessionID, code string, subtotalCents int64) (*Application, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	app, err := s.Validate(ctx, code, subtotalCents)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(document{Version: docVersion, Application: app})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode promo")
	}
	if err := s.store.Set(ctx, kvstore.PromoKey(sessionID), string(raw)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist promo")
	}
	return app, nil
}

// Applied returns the session's active promo, or nil when none is applied.
func (s *service) Applied(ctx context.Context, sessionID string) (*Application, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	raw, err := s.store.Get(ctx, kvstore.PromoKey(sessionID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo")
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Version != docVersion {
		s.logg.Warn(s.logg.WithField(ctx, "version", doc.Version), "promo state unreadable, dropping")
		return nil, nil
	}
	return doc.Application, nil
}

// Remove clears the session's active promo. Removing when none is applied is
// a no-op.
func (s *service) Remove(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	if err := s.store.Del(ctx, kvstore.PromoKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove promo")
	}
	return nil
}

// find resolves the code with a lookup timeout and collapses concurrent
// lookups for the same code into one upstream call.
func (s *service) find(ctx context.Context, code string) (*Record, error) {
	result, err, _ := s.inflight.Do(code, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
		return s.source.FindCoupon(lookupCtx, code)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Record), nil
}
