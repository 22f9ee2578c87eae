package controllers

import (
	"context"
	"net/http"

	"github.com/wickhaven/storefront-backend/api/responses"
	"github.com/wickhaven/storefront-backend/api/validators"
	cartsvc "github.com/wickhaven/storefront-backend/internal/cart"
	promosvc "github.com/wickhaven/storefront-backend/internal/promo"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

type promoApplyRequest struct {
	Code string `json:"code" validate:"required,min=2,max=64"`
}

type promoView struct {
	Application   *promosvc.Application `json:"application"`
	SubtotalCents int64                 `json:"subtotal_cents"`
	DiscountCents int64                 `json:"discount_cents"`
	TotalCents    int64                 `json:"total_cents"`
}

func promoViewFor(app *promosvc.Application, subtotalCents int64) promoView {
	view := promoView{Application: app, SubtotalCents: subtotalCents, TotalCents: subtotalCents}
	if app != nil {
		view.DiscountCents = promosvc.Discount(*app, subtotalCents)
		view.TotalCents = subtotalCents - view.DiscountCents
	}
	return view
}

func cartSubtotal(ctx context.Context, carts cartsvc.Service, sessionID string) (int64, error) {
	cart, err := carts.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.SubtotalCents, nil
}

// PromoFetch returns the session's applied promo priced against the current
// cart.
func PromoFetch(promos promosvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subtotal, err := cartSubtotal(r.Context(), carts, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		app, err := promos.Applied(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promoViewFor(app, subtotal))
	}
}

// PromoApply validates a code against the current cart subtotal and attaches
// it to the session, replacing any previous code.
func PromoApply(promos promosvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload promoApplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subtotal, err := cartSubtotal(r.Context(), carts, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		app, err := promos.Apply(r.Context(), sessionID, payload.Code, subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promoViewFor(app, subtotal))
	}
}

// PromoRemove detaches the session's promo. The cart total reverts to the
// undiscounted subtotal.
func PromoRemove(promos promosvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := promos.Remove(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		subtotal, err := cartSubtotal(r.Context(), carts, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promoViewFor(nil, subtotal))
	}
}
