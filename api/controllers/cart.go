package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wickhaven/storefront-backend/api/middleware"
	"github.com/wickhaven/storefront-backend/api/responses"
	"github.com/wickhaven/storefront-backend/api/validators"
	cartsvc "github.com/wickhaven/storefront-backend/internal/cart"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

func sessionFrom(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sessionID, nil
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}

// CartFetch returns the session cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartAddItem adds or merges a line and opens the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartsvc.AddItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), sessionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cart)
	}
}

type updateQuantityRequest struct {
	VariationID int64 `json:"variation_id" validate:"gte=0"`
	Quantity    int   `json:"quantity"`
}

// CartUpdateItem replaces a line's quantity; zero or below removes it.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), sessionID, productID, payload.VariationID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartRemoveItem deletes a line. The variation travels as a query parameter.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variationID, err := validators.ParseQueryInt64(r, "variation_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var variation int64
		if variationID != nil {
			variation = *variationID
		}

		cart, err := svc.RemoveItem(r.Context(), sessionID, productID, variation)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := svc.Clear(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartToggle, CartOpen, and CartClose drive the drawer flag only.
func CartToggle(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartFlagHandler(svc.Toggle, logg)
}

func CartOpen(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartFlagHandler(svc.Open, logg)
}

func CartClose(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartFlagHandler(svc.Close, logg)
}

func cartFlagHandler(op func(ctx context.Context, sessionID string) (*cartsvc.Cart, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := op(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}
