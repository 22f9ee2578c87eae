package controllers

import (
	"net/http"

	"github.com/wickhaven/storefront-backend/api/responses"
	"github.com/wickhaven/storefront-backend/api/validators"
	recentsvc "github.com/wickhaven/storefront-backend/internal/recentlyviewed"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

type recentlyViewedRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// RecentlyViewedList returns the session's view history, most recent first.
func RecentlyViewedList(svc recentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.List(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// RecentlyViewedRecord registers a product view.
func RecentlyViewedRecord(svc recentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload recentlyViewedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.Record(r.Context(), sessionID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// RecentlyViewedClear empties the view history.
func RecentlyViewedClear(svc recentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": []any{}})
	}
}
