package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wickhaven/storefront-backend/api/responses"
	"github.com/wickhaven/storefront-backend/api/validators"
	"github.com/wickhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/pagination"
)

// ProductList serves the filtered, paginated catalog.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := listInputFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
		})
	}
}

// ProductDetail resolves a product by numeric id or slug.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idOrSlug := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
		if idOrSlug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id or slug is required"))
			return
		}

		product, err := svc.Get(r.Context(), idOrSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCollections lists the distinct collection names.
func ProductCollections(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections, err := svc.Collections(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"collections": collections})
	}
}

func listInputFromQuery(r *http.Request) (*catalog.ListInput, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
	if err != nil {
		return nil, err
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return nil, err
	}

	onSale, err := validators.ParseQueryBool(r, "on_sale")
	if err != nil {
		return nil, err
	}
	featured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return nil, err
	}
	bestseller, err := validators.ParseQueryBool(r, "bestseller")
	if err != nil {
		return nil, err
	}
	minPrice, err := validators.ParseQueryInt64(r, "min_price")
	if err != nil {
		return nil, err
	}
	maxPrice, err := validators.ParseQueryInt64(r, "max_price")
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	return &catalog.ListInput{
		Collection:    strings.TrimSpace(query.Get("collection")),
		Tag:           strings.TrimSpace(query.Get("tag")),
		Search:        strings.TrimSpace(query.Get("search")),
		StockStatus:   catalog.StockStatus(strings.TrimSpace(query.Get("stock_status"))),
		OnSale:        onSale,
		Featured:      featured,
		Bestseller:    bestseller,
		MinPriceCents: minPrice,
		MaxPriceCents: maxPrice,
		Sort:          strings.TrimSpace(query.Get("sort")),
		Page:          pagination.Params{Page: page, PerPage: perPage},
	}, nil
}
