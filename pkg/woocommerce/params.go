package woocommerce

import (
	"net/url"
	"strconv"
	"strings"
)

// ProductListParams filters the remote product listing.
type ProductListParams struct {
	Page        int
	PerPage     int
	Category    string
	Search      string
	MinPrice    string
	MaxPrice    string
	StockStatus string
	OnSale      *bool
	Featured    *bool
	OrderBy     string
	Order       string
}

// Values renders the params as commerce API query parameters.
func (p ProductListParams) Values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if v := strings.TrimSpace(p.Category); v != "" {
		q.Set("category", v)
	}
	if v := strings.TrimSpace(p.Search); v != "" {
		q.Set("search", v)
	}
	if v := strings.TrimSpace(p.MinPrice); v != "" {
		q.Set("min_price", v)
	}
	if v := strings.TrimSpace(p.MaxPrice); v != "" {
		q.Set("max_price", v)
	}
	if v := strings.TrimSpace(p.StockStatus); v != "" {
		q.Set("stock_status", v)
	}
	if p.OnSale != nil {
		q.Set("on_sale", strconv.FormatBool(*p.OnSale))
	}
	if p.Featured != nil {
		q.Set("featured", strconv.FormatBool(*p.Featured))
	}
	if v := strings.TrimSpace(p.OrderBy); v != "" {
		q.Set("orderby", v)
	}
	if v := strings.TrimSpace(p.Order); v != "" {
		q.Set("order", v)
	}
	return q
}
