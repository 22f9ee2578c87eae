package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wickhaven/storefront-backend/pkg/config"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/metrics"
)

const apiBasePath = "/wp-json/wc/v3"

var (
	errBaseURLRequired     = errors.New("commerce base url is required")
	errCredentialsRequired = errors.New("commerce consumer key and secret are required")
	errLoggerRequired      = errors.New("commerce logger is required")
)

// Client exposes the commerce REST API with centralized auth, logging, and
// error mapping. Credentials ride as a basic-auth pair on every request.
type Client struct {
	baseURL string
	key     string
	secret  string
	http    *http.Client
	logger  *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewClient initializes the commerce wrapper and validates the credentials.
func NewClient(cfg config.WooConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	key := strings.TrimSpace(cfg.ConsumerKey)
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if key == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	return &Client{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
		metrics: m,
	}, nil
}

// ListProducts fetches a page of products matching the params.
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/products", params.Values(), nil, &out, "products"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches a single product by its remote id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var out Product
	path := "/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, "products"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategories fetches the product categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, nil, &out, "categories"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCouponByCode resolves a coupon record by its code, or not-found.
func (c *Client) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	q := url.Values{}
	q.Set("code", strings.ToLower(strings.TrimSpace(code)))
	var out []Coupon
	if err := c.do(ctx, http.MethodGet, "/coupons", q, nil, &out, "coupons"); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return &out[0], nil
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, req OrderCreateRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &out, "orders"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrder fetches an order by its remote id.
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var out Order
	path := "/orders/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, "orders"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, endpoint string) error {
	target := c.baseURL + apiBasePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode commerce request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build commerce request")
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log(ctx, "request", endpoint, map[string]any{"method": method, "path": path})

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncRemoteRequest(endpoint, "error")
		c.log(ctx, "error", endpoint, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("commerce %s request failed", endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncRemoteRequest(endpoint, "error")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		cause := fmt.Errorf("commerce responded %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		c.log(ctx, "error", endpoint, map[string]any{"status": resp.StatusCode, "error": cause.Error()})
		return pkgerrors.Wrap(
			codeForStatus(resp.StatusCode),
			cause,
			fmt.Sprintf("commerce %s failed with status %d", endpoint, resp.StatusCode),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.IncRemoteRequest(endpoint, "error")
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode commerce %s response", endpoint))
		}
	}

	c.metrics.IncRemoteRequest(endpoint, "ok")
	c.log(ctx, "response", endpoint, map[string]any{"status": resp.StatusCode})
	return nil
}

func (c *Client) log(ctx context.Context, phase, endpoint string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"endpoint": endpoint,
		"phase":    phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("commerce %s", endpoint), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("commerce %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"key", "secret", "token", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
