package orders

import (
	"context"

	"github.com/wickhaven/storefront-backend/internal/cart"
	"github.com/wickhaven/storefront-backend/internal/promo"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/woocommerce"
)

// Address is the validated checkout address.
type Address struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Address1  string `json:"address_1" validate:"required"`
	Address2  string `json:"address_2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state"`
	Postcode  string `json:"postcode" validate:"required"`
	Country   string `json:"country" validate:"required,iso3166_1_alpha2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
}

// CheckoutInput carries a checkout request from the API layer.
type CheckoutInput struct {
	Billing  Address  `json:"billing" validate:"required"`
	Shipping *Address `json:"shipping" validate:"omitempty"`
}

// Receipt is the storefront view of a placed order.
type Receipt struct {
	OrderID  int64  `json:"order_id"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

// OrderPlacer is the slice of the commerce client checkout consumes.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req woocommerce.OrderCreateRequest) (*woocommerce.Order, error)
	GetOrder(ctx context.Context, id int64) (*woocommerce.Order, error)
}

// CartReader drains the session cart at checkout time.
type CartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) (*cart.Cart, error)
}

// PromoReader resolves and clears the session's applied promo.
type PromoReader interface {
	Applied(ctx context.Context, sessionID string) (*promo.Application, error)
	Remove(ctx context.Context, sessionID string) error
}

// Service places orders against the commerce backend.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*Receipt, error)
	GetOrder(ctx context.Context, orderID int64) (*Receipt, error)
}

type service struct {
	remote OrderPlacer
	carts  CartReader
	promos PromoReader
	logg   *logger.Logger
}

// NewService builds the order service. The remote client may be nil; checkout
// then reports the backend as unavailable.
func NewService(remote OrderPlacer, carts CartReader, promos PromoReader, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart reader is required")
	}
	if promos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order logger is required")
	}
	return &service{remote: remote, carts: carts, promos: promos, logg: logg}, nil
}

// Checkout turns the session cart into a remote order. The cart and any
// applied promo are cleared only after the order is accepted.
func (s *service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*Receipt, error) {
	if s.remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order service not configured")
	}
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}

	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(current.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	applied, err := s.promos.Applied(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	req := woocommerce.OrderCreateRequest{
		PaymentMethod:      "pending",
		PaymentMethodTitle: "Pending payment",
		Billing:            billingAddress(input.Billing),
		Shipping:           shippingAddress(input),
		LineItems:          orderLines(current.Lines),
	}
	if applied != nil {
		req.CouponLines = []woocommerce.CouponLine{{Code: applied.Code}}
	}

	order, err := s.remote.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart clear after checkout failed")
	}
	if err := s.promos.Remove(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "promo clear after checkout failed")
	}

	return receiptFrom(order), nil
}

// GetOrder fetches a placed order by id.
func (s *service) GetOrder(ctx context.Context, orderID int64) (*Receipt, error) {
	if s.remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order service not configured")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.remote.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return receiptFrom(order), nil
}

func receiptFrom(order *woocommerce.Order) *Receipt {
	return &Receipt{
		OrderID:  order.ID,
		Status:   order.Status,
		Currency: order.Currency,
		Total:    order.Total,
	}
}

func billingAddress(a Address) woocommerce.OrderAddress {
	return woocommerce.OrderAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

// shippingAddress falls back to billing when no separate shipping address is
// given.
func shippingAddress(input CheckoutInput) woocommerce.OrderAddress {
	if input.Shipping != nil {
		return billingAddress(*input.Shipping)
	}
	return billingAddress(input.Billing)
}

func orderLines(lines []cart.Line) []woocommerce.OrderLineItem {
	items := make([]woocommerce.OrderLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, woocommerce.OrderLineItem{
			ProductID:   line.ProductID,
			VariationID: line.VariationID,
			Quantity:    line.Quantity,
		})
	}
	return items
}
