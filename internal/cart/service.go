package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/wickhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/kvstore"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

// ProductSource is the slice of the catalog the cart consumes.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service owns per-session cart state. Lines persist on every mutation; the
// open flag lives in memory only.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID, variationID int64, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID, variationID int64) (*Cart, error)
	Clear(ctx context.Context, sessionID string) (*Cart, error)
	Toggle(ctx context.Context, sessionID string) (*Cart, error)
	Open(ctx context.Context, sessionID string) (*Cart, error)
	Close(ctx context.Context, sessionID string) (*Cart, error)
}

type service struct {
	store    kvstore.Store
	products ProductSource
	logg     *logger.Logger

	locks sync.Map // sessionID -> *sync.Mutex
	open  sync.Map // sessionID -> bool
}

// NewService builds the cart service.
func NewService(store kvstore.Store, products ProductSource, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart product source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart logger is required")
	}
	return &service{store: store, products: products, logg: logg}, nil
}

// Get returns the current cart without mutating it.
func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	lines := s.load(ctx, sessionID)
	return s.view(sessionID, lines), nil
}

// AddItem appends or merges a line and opens the cart. Quantity below one is
// rejected rather than clamped.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	var variationLabel string
	if input.VariationID != 0 {
		variation := product.Variation(input.VariationID)
		if variation == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product variation")
		}
		variationLabel = variation.Label
	}

	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	lines := s.load(ctx, sessionID)
	merged := false
	for i := range lines {
		if sameLine(lines[i], input.ProductID, input.VariationID) {
			lines[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		var image string
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		lines = append(lines, Line{
			ProductID:      product.ID,
			VariationID:    input.VariationID,
			Name:           product.Name,
			Slug:           product.Slug,
			Image:          image,
			VariationLabel: variationLabel,
			UnitPriceCents: product.UnitPriceCents(input.VariationID),
			Quantity:       input.Quantity,
		})
	}

	if err := s.persist(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	s.open.Store(sessionID, true)
	return s.view(sessionID, lines), nil
}

// UpdateQuantity replaces a line's quantity. Zero or below removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID, variationID int64, quantity int) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID, variationID)
	}

	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	lines := s.load(ctx, sessionID)
	found := false
	for i := range lines {
		if sameLine(lines[i], productID, variationID) {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.persist(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return s.view(sessionID, lines), nil
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID, variationID int64) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	lines := s.load(ctx, sessionID)
	kept := lines[:0]
	for _, line := range lines {
		if !sameLine(line, productID, variationID) {
			kept = append(kept, line)
		}
	}

	if err := s.persist(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return s.view(sessionID, kept), nil
}

// Clear empties the line list. The open flag is untouched.
func (s *service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.persist(ctx, sessionID, nil); err != nil {
		return nil, err
	}
	return s.view(sessionID, nil), nil
}

// Toggle flips the open flag.
func (s *service) Toggle(ctx context.Context, sessionID string) (*Cart, error) {
	return s.setOpen(ctx, sessionID, !s.isOpen(sessionID))
}

// Open raises the open flag.
func (s *service) Open(ctx context.Context, sessionID string) (*Cart, error) {
	return s.setOpen(ctx, sessionID, true)
}

// Close lowers the open flag.
func (s *service) Close(ctx context.Context, sessionID string) (*Cart, error) {
	return s.setOpen(ctx, sessionID, false)
}

func (s *service) setOpen(ctx context.Context, sessionID string, open bool) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s.open.Store(sessionID, open)
	lines := s.load(ctx, sessionID)
	return s.view(sessionID, lines), nil
}

func (s *service) lock(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *service) isOpen(sessionID string) bool {
	open, ok := s.open.Load(sessionID)
	return ok && open.(bool)
}

// load rehydrates the persisted lines. Missing, unreadable, or mismatched
// documents yield an empty cart instead of an error.
func (s *service) load(ctx context.Context, sessionID string) []Line {
	raw, err := s.store.Get(ctx, kvstore.CartKey(sessionID))
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart load failed, starting empty")
		}
		return nil
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Version != docVersion {
		s.logg.Warn(s.logg.WithField(ctx, "version", doc.Version), "cart state unreadable, starting empty")
		return nil
	}
	return doc.Lines
}

func (s *service) persist(ctx context.Context, sessionID string, lines []Line) error {
	raw, err := json.Marshal(document{Version: docVersion, Lines: lines})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, kvstore.CartKey(sessionID), string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func (s *service) view(sessionID string, lines []Line) *Cart {
	cart := &Cart{Lines: lines, IsOpen: s.isOpen(sessionID)}
	if cart.Lines == nil {
		cart.Lines = []Line{}
	}
	for _, line := range cart.Lines {
		cart.ItemCount += line.Quantity
		cart.SubtotalCents += line.TotalCents()
	}
	return cart
}
