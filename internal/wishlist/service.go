package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/wickhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/kvstore"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/metrics"
)

const docVersion = 1

// Item is a saved product snapshot.
type Item struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Image      string `json:"image,omitempty"`
	PriceCents int64  `json:"price_cents"`
}

// Wishlist is the session view.
type Wishlist struct {
	Items []Item `json:"items"`
}

// ToggleResult reports which way a toggle went.
type ToggleResult struct {
	Wishlist *Wishlist `json:"wishlist"`
	Added    bool      `json:"added"`
}

type document struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Notifier receives wishlist membership events, typically for analytics.
// Exactly one event fires per effective add or remove.
type Notifier interface {
	WishlistAdded(ctx context.Context, sessionID string, item Item)
	WishlistRemoved(ctx context.Context, sessionID string, productID int64)
}

// ProductSource is the slice of the catalog the wishlist consumes.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service owns per-session wishlist state.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Wishlist, error)
	AddItem(ctx context.Context, sessionID string, productID int64) (*Wishlist, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*Wishlist, error)
	Toggle(ctx context.Context, sessionID string, productID int64) (*ToggleResult, error)
	IsInWishlist(ctx context.Context, sessionID string, productID int64) (bool, error)
}

type service struct {
	store    kvstore.Store
	products ProductSource
	notifier Notifier
	logg     *logger.Logger
	met      *metrics.StorefrontMetrics

	locks sync.Map // sessionID -> *sync.Mutex
}

// NewService builds the wishlist service. The notifier and metrics are
// optional.
func NewService(store kvstore.Store, products ProductSource, notifier Notifier, logg *logger.Logger, met *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist product source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist logger is required")
	}
	return &service{store: store, products: products, notifier: notifier, logg: logg, met: met}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Wishlist, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	return &Wishlist{Items: s.load(ctx, sessionID)}, nil
}

// AddItem saves the product. Adding an already-saved product is a no-op and
// fires no notification.
func (s *service) AddItem(ctx context.Context, sessionID string, productID int64) (*Wishlist, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	items := s.load(ctx, sessionID)
	for _, item := range items {
		if item.ProductID == productID {
			return &Wishlist{Items: items}, nil
		}
	}

	var image string
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	added := Item{
		ProductID:  product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		Image:      image,
		PriceCents: product.PriceCents,
	}
	items = append(items, added)

	if err := s.persist(ctx, sessionID, items); err != nil {
		return nil, err
	}
	s.met.IncWishlistEvent("add")
	if s.notifier != nil {
		s.notifier.WishlistAdded(ctx, sessionID, added)
	}
	return &Wishlist{Items: items}, nil
}

// RemoveItem drops the product if saved. Removing an absent product is a
// no-op and fires no notification.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*Wishlist, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	items := s.load(ctx, sessionID)
	kept := make([]Item, 0, len(items))
	removed := false
	for _, item := range items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return &Wishlist{Items: items}, nil
	}

	if err := s.persist(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	s.met.IncWishlistEvent("remove")
	if s.notifier != nil {
		s.notifier.WishlistRemoved(ctx, sessionID, productID)
	}
	return &Wishlist{Items: kept}, nil
}

// Toggle removes the product when saved, adds it otherwise.
func (s *service) Toggle(ctx context.Context, sessionID string, productID int64) (*ToggleResult, error) {
	saved, err := s.IsInWishlist(ctx, sessionID, productID)
	if err != nil {
		return nil, err
	}
	if saved {
		list, err := s.RemoveItem(ctx, sessionID, productID)
		if err != nil {
			return nil, err
		}
		return &ToggleResult{Wishlist: list, Added: false}, nil
	}
	list, err := s.AddItem(ctx, sessionID, productID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Wishlist: list, Added: true}, nil
}

func (s *service) IsInWishlist(ctx context.Context, sessionID string, productID int64) (bool, error) {
	if sessionID == "" {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	for _, item := range s.load(ctx, sessionID) {
		if item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) lock(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *service) load(ctx context.Context, sessionID string) []Item {
	raw, err := s.store.Get(ctx, kvstore.WishlistKey(sessionID))
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "wishlist load failed, starting empty")
		}
		return []Item{}
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Version != docVersion {
		s.logg.Warn(s.logg.WithField(ctx, "version", doc.Version), "wishlist state unreadable, starting empty")
		return []Item{}
	}
	if doc.Items == nil {
		return []Item{}
	}
	return doc.Items
}

func (s *service) persist(ctx context.Context, sessionID string, items []Item) error {
	raw, err := json.Marshal(document{Version: docVersion, Items: items})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wishlist")
	}
	if err := s.store.Set(ctx, kvstore.WishlistKey(sessionID), string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wishlist")
	}
	return nil
}
