package recentlyviewed

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

const (
	docVersion = 1

	// Capacity is the ring size. The oldest view beyond it is dropped.
	Capacity = 8
)

// Item is a viewed product snapshot, most recent first in the list.
type Item struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Image      string `json:"image,omitempty"`
	PriceCents int64  `json:"price_cents"`
}

type document struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// ProductSource is the slice of the catalog the view history consumes.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service tracks the last products a session viewed.
type Service interface {
	List(ctx context.Context, sessionID string) ([]Item, error)
	Record(ctx context.Context, sessionID string, productID int64) ([]Item, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    kvstore.Store
	products ProductSource
	logg     *logger.Logger

	locks sync.Map // sessionID -> *sync.Mutex
}

// NewService builds the recently-viewed service.
func NewService(store kvstore.Store, products ProductSource, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recently-viewed store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recently-viewed product source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recently-viewed logger is required")
	}
	return &service{store: store, products: products, logg: logg}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]Item, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	return s.load(ctx, sessionID), nil
}

// Record prepends the product, dropping any earlier entry for the same id and
// truncating to capacity. A re-view refreshes recency without growing the
// list.
func (s *service) Record(ctx context.Context, sessionID string, productID int64) ([]Item, error) {
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
	next := make([]Item, 0, Capacity)

	var image string
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	next = append(next, Item{
		ProductID:  product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		Image:      image,
		PriceCents: product.PriceCents,
	})
	for _, item := range items {
		if item.ProductID == productID {
			continue
		}
		next = append(next, item)
		if len(next) == Capacity {
			break
		}
	}

	if err := s.persist(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	return s.persist(ctx, sessionID, []Item{})
}

func (s *service) lock(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *service) load(ctx context.Context, sessionID string) []Item {
	raw, err := s.store.Get(ctx, kvstore.RecentKey(sessionID))
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "recently-viewed load failed, starting empty")
		}
		return []Item{}
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Version != docVersion {
		s.logg.Warn(s.logg.WithField(ctx, "version", doc.Version), "recently-viewed state unreadable, starting empty")
		return []Item{}
	}
	if doc.Items == nil {
		return []Item{}
	}
	if len(doc.Items) > Capacity {
		doc.Items = doc.Items[:Capacity]
	}
	return doc.Items
}

func (s *service) persist(ctx context.Context, sessionID string, items []Item) error {
	raw, err := json.Marshal(document{Version: docVersion, Items: items})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode recently-viewed")
	}
	if err := s.store.Set(ctx, kvstore.RecentKey(sessionID), string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist recently-viewed")
	}
	return nil
}
