package catalog

import (
	"context"
	"errors"
	"strconv"

	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
	"github.com/wickhaven/storefront-backend/pkg/woocommerce"
	"gorm.io/gorm"
)

// RemoteCatalog is the slice of the commerce client the catalog consumes.
type RemoteCatalog interface {
	ListProducts(ctx context.Context, params woocommerce.ProductListParams) ([]woocommerce.Product, error)
}

// Service exposes read-only catalog operations to the storefront.
type Service interface {
	Bootstrap(ctx context.Context) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, idOrSlug string) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Collections(ctx context.Context) ([]string, error)
	Sync(ctx context.Context) error
}

type service struct {
	repo   *Repository
	remote RemoteCatalog
	logg   *logger.Logger
}

// NewService builds the catalog service. The remote client is optional; when
// absent the catalog serves the embedded seed only.
func NewService(repo *Repository, remote RemoteCatalog, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	return &service{repo: repo, remote: remote, logg: logg}, nil
}

// Bootstrap migrates the schema, loads the seed, and attempts a remote sync
// when configured. A failed sync is logged and the seed keeps serving.
func (s *service) Bootstrap(ctx context.Context) error {
	if err := s.repo.Migrate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrate catalog")
	}
	seed, err := SeedProducts()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load seed catalog")
	}
	if err := s.repo.Upsert(ctx, seed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed catalog")
	}
	if s.remote != nil {
		if err := s.Sync(ctx); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "remote catalog sync failed, serving seed")
		}
	}
	return nil
}

// List returns a filtered page of products.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.StockStatus != "" && !input.StockStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status filter")
	}
	result, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// Get resolves a product by numeric id or slug.
func (s *service) Get(ctx context.Context, idOrSlug string) (*Product, error) {
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		return s.GetByID(ctx, id)
	}
	product, err := s.repo.FindBySlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// GetByID loads a single product.
func (s *service) GetByID(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// Collections lists the distinct collection names.
func (s *service) Collections(ctx context.Context) ([]string, error) {
	names, err := s.repo.Collections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections")
	}
	return names, nil
}

// Sync pulls the live catalog from the commerce backend and replaces the
// local rows. Callers treat a failure as recoverable; the previous rows keep
// serving.
func (s *service) Sync(ctx context.Context) error {
	if s.remote == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "remote catalog is not configured")
	}

	var all []Product
	page := 1
	for {
		remote, err := s.remote.ListProducts(ctx, woocommerce.ProductListParams{Page: page, PerPage: 100})
		if err != nil {
			return err
		}
		if len(remote) == 0 {
			break
		}
		for _, rp := range remote {
			all = append(all, MapProduct(rp))
		}
		if len(remote) < 100 {
			break
		}
		page++
	}

	if len(all) == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "remote catalog returned no products")
	}

	if err := s.repo.ReplaceAll(ctx, all); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace catalog")
	}
	return nil
}
