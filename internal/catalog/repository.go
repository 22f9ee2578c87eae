package catalog

import (
	"context"
	"strings"

	"github.com/wickhaven/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort options accepted by the catalog listing.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ListInput captures catalog filters from the storefront.
type ListInput struct {
	Collection    string
	Tag           string
	Search        string
	StockStatus   StockStatus
	OnSale        *bool
	Featured      *bool
	Bestseller    *bool
	MinPriceCents *int64
	MaxPriceCents *int64
	Sort          string
	Page          pagination.Params
}

// ListResult is a page of products plus paging metadata.
type ListResult struct {
	Products   []Product       `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the catalog schema.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Product{})
}

// ReplaceAll swaps the whole catalog for the provided products. The delete
// and insert run in one transaction so a failed insert keeps the old rows.
func (r *Repository) ReplaceAll(ctx context.Context, products []Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
}

// Upsert writes products, replacing existing rows by id.
func (r *Repository) Upsert(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&products).
		Error
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads a single product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Collections returns the distinct collection names in the catalog.
func (r *Repository) Collections(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Distinct("collection").
		Where("collection <> ''").
		Order("collection ASC").
		Pluck("collection", &names).
		Error; err != nil {
		return nil, err
	}
	return names, nil
}

// List returns a filtered, sorted page of products.
func (r *Repository) List(ctx context.Context, input ListInput) (*ListResult, error) {
	query := r.db.WithContext(ctx).Model(&Product{})

	if v := strings.TrimSpace(input.Collection); v != "" {
		query = query.Where("collection = ?", v)
	}
	if input.StockStatus != "" {
		query = query.Where("stock_status = ?", input.StockStatus)
	}
	if input.OnSale != nil {
		query = query.Where("on_sale = ?", *input.OnSale)
	}
	if input.Featured != nil {
		query = query.Where("featured = ?", *input.Featured)
	}
	if input.Bestseller != nil {
		query = query.Where("bestseller = ?", *input.Bestseller)
	}
	if input.MinPriceCents != nil {
		query = query.Where("price_cents >= ?", *input.MinPriceCents)
	}
	if input.MaxPriceCents != nil {
		query = query.Where("price_cents <= ?", *input.MaxPriceCents)
	}
	if v := strings.TrimSpace(input.Tag); v != "" {
		// tags is a JSON array column; match the quoted element.
		query = query.Where("tags LIKE ?", "%\""+v+"\"%")
	}
	if v := strings.TrimSpace(input.Search); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(tagline) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	switch input.Sort {
	case SortPriceAsc:
		query = query.Order("price_cents ASC").Order("id ASC")
	case SortPriceDesc:
		query = query.Order("price_cents DESC").Order("id ASC")
	case SortName:
		query = query.Order("name ASC")
	default:
		query = query.Order("featured DESC").Order("bestseller DESC").Order("id ASC")
	}

	page := input.Page.Normalize()
	var products []Product
	if err := query.Offset(input.Page.Offset()).Limit(page.PerPage).Find(&products).Error; err != nil {
		return nil, err
	}

	return &ListResult{
		Products:   products,
		Pagination: pagination.NewMeta(input.Page, total),
	}, nil
}
