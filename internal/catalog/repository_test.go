package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wickhaven/storefront-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	silent := gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent})
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: silent, SkipDefaultTransaction: true})
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func seedTestRepo(t *testing.T, repo *Repository) []Product {
	t.Helper()

	seed, err := SeedProducts()
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(context.Background(), seed))
	return seed
}

func TestSeedCatalogLoadsAndValidates(t *testing.T) {
	t.Parallel()

	seed, err := SeedProducts()
	require.NoError(t, err)
	require.Len(t, seed, 10)

	slugs := map[string]bool{}
	for _, p := range seed {
		assert.False(t, slugs[p.Slug], "duplicate slug %q", p.Slug)
		slugs[p.Slug] = true
	}
}

func TestListFiltersByCollection(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	result, err := repo.List(context.Background(), ListInput{Collection: "Signature"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, result.Pagination.Total)
	for _, p := range result.Products {
		assert.Equal(t, "Signature", p.Collection)
	}
}

func TestListFiltersByPriceRangeAndSortsByPrice(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	min := int64(1000)
	max := int64(1300)
	result, err := repo.List(context.Background(), ListInput{
		MinPriceCents: &min,
		MaxPriceCents: &max,
		Sort:          SortPriceAsc,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Products)

	var last int64
	for _, p := range result.Products {
		assert.GreaterOrEqual(t, p.PriceCents, min)
		assert.LessOrEqual(t, p.PriceCents, max)
		assert.GreaterOrEqual(t, p.PriceCents, last, "ascending price order")
		last = p.PriceCents
	}
}

func TestListSearchMatchesNameAndDescription(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	result, err := repo.List(context.Background(), ListInput{Search: "amber"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Pagination.Total, int64(2))
}

func TestListFiltersByTagAndOnSale(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	onSale := true
	result, err := repo.List(context.Background(), ListInput{OnSale: &onSale})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Pagination.Total)

	result, err = repo.List(context.Background(), ListInput{Tag: "citrus"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Products)
	for _, p := range result.Products {
		assert.Contains(t, p.Tags, "citrus")
	}
}

func TestListPaginates(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	result, err := repo.List(context.Background(), ListInput{
		Sort: SortName,
		Page: pagination.Params{Page: 2, PerPage: 4},
	})
	require.NoError(t, err)
	assert.Len(t, result.Products, 4)
	assert.Equal(t, 3, result.Pagination.TotalPages)
}

func TestReplaceAllKeepsRowsWhenInsertFails(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	// Duplicate primary keys make the insert fail after the delete ran.
	bad := []Product{
		{ID: 501, Slug: "golden-hour", Name: "Golden Hour", PriceCents: 2400},
		{ID: 501, Slug: "night-market", Name: "Night Market", PriceCents: 2600},
	}
	require.Error(t, repo.ReplaceAll(context.Background(), bad))

	result, err := repo.List(context.Background(), ListInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 10, result.Pagination.Total, "failed replace must keep the previous catalog")
}

func TestFindBySlugAndCollections(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	product, err := repo.FindBySlug(context.Background(), "amber-glow")
	require.NoError(t, err)
	assert.EqualValues(t, 3, product.ID)
	assert.EqualValues(t, 1199, product.PriceCents)

	collections, err := repo.Collections(context.Background())
	require.NoError(t, err)
	assert.Len(t, collections, 5)
}

func TestVariationPriceResolution(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	seedTestRepo(t, repo)

	product, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2099, product.UnitPriceCents(102))
	assert.EqualValues(t, 1499, product.UnitPriceCents(0))
	assert.EqualValues(t, 1499, product.UnitPriceCents(999), "unknown variation falls back to base price")
}
