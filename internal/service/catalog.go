// Package service holds the storefront use cases that sit between the HTTP
// layer and the catalog, cart and search components.
package service

import (
	"context"
	"log/slog"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/errors"
	"github.com/proboots/storefront/internal/search"
)

// CatalogService orchestrates catalog reads, admin writes and product search.
type CatalogService struct {
	store  *catalog.Store
	index  *search.ProductIndex
	logger *slog.Logger
}

// NewCatalogService creates a catalog service and keeps the search index in
// step with every catalog change. index may be nil, in which case search
// always returns no results.
func NewCatalogService(store *catalog.Store, index *search.ProductIndex, logger *slog.Logger) *CatalogService {
	s := &CatalogService{
		store:  store,
		index:  index,
		logger: logger,
	}
	if index != nil {
		s.rebuildIndex(store.Snapshot())
		store.OnChange(s.rebuildIndex)
	}
	return s
}

func (s *CatalogService) rebuildIndex(doc *domain.Catalog) {
	if err := s.index.Rebuild(doc); err != nil {
		s.logger.Warn("search index rebuild failed", "error", err)
	}
}

// Store exposes the underlying catalog store for wiring listeners.
func (s *CatalogService) Store() *catalog.Store { return s.store }

// Snapshot returns the whole catalog document.
func (s *CatalogService) Snapshot() *domain.Catalog {
	return s.store.Snapshot()
}

// Ping reports whether the durable catalog document is reachable.
func (s *CatalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ReplaceCatalog swaps in a whole new document.
func (s *CatalogService) ReplaceCatalog(ctx context.Context, doc *domain.Catalog) (*domain.Catalog, error) {
	if err := s.store.Replace(ctx, doc); err != nil {
		return nil, err
	}
	return s.store.Snapshot(), nil
}

// Banners

// ListBanners returns active banners, or all of them for admin views.
func (s *CatalogService) ListBanners(includeInactive bool) []domain.Banner {
	return s.store.Banners(!includeInactive)
}

// CreateBanner adds a banner.
func (s *CatalogService) CreateBanner(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	return s.store.CreateBanner(ctx, b)
}

// UpdateBanner merges a partial update onto a banner.
func (s *CatalogService) UpdateBanner(ctx context.Context, bannerID string, patch domain.BannerPatch) (domain.Banner, error) {
	return s.store.UpdateBanner(ctx, bannerID, patch)
}

// DeleteBanner removes a banner.
func (s *CatalogService) DeleteBanner(ctx context.Context, bannerID string) error {
	return s.store.DeleteBanner(ctx, bannerID)
}

// Categories

// ListCategories returns every category with its product index.
func (s *CatalogService) ListCategories() []domain.Category {
	return s.store.Categories()
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(categoryID string) (domain.Category, error) {
	return s.store.Category(categoryID)
}

// CategoryProducts returns the products filed under a category.
func (s *CatalogService) CategoryProducts(categoryID string) ([]domain.Product, error) {
	if _, err := s.store.Category(categoryID); err != nil {
		return nil, err
	}
	return s.store.Products(domain.ProductFilter{Category: categoryID}), nil
}

// CreateCategory adds a category.
func (s *CatalogService) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	return s.store.CreateCategory(ctx, c)
}

// UpdateCategory merges a partial update onto a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, categoryID string, patch domain.CategoryPatch) (domain.Category, error) {
	return s.store.UpdateCategory(ctx, categoryID, patch)
}

// DeleteCategory removes a category; its products become uncategorized.
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.store.DeleteCategory(ctx, categoryID)
}

// Products

// ListProducts returns products on a shelf and/or in a category.
func (s *CatalogService) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	if !filter.Shelf.Valid() {
		return nil, errors.ValidationWithDetails("validation failed", map[string]string{
			"shelf": "must be one of bestSeller, forYou, featured",
		})
	}
	return s.store.Products(filter), nil
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(productID string) (domain.Product, error) {
	return s.store.Product(productID)
}

// CreateProduct adds a product.
func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	return s.store.CreateProduct(ctx, p)
}

// UpdateProduct merges a partial update onto a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID string, patch domain.ProductPatch) (domain.Product, error) {
	return s.store.UpdateProduct(ctx, productID, patch)
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID string) error {
	return s.store.DeleteProduct(ctx, productID)
}

// SearchResult is a page of matching products in score order.
type SearchResult struct {
	Query    string           `json:"query"`
	Total    uint64           `json:"total"`
	Products []domain.Product `json:"products"`
}

// SearchProducts runs a product search. Index failures degrade to an empty
// result so the storefront keeps working.
func (s *CatalogService) SearchProducts(ctx context.Context, params search.Params) *SearchResult {
	out := &SearchResult{Query: params.Query, Products: []domain.Product{}}
	if s.index == nil {
		return out
	}

	res, err := s.index.Search(ctx, params)
	if err != nil {
		s.logger.Warn("product search failed", "query", params.Query, "error", err)
		return out
	}

	out.Total = res.Total
	for _, productID := range res.IDs {
		p, err := s.store.Product(productID)
		if err != nil {
			// Deleted between index rebuild and lookup.
			continue
		}
		out.Products = append(out.Products, p)
	}
	return out
}
