// Package catalog owns the in-memory storefront catalog (banners, categories
// and products) and writes the whole document through a Persister after every
// mutation.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/errors"
	"github.com/proboots/storefront/internal/id"
	"github.com/proboots/storefront/internal/store"
	"github.com/proboots/storefront/internal/util"
	"github.com/proboots/storefront/internal/validation"
)

// Persister reads and writes the whole catalog document.
// Load returns store.ErrNotFound when nothing has been written yet.
// Save must not retain doc after returning.
type Persister interface {
	Load(ctx context.Context) (*domain.Catalog, error)
	Save(ctx context.Context, doc *domain.Catalog) error
}

// Pinger is implemented by persisters that can check their storage without
// reading the whole document.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Listener receives a private copy of the catalog after each change.
type Listener func(doc *domain.Catalog)

// Store is the catalog. Independent Stores sharing one Persister do not
// coordinate: whichever saves last wins the whole document.
type Store struct {
	mu        sync.RWMutex
	doc       *domain.Catalog
	persister Persister
	validator *validation.Validator
	logger    *slog.Logger

	listenersMu sync.RWMutex
	listeners   []Listener
}

// Open loads the catalog. A missing document starts from Default and writes it;
// an unreadable one is logged and replaced in memory by Default.
func Open(ctx context.Context, p Persister, v *validation.Validator, logger *slog.Logger) *Store {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{persister: p, validator: v, logger: logger}
	s.doc = s.loadOrDefault(ctx)
	return s
}

func (s *Store) loadOrDefault(ctx context.Context) *domain.Catalog {
	doc, err := s.persister.Load(ctx)
	switch {
	case err == nil:
		return fillMissing(doc, s.logger)
	case errors.Is(err, store.ErrNotFound):
		doc = Default()
		if err := s.persister.Save(ctx, doc); err != nil {
			s.logger.Error("could not save default catalog", "error", err)
		} else {
			s.logger.Info("catalog initialized with defaults",
				"banners", len(doc.Banners),
				"categories", len(doc.Categories),
				"products", len(doc.Products),
			)
		}
		return doc
	default:
		s.logger.Warn("catalog storage corrupt, serving defaults",
			"error", errors.StorageCorrupt(err),
		)
		return Default()
	}
}

// fillMissing substitutes defaults for collections absent from a stored document.
func fillMissing(doc *domain.Catalog, logger *slog.Logger) *domain.Catalog {
	if doc == nil {
		doc = &domain.Catalog{}
	}
	if !doc.Complete() {
		def := Default()
		if doc.Banners == nil {
			doc.Banners = def.Banners
		}
		if doc.Categories == nil {
			doc.Categories = def.Categories
		}
		if doc.Products == nil {
			doc.Products = def.Products
		}
		logger.Warn("catalog document incomplete, missing collections filled with defaults")
	}
	doc.Reindex()
	return doc
}

// OnChange registers a listener called after every in-memory change.
func (s *Store) OnChange(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(doc *domain.Catalog) {
	s.listenersMu.RLock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(doc.Clone())
	}
}

// mutate applies fn under the write lock, then reindexes and persists the
// whole document. fn must leave doc untouched when it returns an error.
// Memory keeps the change even when the save fails.
func (s *Store) mutate(ctx context.Context, op string, fn func(doc *domain.Catalog) error) error {
	s.mu.Lock()
	if err := fn(s.doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc.Reindex()
	saveErr := s.persister.Save(ctx, s.doc)
	snap := s.doc.Clone()
	s.mu.Unlock()

	s.notify(snap)

	if saveErr != nil {
		s.logger.Error("catalog save failed", "op", op, "error", saveErr)
		return errors.Persistence(saveErr)
	}
	s.logger.Debug("catalog saved", "op", op)
	return nil
}

// Ping checks that the durable document is reachable. Persisters without a
// Ping of their own are checked with a Load.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.persister.(Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := s.persister.Load(ctx)
	return err
}

// Snapshot returns a deep copy of the whole document with a fresh category index.
func (s *Store) Snapshot() *domain.Catalog {
	s.mu.RLock()
	doc := s.doc.Clone()
	s.mu.RUnlock()
	doc.Reindex()
	return doc
}

// Replace swaps in a whole new document. All three collections must be
// present, every record must validate and IDs must be unique per collection.
func (s *Store) Replace(ctx context.Context, doc *domain.Catalog) error {
	if doc == nil || !doc.Complete() {
		return errors.Validation("Dados inválidos.")
	}
	details := map[string]string{}
	checkRecords(s.validator, details, "banners", doc.Banners, func(b domain.Banner) string { return b.ID })
	checkRecords(s.validator, details, "categories", doc.Categories, func(c domain.Category) string { return c.ID })
	checkRecords(s.validator, details, "products", doc.Products, func(p domain.Product) string { return p.ID })
	if len(details) > 0 {
		return errors.ValidationWithDetails("Dados inválidos.", details)
	}
	next := doc.Clone()
	return s.mutate(ctx, "replace", func(cur *domain.Catalog) error {
		*cur = *next
		return nil
	})
}

// checkRecords records a detail per invalid record, keyed by its position.
func checkRecords[T any](v *validation.Validator, details map[string]string, collection string, records []T, idOf func(T) string) {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		key := fmt.Sprintf("%s[%d]", collection, i)
		switch recID := idOf(r); {
		case recID == "":
			details[key+".id"] = "is required"
		case seen[recID]:
			details[key+".id"] = "duplicate id " + recID
		default:
			seen[recID] = true
		}

		err := v.Validate(r)
		if err == nil {
			continue
		}
		var de *errors.Error
		if errors.As(err, &de) {
			if fields, ok := de.Details.(map[string]string); ok {
				for field, msg := range fields {
					details[key+"."+field] = msg
				}
				continue
			}
		}
		details[key] = err.Error()
	}
}

// Reload re-reads the durable document, keeping memory unchanged on failure.
func (s *Store) Reload(ctx context.Context) error {
	doc, err := s.persister.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFound("catalog document not found")
		}
		return errors.StorageCorrupt(err)
	}
	doc = fillMissing(doc, s.logger)

	s.mu.Lock()
	if sameDocument(s.doc, doc) {
		s.mu.Unlock()
		s.logger.Debug("catalog reload skipped, document unchanged")
		return nil
	}
	s.doc = doc
	snap := doc.Clone()
	s.mu.Unlock()

	s.notify(snap)
	s.logger.Info("catalog reloaded", "products", len(snap.Products))
	return nil
}

// sameDocument compares the encoded forms, which is how the document is persisted.
func sameDocument(a, b *domain.Catalog) bool {
	ea, err := json.Marshal(a)
	if err != nil {
		return false
	}
	eb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

// Banners

// Banners returns banners in stored order, optionally only the active ones.
func (s *Store) Banners(activeOnly bool) []domain.Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Banner, 0, len(s.doc.Banners))
	for _, b := range s.doc.Banners {
		if !activeOnly || b.Active {
			out = append(out, b)
		}
	}
	return out
}

// Banner returns one banner.
func (s *Store) Banner(bannerID string) (domain.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.doc.BannerIndex(bannerID); i >= 0 {
		return s.doc.Banners[i], nil
	}
	return domain.Banner{}, errors.NotFound("Banner not found")
}

// CreateBanner adds a banner with a fresh ID.
func (s *Store) CreateBanner(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	if err := s.validator.Validate(b); err != nil {
		return domain.Banner{}, err
	}
	err := s.mutate(ctx, "create_banner", func(doc *domain.Catalog) error {
		newID, err := id.GenerateUnique(id.PrefixBanner, func(c string) bool { return doc.BannerIndex(c) >= 0 })
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "could not assign banner id")
		}
		b.ID = newID
		doc.Banners = append(doc.Banners, b)
		return nil
	})
	if err != nil && b.ID == "" {
		return domain.Banner{}, err
	}
	return b, err
}

// UpdateBanner merges patch onto the banner.
func (s *Store) UpdateBanner(ctx context.Context, bannerID string, patch domain.BannerPatch) (domain.Banner, error) {
	var updated domain.Banner
	err := s.mutate(ctx, "update_banner", func(doc *domain.Catalog) error {
		i := doc.BannerIndex(bannerID)
		if i < 0 {
			return errors.NotFound("Banner not found")
		}
		next := doc.Banners[i]
		patch.Apply(&next)
		if err := s.validator.Validate(next); err != nil {
			return err
		}
		doc.Banners[i] = next
		updated = next
		return nil
	})
	return updated, err
}

// DeleteBanner removes one banner.
func (s *Store) DeleteBanner(ctx context.Context, bannerID string) error {
	return s.mutate(ctx, "delete_banner", func(doc *domain.Catalog) error {
		i := doc.BannerIndex(bannerID)
		if i < 0 {
			return errors.NotFound("Banner not found")
		}
		doc.Banners = slices.Delete(doc.Banners, i, i+1)
		return nil
	})
}

// Categories

// Categories returns all categories with a freshly computed product index.
func (s *Store) Categories() []domain.Category {
	return s.Snapshot().Categories
}

// Category returns one category with its product index.
func (s *Store) Category(categoryID string) (domain.Category, error) {
	doc := s.Snapshot()
	if i := doc.CategoryIndex(categoryID); i >= 0 {
		return doc.Categories[i], nil
	}
	return domain.Category{}, errors.NotFoundf("category %s not found", categoryID)
}

// CreateCategory adds a category. A non-empty c.ID, or else the slug of its
// name, is used as the ID when no sibling has it.
func (s *Store) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if err := s.validator.Validate(c); err != nil {
		return domain.Category{}, err
	}
	want := util.Slugify(c.ID)
	if want == "" {
		want = util.Slugify(c.Name)
	}
	c.ID = ""
	c.ProductIDs = nil

	var created domain.Category
	err := s.mutate(ctx, "create_category", func(doc *domain.Catalog) error {
		newID, err := id.Preferred(want, id.PrefixCategory, func(x string) bool { return doc.CategoryIndex(x) >= 0 })
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "could not assign category id")
		}
		c.ID = newID
		doc.Categories = append(doc.Categories, c)
		return nil
	})
	if c.ID == "" {
		return domain.Category{}, err
	}
	created = c
	created.ProductIDs = s.productIDsIn(c.ID)
	return created, err
}

// UpdateCategory merges patch onto the category.
func (s *Store) UpdateCategory(ctx context.Context, categoryID string, patch domain.CategoryPatch) (domain.Category, error) {
	var updated domain.Category
	err := s.mutate(ctx, "update_category", func(doc *domain.Catalog) error {
		i := doc.CategoryIndex(categoryID)
		if i < 0 {
			return errors.NotFoundf("category %s not found", categoryID)
		}
		next := doc.Categories[i]
		patch.Apply(&next)
		if err := s.validator.Validate(next); err != nil {
			return err
		}
		doc.Categories[i] = next
		updated = next
		return nil
	})
	if updated.ID != "" {
		updated.ProductIDs = s.productIDsIn(updated.ID)
	}
	return updated, err
}

// DeleteCategory removes one category and clears the category of every
// product that pointed at it. Products are kept.
func (s *Store) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.mutate(ctx, "delete_category", func(doc *domain.Catalog) error {
		i := doc.CategoryIndex(categoryID)
		if i < 0 {
			return errors.NotFoundf("category %s not found", categoryID)
		}
		for j := range doc.Products {
			if doc.Products[j].Category == categoryID {
				doc.Products[j].Category = ""
			}
		}
		doc.Categories = slices.Delete(doc.Categories, i, i+1)
		return nil
	})
}

func (s *Store) productIDsIn(categoryID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for _, p := range s.doc.Products {
		if p.Category == categoryID {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Products

// Products returns the products passing filter, in stored order.
func (s *Store) Products(filter domain.ProductFilter) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Product{}
	for _, p := range s.doc.Products {
		if filter.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Product returns one product.
func (s *Store) Product(productID string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.doc.ProductIndex(productID); i >= 0 {
		return s.doc.Products[i].Clone(), nil
	}
	return domain.Product{}, errors.NotFoundf("product %s not found", productID)
}

// CreateProduct adds a product with a fresh ID.
func (s *Store) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := s.validator.Validate(p); err != nil {
		return domain.Product{}, err
	}
	p = p.Clone()
	p.ID = ""
	if p.Images == nil {
		p.Images = []string{}
	}

	err := s.mutate(ctx, "create_product", func(doc *domain.Catalog) error {
		if err := checkCategory(doc, p.Category); err != nil {
			return err
		}
		newID, err := id.GenerateUnique(id.PrefixProduct, func(x string) bool { return doc.ProductIndex(x) >= 0 })
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "could not assign product id")
		}
		p.ID = newID
		doc.Products = append(doc.Products, p)
		return nil
	})
	if p.ID == "" {
		return domain.Product{}, err
	}
	return p.Clone(), err
}

// UpdateProduct merges patch onto the product.
func (s *Store) UpdateProduct(ctx context.Context, productID string, patch domain.ProductPatch) (domain.Product, error) {
	var updated domain.Product
	err := s.mutate(ctx, "update_product", func(doc *domain.Catalog) error {
		i := doc.ProductIndex(productID)
		if i < 0 {
			return errors.NotFoundf("product %s not found", productID)
		}
		next := doc.Products[i].Clone()
		patch.Apply(&next)
		if err := s.validator.Validate(next); err != nil {
			return err
		}
		if patch.Category != nil {
			if err := checkCategory(doc, next.Category); err != nil {
				return err
			}
		}
		doc.Products[i] = next
		updated = next.Clone()
		return nil
	})
	return updated, err
}

// DeleteProduct removes one product. Open carts keep their snapshot of it.
func (s *Store) DeleteProduct(ctx context.Context, productID string) error {
	return s.mutate(ctx, "delete_product", func(doc *domain.Catalog) error {
		i := doc.ProductIndex(productID)
		if i < 0 {
			return errors.NotFoundf("product %s not found", productID)
		}
		doc.Products = slices.Delete(doc.Products, i, i+1)
		return nil
	})
}

func checkCategory(doc *domain.Catalog, categoryID string) error {
	if categoryID == "" || doc.CategoryIndex(categoryID) >= 0 {
		return nil
	}
	return errors.ValidationWithDetails("validation failed", map[string]string{
		"category": "unknown category " + categoryID,
	})
}
