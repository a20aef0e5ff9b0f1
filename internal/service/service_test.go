package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/checkout"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/search"
	"github.com/proboots/storefront/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupCatalog opens a default catalog on a temp file with a live search index.
func setupCatalog(t *testing.T) *CatalogService {
	t.Helper()
	ctx := context.Background()
	st := catalog.Open(ctx, store.NewDocumentFile(filepath.Join(t.TempDir(), "catalog.json")), nil, testLogger())

	idx, err := search.NewProductIndex(testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return NewCatalogService(st, idx, testLogger())
}

// setupCarts wires a cart service over an in-memory badger store.
func setupCarts(t *testing.T, products ProductLookup) (*CartService, *store.CartStore) {
	t.Helper()
	carts, err := store.OpenCarts("", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = carts.Close() })

	builder := checkout.NewBuilder("5599985306285", "ProBoots", money.Default())
	return NewCartService(carts, products, builder, testLogger()), carts
}
