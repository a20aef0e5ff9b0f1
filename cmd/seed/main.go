// Package main writes an initial catalog document.
//
// The catalog comes from a YAML fixture, or the built-in default catalog when
// none is given. Storage flags after "--" are the server's own flags.
//
// Usage:
//
//	go run ./cmd/seed -fixture testdata/catalog.yaml
//	go run ./cmd/seed -force -- -data-path ./data -catalog-backend sqlite
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/store"
	"github.com/proboots/storefront/internal/store/sqlite"
	"github.com/proboots/storefront/internal/validation"
)

var (
	fixture = flag.String("fixture", "", "YAML catalog fixture (default: built-in catalog)")
	force   = flag.Bool("force", false, "Overwrite an existing catalog")
)

func main() {
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *fixture, *force, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

// run seeds the catalog backend selected by args. Every opened backend is
// closed before it returns.
func run(ctx context.Context, out io.Writer, fixturePath string, overwrite bool, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := os.MkdirAll(cfg.Data.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	doc, err := loadCatalog(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	persister, closeFn, target, err := openPersister(cfg)
	if err != nil {
		return fmt.Errorf("failed to open catalog backend: %w", err)
	}
	defer closeFn()

	if !overwrite {
		if _, err := persister.Load(ctx); err == nil {
			return fmt.Errorf("catalog already exists at %s, use -force to overwrite", target)
		} else if !errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(out, "Existing catalog at %s is unreadable, overwriting: %v\n", target, err)
		}
	}

	if err := persister.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	fmt.Fprintf(out, "Seeded %s: %d banners, %d categories, %d products\n",
		target, len(doc.Banners), len(doc.Categories), len(doc.Products))
	return nil
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		doc := catalog.Default()
		doc.Reindex()
		return doc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return catalog.LoadFixture(f, validation.New())
}

func openPersister(cfg *config.Config) (catalog.Persister, func(), string, error) {
	if cfg.Catalog.Backend == config.CatalogBackendSQLite {
		db, err := sqlite.Open(cfg.Data.CatalogDB(), nil)
		if err != nil {
			return nil, nil, "", err
		}
		return db, func() { _ = db.Close() }, cfg.Data.CatalogDB(), nil
	}
	return store.NewDocumentFile(cfg.Data.CatalogFile()), func() {}, cfg.Data.CatalogFile(), nil
}
