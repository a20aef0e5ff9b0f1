package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/logger"
	"github.com/proboots/storefront/internal/search"
	"github.com/proboots/storefront/internal/service"
	"github.com/proboots/storefront/internal/store"
	"github.com/proboots/storefront/internal/store/sqlite"
	"github.com/proboots/storefront/internal/validation"
)

// CatalogPersisterHandle wraps the configured catalog backend.
type CatalogPersisterHandle struct {
	catalog.Persister
	// Path is the watched file, empty for backends without one.
	Path  string
	close func() error
}

// Shutdown implements do.Shutdownable.
func (h *CatalogPersisterHandle) Shutdown() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// ProvideCatalogPersister provides the durable catalog document backend.
func ProvideCatalogPersister(i do.Injector) (*CatalogPersisterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Catalog.Backend == config.CatalogBackendSQLite {
		db, err := sqlite.Open(cfg.Data.CatalogDB(), log.Component("catalog-db"))
		if err != nil {
			return nil, err
		}
		return &CatalogPersisterHandle{Persister: db, close: db.Close}, nil
	}

	file := store.NewDocumentFile(cfg.Data.CatalogFile())
	log.Info("Catalog file backend", "path", file.Path())
	return &CatalogPersisterHandle{Persister: file, Path: file.Path()}, nil
}

// ProvideCatalogStore loads the catalog, seeding defaults on first run.
func ProvideCatalogStore(i do.Injector) (*catalog.Store, error) {
	persister := do.MustInvoke[*CatalogPersisterHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	st := catalog.Open(context.Background(), persister.Persister, v, log.Component("catalog"))
	doc := st.Snapshot()
	log.Info("Catalog loaded",
		"banners", len(doc.Banners),
		"categories", len(doc.Categories),
		"products", len(doc.Products),
	)
	return st, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.ProductIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve product index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewProductIndex(log.Component("search"))
	if err != nil {
		return nil, err
	}
	return &SearchIndexHandle{ProductIndex: index}, nil
}

// ProvideCatalogService provides the catalog service and keeps the index and
// event stream in step with catalog changes.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	st := do.MustInvoke[*catalog.Store](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewCatalogService(st, indexHandle.ProductIndex, log.Logger)
	st.OnChange(sseHandle.CatalogChanged)

	count, _ := indexHandle.DocumentCount()
	log.Info("Search index built", "documents", count)

	return svc, nil
}
