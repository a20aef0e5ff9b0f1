// Package di provides dependency injection configuration for the storefront server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/checkout"
	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/di/providers"
	"github.com/proboots/storefront/internal/logger"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/service"
	"github.com/proboots/storefront/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideMoneyFormatter)

	// Events
	do.Provide(injector, providers.ProvideSSEManager)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogPersister)
	do.Provide(injector, providers.ProvideCatalogStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCatalogService)

	// Cart layer
	do.Provide(injector, providers.ProvideCartStore)
	do.Provide(injector, providers.ProvideCheckoutBuilder)
	do.Provide(injector, providers.ProvideCartService)

	// Workers
	do.Provide(injector, providers.ProvideCatalogWatcher)
	do.Provide(injector, providers.ProvideAdminLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services.
// This triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	if _, err := do.Invoke[*money.Formatter](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	// Catalog
	if _, err := do.Invoke[*providers.CatalogPersisterHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*catalog.Store](injector)
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.CatalogService](injector)

	// Carts
	if _, err := do.Invoke[*providers.CartStoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*checkout.Builder](injector)
	_ = do.MustInvoke[*service.CartService](injector)

	// Workers
	if _, err := do.Invoke[*providers.CatalogWatcherHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.AdminLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
