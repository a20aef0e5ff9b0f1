package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/logger"
	"github.com/proboots/storefront/internal/ratelimit"
	"github.com/proboots/storefront/internal/watcher"
)

// CatalogWatcherHandle wraps the catalog file watcher with shutdown capability.
// Watcher is nil when watching is disabled.
type CatalogWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CatalogWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideCatalogWatcher reloads the catalog when its file is edited by hand.
func ProvideCatalogWatcher(i do.Injector) (*CatalogWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	persister := do.MustInvoke[*CatalogPersisterHandle](i)
	st := do.MustInvoke[*catalog.Store](i)

	if !cfg.Catalog.Watch || persister.Path == "" {
		log.Info("Catalog file watching disabled")
		return &CatalogWatcherHandle{}, nil
	}

	wlog := log.Component("watcher")
	w, err := watcher.New(wlog, persister.Path, watcher.Options{IgnoreHidden: true})
	if err != nil {
		return nil, err
	}

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go watcher.NewReloader(w, st.Reload, wlog).Run(ctx)

	return &CatalogWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}

// AdminLimiterHandle wraps the admin rate limiter with shutdown capability.
type AdminLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *AdminLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideAdminLimiter provides the per-client limiter for admin routes.
// A non-positive rate disables limiting.
func ProvideAdminLimiter(i do.Injector) (*AdminLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Admin.RateLimit <= 0 {
		log.Info("Admin rate limiting disabled")
		return &AdminLimiterHandle{}, nil
	}
	return &AdminLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Admin.RateLimit, cfg.Admin.RateBurst),
	}, nil
}
