package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/proboots/storefront/internal/api"
	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/logger"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/service"
	"github.com/proboots/storefront/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	limiter := do.MustInvoke[*AdminLimiterHandle](i)

	services := &api.Services{
		Catalog: do.MustInvoke[*service.CatalogService](i),
		Cart:    do.MustInvoke[*service.CartService](i),
		Money:   do.MustInvoke[*money.Formatter](i),
		SSE:     sseHandle.Manager,
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Component("sse"))
	handler := api.NewServer(services, sseHandler, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AdminLimiter:   limiter.KeyedRateLimiter,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
