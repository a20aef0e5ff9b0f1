package api

import (
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/service"
	"github.com/proboots/storefront/internal/sse"
)

// Services groups everything the handlers call.
type Services struct {
	Catalog *service.CatalogService
	Cart    *service.CartService
	Money   *money.Formatter
	SSE     *sse.Manager
}
