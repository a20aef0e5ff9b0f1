package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/checkout"
	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/logger"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/service"
	"github.com/proboots/storefront/internal/store"
	"github.com/proboots/storefront/internal/store/redis"
)

// CartStoreHandle wraps the configured cart backend with shutdown capability.
type CartStoreHandle struct {
	service.CartStore
	close func() error
}

// Shutdown implements do.Shutdownable.
func (h *CartStoreHandle) Shutdown() error {
	return h.close()
}

// ProvideCartStore provides the per-session cart store.
func ProvideCartStore(i do.Injector) (*CartStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Cart.Backend == config.CartBackendRedis {
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		defer cancel()

		carts, err := redis.Open(ctx, cfg.Cart.RedisURL, cfg.Cart.TTL, log.Component("carts"))
		if err != nil {
			return nil, err
		}
		log.Info("Cart store connected", "backend", "redis", "ttl", cfg.Cart.TTL)
		return &CartStoreHandle{CartStore: carts, close: carts.Close}, nil
	}

	carts, err := store.OpenCarts(cfg.Data.CartDir(), cfg.Cart.TTL, log.Component("carts"))
	if err != nil {
		return nil, err
	}
	log.Info("Cart store opened", "backend", "badger", "path", cfg.Data.CartDir(), "ttl", cfg.Cart.TTL)
	return &CartStoreHandle{CartStore: carts, close: carts.Close}, nil
}

// ProvideCheckoutBuilder provides the WhatsApp order builder.
func ProvideCheckoutBuilder(i do.Injector) (*checkout.Builder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	formatter := do.MustInvoke[*money.Formatter](i)
	return checkout.NewBuilder(cfg.Checkout.WhatsAppNumber, cfg.Checkout.StoreName, formatter), nil
}

// ProvideCartService provides the cart service. Cart changes are pushed to
// the session's event streams.
func ProvideCartService(i do.Injector) (*service.CartService, error) {
	cartsHandle := do.MustInvoke[*CartStoreHandle](i)
	st := do.MustInvoke[*catalog.Store](i)
	builder := do.MustInvoke[*checkout.Builder](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCartService(cartsHandle.CartStore, st, builder, log.Component("cart"), sseHandle.Manager), nil
}
