package service

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/proboots/storefront/internal/cart"
	"github.com/proboots/storefront/internal/checkout"
	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/errors"
	"github.com/proboots/storefront/internal/store"
	"github.com/proboots/storefront/internal/validation"
)

// CartStore is the per-session cart slot. Both the Badger and the Redis
// stores satisfy it.
type CartStore interface {
	LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error
	DeleteCart(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

// ProductLookup resolves catalog products for new cart lines.
type ProductLookup interface {
	Product(productID string) (domain.Product, error)
}

// sessionStripes bounds the lock table; sessions hashing to the same stripe
// simply serialize.
const sessionStripes = 64

// CartService loads a session's cart, applies one change and writes it back.
// Requests for the same session are serialized within this process.
type CartService struct {
	carts     CartStore
	products  ProductLookup
	checkout  *checkout.Builder
	validator *validation.Validator
	observers []cart.Observer
	logger    *slog.Logger

	locks [sessionStripes]sync.Mutex
}

// NewCartService creates a cart service. Observers see every cart change.
func NewCartService(carts CartStore, products ProductLookup, builder *checkout.Builder, logger *slog.Logger, observers ...cart.Observer) *CartService {
	return &CartService{
		carts:     carts,
		products:  products,
		checkout:  builder,
		validator: validation.New(),
		observers: observers,
		logger:    logger,
	}
}

// ResolveSession returns sessionID when it is a well-formed UUID, otherwise a
// freshly minted one.
func ResolveSession(sessionID string) string {
	if u, err := uuid.Parse(strings.TrimSpace(sessionID)); err == nil {
		return u.String()
	}
	return uuid.NewString()
}

// Ping reports whether the cart store is reachable.
func (s *CartService) Ping(ctx context.Context) error {
	return s.carts.Ping(ctx)
}

func (s *CartService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionStripes]
	mu.Lock()
	return mu.Unlock
}

// deferredObserver holds the latest change until the cart has been saved.
type deferredObserver struct {
	sessionID string
	latest    *domain.Cart
}

func (d *deferredObserver) CartChanged(sessionID string, c *domain.Cart) {
	d.sessionID, d.latest = sessionID, c
}

func (s *CartService) flush(d *deferredObserver) {
	if d.latest == nil {
		return
	}
	for _, o := range s.observers {
		o.CartChanged(d.sessionID, d.latest)
	}
}

// load reads the session's cart. Unknown and unreadable slots start empty.
func (s *CartService) load(ctx context.Context, sessionID string, observers ...cart.Observer) (*cart.Cart, error) {
	items, err := s.carts.LoadCart(ctx, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		items = nil
	case errors.Is(err, store.ErrCorrupt):
		s.logger.Warn("cart slot unreadable, starting empty",
			"session_id", sessionID,
			"error", errors.StorageCorrupt(err),
		)
		items = nil
	default:
		return nil, errors.Wrap(err, errors.CodeInternal, "could not load cart")
	}
	return cart.New(sessionID, items, observers...), nil
}

func (s *CartService) save(ctx context.Context, c *cart.Cart) error {
	var err error
	if c.Empty() {
		err = s.carts.DeleteCart(ctx, c.SessionID())
	} else {
		err = s.carts.SaveCart(ctx, c.SessionID(), c.Items())
	}
	if err != nil {
		s.logger.Error("cart save failed", "session_id", c.SessionID(), "error", err)
		return errors.Persistence(err)
	}
	return nil
}

// update runs fn on the session's cart and persists it when fn reports a
// change. Observers hear about the change only once it is saved.
func (s *CartService) update(ctx context.Context, sessionID string, fn func(c *cart.Cart) (bool, error)) (*domain.Cart, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	pending := &deferredObserver{}
	c, err := s.load(ctx, sessionID, pending)
	if err != nil {
		return nil, err
	}
	changed, err := fn(c)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.save(ctx, c); err != nil {
			return nil, err
		}
		s.flush(pending)
	}
	return c.Snapshot(), nil
}

// Get returns the session's cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

// AddItem snapshots a catalog product into the cart, merging with an
// existing line of the same product and size.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int, size string) (*domain.Cart, error) {
	p, err := s.products.Product(productID)
	if err != nil {
		return nil, err
	}
	if !p.InStock {
		return nil, errors.Validationf("%s está fora de estoque", p.Name)
	}
	return s.update(ctx, sessionID, func(c *cart.Cart) (bool, error) {
		if err := c.AddItem(p, quantity, strings.TrimSpace(size)); err != nil {
			return false, err
		}
		return true, nil
	})
}

// RemoveItem drops a line. Removing a missing line leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, size string) (*domain.Cart, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) (bool, error) {
		return c.RemoveItem(productID, strings.TrimSpace(size)), nil
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int, size string) (*domain.Cart, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) (bool, error) {
		return c.UpdateQuantity(productID, quantity, strings.TrimSpace(size))
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) (bool, error) {
		return c.Clear(), nil
	})
}

// Checkout builds the WhatsApp handoff for the session's cart. The customer
// block is optional; when present it must validate. The cart is left intact.
func (s *CartService) Checkout(ctx context.Context, sessionID string, customer *domain.Customer) (*checkout.Handoff, error) {
	if customer != nil {
		if err := s.validator.Validate(customer); err != nil {
			return nil, err
		}
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	handoff, err := s.checkout.Build(c.Snapshot(), customer)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order handoff built",
		"session_id", sessionID,
		"items", handoff.ItemCount,
		"total", handoff.Total,
	)
	return handoff, nil
}
