package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proboots/storefront/internal/checkout"
	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/errors"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/store"
)

// failingCarts wraps a real store and fails writes on demand.
type failingCarts struct {
	CartStore
	failSave bool
	failLoad error
}

func (f *failingCarts) LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	if f.failLoad != nil {
		return nil, f.failLoad
	}
	return f.CartStore.LoadCart(ctx, sessionID)
}

func (f *failingCarts) SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if f.failSave {
		return stderrors.New("disk full")
	}
	return f.CartStore.SaveCart(ctx, sessionID, items)
}

type recordingObserver struct {
	mu    sync.Mutex
	carts []*domain.Cart
}

func (r *recordingObserver) CartChanged(_ string, c *domain.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, c)
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

func TestResolveSession(t *testing.T) {
	existing := uuid.NewString()
	assert.Equal(t, existing, ResolveSession(existing))
	assert.Equal(t, existing, ResolveSession("  "+existing+" "))

	minted := ResolveSession("")
	_, err := uuid.Parse(minted)
	assert.NoError(t, err)
	assert.NotEqual(t, minted, ResolveSession(""))

	_, err = uuid.Parse(ResolveSession("../../etc"))
	assert.NoError(t, err)
}

func TestCartService_AddItem(t *testing.T) {
	catalogSvc := setupCatalog(t)
	svc, _ := setupCarts(t, catalogSvc.Store())
	ctx := context.Background()
	session := uuid.NewString()

	c, err := svc.AddItem(ctx, session, "1", 2, "41")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ItemCount)
	assert.Equal(t, int64(2*54999), c.Total)

	c, err = svc.AddItem(ctx, session, "1", 1, "41")
	require.NoError(t, err)
	require.Len(t, c.Items, 1, "same product and size merge")
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.AddItem(ctx, session, "1", 1, "42")
	require.NoError(t, err)
	assert.Len(t, c.Items, 2, "different size is a new line")

	got, err := svc.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, c, got, "cart persisted across calls")
}

func TestCartService_AddItem_Errors(t *testing.T) {
	catalogSvc := setupCatalog(t)
	svc, _ := setupCarts(t, catalogSvc.Store())
	ctx := context.Background()
	session := uuid.NewString()

	_, err := svc.AddItem(ctx, session, "missing", 1, "")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	out := false
	_, err = catalogSvc.UpdateProduct(ctx, "3", domain.ProductPatch{InStock: &out})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, session, "3", 1, "")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.AddItem(ctx, session, "1", 0, "")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	c, err := svc.Get(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestCartService_SnapshotSurvivesCatalogEdit(t *testing.T) {
	catalogSvc := setupCatalog(t)
	svc, _ := setupCarts(t, catalogSvc.Store())
	ctx := context.Background()
	session := uuid.NewString()

	_, err := svc.AddItem(ctx, session, "2", 1, "")
	require.NoError(t, err)

	price := int64(1)
	_, err = catalogSvc.UpdateProduct(ctx, "2", domain.ProductPatch{Price: &price})
	require.NoError(t, err)
	require.NoError(t, catalogSvc.DeleteProduct(ctx, "2"))

	c, err := svc.Get(ctx, session)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(48399), c.Total)
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	catalogSvc := setupCatalog(t)
	svc, carts := setupCarts(t, catalogSvc.Store())
	ctx := context.Background()
	session := uuid.NewString()

	_, err := svc.AddItem(ctx, session, "1", 1, "40")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, session, "3", 2, "")
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, session, "3", 5, "")
	require.NoError(t, err)
	assert.Equal(t, 6, c.ItemCount)

	c, err = svc.UpdateQuantity(ctx, session, "1", 0, "40")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "3", c.Items[0].Product.ID)

	c, err = svc.RemoveItem(ctx, session, "3", "")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total)

	_, err = carts.LoadCart(ctx, session)
	assert.ErrorIs(t, err, store.ErrNotFound, "empty cart frees its slot")

	_, err = svc.AddItem(ctx, session, "1", 1, "")
	require.NoError(t, err)
	c, err = svc.Clear(ctx, session)
	require.NoError(t, err)
	assert.Zero(t, c.ItemCount)
}

func TestCartService_ObserversOnlyAfterSave(t *testing.T) {
	catalogSvc := setupCatalog(t)
	carts, err := store.OpenCarts("", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = carts.Close() })

	flaky := &failingCarts{CartStore: carts}
	obs := &recordingObserver{}
	builder := checkout.NewBuilder("5599985306285", "ProBoots", money.Default())
	svc := NewCartService(flaky, catalogSvc.Store(), builder, testLogger(), obs)
	ctx := context.Background()
	session := uuid.NewString()

	_, err = svc.AddItem(ctx, session, "1", 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, obs.count())

	_, err = svc.RemoveItem(ctx, session, "nope", "")
	require.NoError(t, err)
	assert.Equal(t, 1, obs.count(), "no-op does not notify")

	flaky.failSave = true
	_, err = svc.AddItem(ctx, session, "2", 1, "")
	assert.True(t, errors.Is(err, errors.ErrPersistence))
	assert.Equal(t, "could not save", err.(*errors.Error).Message)
	assert.Equal(t, 1, obs.count(), "failed save does not notify")

	flaky.failSave = false
	c, err := svc.Get(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1, "failed write left the stored cart unchanged")
}

func TestCartService_CorruptSlotStartsEmpty(t *testing.T) {
	catalogSvc := setupCatalog(t)
	carts, err := store.OpenCarts("", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = carts.Close() })

	flaky := &failingCarts{CartStore: carts, failLoad: store.ErrCorrupt.WithCause(stderrors.New("bad json"))}
	svc := NewCartService(flaky, catalogSvc.Store(), checkout.NewBuilder("5599985306285", "ProBoots", nil), testLogger())
	ctx := context.Background()
	session := uuid.NewString()

	c, err := svc.Get(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	c, err = svc.AddItem(ctx, session, "1", 1, "")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1, "a corrupt slot is overwritten by the next change")
}

func TestCartService_LoadFailure(t *testing.T) {
	catalogSvc := setupCatalog(t)
	carts, err := store.OpenCarts("", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = carts.Close() })

	svc := NewCartService(&failingCarts{CartStore: carts, failLoad: stderrors.New("connection refused")},
		catalogSvc.Store(), checkout.NewBuilder("5599985306285", "ProBoots", nil), testLogger())

	_, err = svc.Get(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, errors.ErrInternal))
}

func TestCartService_Checkout(t *testing.T) {
	catalogSvc := setupCatalog(t)
	svc, _ := setupCarts(t, catalogSvc.Store())
	ctx := context.Background()
	session := uuid.NewString()

	_, err := svc.Checkout(ctx, session, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, checkout.EmptyCartMessage, err.(*errors.Error).Message)

	_, err = svc.AddItem(ctx, session, "2", 2, "42")
	require.NoError(t, err)

	handoff, err := svc.Checkout(ctx, session, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(handoff.URL, "https://wa.me/5599985306285?text="))
	assert.Equal(t, int64(96798), handoff.Total)
	assert.Contains(t, handoff.Message, "1. *Nike Phantom GX II Elite FG*")
	assert.Contains(t, handoff.Message, "💰 *Total: R$ 967,98*")

	text, err := url.QueryUnescape(strings.TrimPrefix(handoff.URL, "https://wa.me/5599985306285?text="))
	require.NoError(t, err)
	assert.Equal(t, handoff.Message, text)

	c, err := svc.Get(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1, "checkout leaves the cart intact")
}

func TestCartService_CheckoutCustomer(t *testing.T) {
	catalogSvc := setupCatalog(t)
	svc, _ := setupCarts(t, catalogSvc.Store())
	ctx := context.Background()
	session := uuid.NewString()

	_, err := svc.AddItem(ctx, session, "1", 1, "")
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, session, &domain.Customer{Name: "Ana", CPF: "123", Phone: "1"})
	require.Error(t, err)
	var verr *errors.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, errors.CodeValidation, verr.Code)

	handoff, err := svc.Checkout(ctx, session, &domain.Customer{
		Name:  "Ana Souza",
		CPF:   "123.456.789-09",
		Phone: "(99) 98530-6285",
	})
	require.NoError(t, err)
	assert.Contains(t, handoff.Message, "CPF: 123.456.789-09")
	assert.Contains(t, handoff.Message, "Telefone: (99) 98530-6285")
}
