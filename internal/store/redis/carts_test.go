package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/store"
)

func setupCartStore(t *testing.T, ttl time.Duration) (*CartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), "redis://"+mr.Addr()+"/0", ttl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestKey(t *testing.T) {
	assert.Equal(t, "proboots:cart:abc", Key("abc"))
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open(context.Background(), "not-a-redis-url", time.Hour, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")
}

func TestOpen_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, "redis://127.0.0.1:1/0", time.Hour, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestCartStore_UnknownSession(t *testing.T) {
	s, _ := setupCartStore(t, time.Hour)

	_, err := s.LoadCart(context.Background(), "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCartStore_SaveLoad(t *testing.T) {
	s, mr := setupCartStore(t, time.Hour)
	ctx := context.Background()

	items := []domain.CartItem{
		{Product: domain.Product{ID: "1", Name: "Superfly", Price: 54999, Images: []string{}}, Quantity: 2, Size: "41"},
	}
	require.NoError(t, s.SaveCart(ctx, "s1", items))
	assert.True(t, mr.Exists(Key("s1")))

	got, err := s.LoadCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, items, got)

	_, err = s.LoadCart(ctx, "s2")
	assert.True(t, errors.Is(err, store.ErrNotFound), "sessions are isolated")
}

func TestCartStore_SaveEmptyCart(t *testing.T) {
	s, mr := setupCartStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.SaveCart(ctx, "s1", nil))

	raw, err := mr.Get(Key("s1"))
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	got, err := s.LoadCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCartStore_CorruptValue(t *testing.T) {
	s, mr := setupCartStore(t, time.Hour)

	require.NoError(t, mr.Set(Key("s1"), "{not json"))

	_, err := s.LoadCart(context.Background(), "s1")
	assert.True(t, errors.Is(err, store.ErrCorrupt))
}

func TestCartStore_SaveRefreshesTTL(t *testing.T) {
	ttl := time.Hour
	s, mr := setupCartStore(t, ttl)
	ctx := context.Background()
	items := []domain.CartItem{{Product: domain.Product{ID: "1", Images: []string{}}, Quantity: 1}}

	require.NoError(t, s.SaveCart(ctx, "s1", items))
	assert.Equal(t, ttl, mr.TTL(Key("s1")))

	mr.FastForward(40 * time.Minute)
	assert.Equal(t, 20*time.Minute, mr.TTL(Key("s1")))

	require.NoError(t, s.SaveCart(ctx, "s1", items))
	assert.Equal(t, ttl, mr.TTL(Key("s1")), "a save restarts the expiry")

	mr.FastForward(ttl + time.Second)
	_, err := s.LoadCart(ctx, "s1")
	assert.True(t, errors.Is(err, store.ErrNotFound), "expired carts are gone")
}

func TestCartStore_ZeroTTLNeverExpires(t *testing.T) {
	s, mr := setupCartStore(t, 0)

	require.NoError(t, s.SaveCart(context.Background(), "s1", []domain.CartItem{{Quantity: 1}}))
	assert.Zero(t, mr.TTL(Key("s1")))
}

func TestCartStore_Delete(t *testing.T) {
	s, mr := setupCartStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.SaveCart(ctx, "s1", []domain.CartItem{{Quantity: 1}}))
	require.NoError(t, s.DeleteCart(ctx, "s1"))
	require.NoError(t, s.DeleteCart(ctx, "never-existed"))

	assert.False(t, mr.Exists(Key("s1")))
	_, err := s.LoadCart(ctx, "s1")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCartStore_PingAfterServerLoss(t *testing.T) {
	s, mr := setupCartStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	mr.Close()
	assert.Error(t, s.Ping(ctx))

	_, err := s.LoadCart(ctx, "s1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound), "a lost server is not an empty cart")
}
