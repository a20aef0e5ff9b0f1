// Package redis stores cart sessions in Redis, for deployments running more
// than one storefront process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/store"
)

const keyPrefix = "proboots:cart:"

// CartStore keeps one JSON array of cart lines per session key.
type CartStore struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Open connects to redisURL and verifies the connection.
func Open(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*CartStore, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger != nil {
		logger.Info("Cart store connected to Redis", "addr", opt.Addr, "db", opt.DB)
	}
	return &CartStore{client: client, ttl: ttl, logger: logger}, nil
}

// Key returns the Redis key for a session.
func Key(sessionID string) string {
	return keyPrefix + sessionID
}

// Close closes the client.
func (s *CartStore) Close() error {
	return s.client.Close()
}

// Ping reports whether Redis answers.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// LoadCart returns store.ErrNotFound for unknown sessions and store.ErrCorrupt
// for undecodable values.
func (s *CartStore) LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	data, err := s.client.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, store.ErrCorrupt.WithCause(err)
	}
	return items, nil
}

// SaveCart overwrites the session's lines and refreshes the expiry.
func (s *CartStore) SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, Key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

// DeleteCart removes the session's key.
func (s *CartStore) DeleteCart(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, Key(sessionID)).Err()
}
