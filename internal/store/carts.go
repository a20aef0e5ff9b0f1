// Package store implements persistence for the storefront: the whole-document
// catalog file and the badger-backed cart session slots.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/proboots/storefront/internal/domain"
)

// CartStore keeps one JSON array of cart lines per session.
type CartStore struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// OpenCarts opens the badger database at path. An empty path opens an
// in-memory database. A zero ttl keeps carts forever.
func OpenCarts(path string, ttl time.Duration, logger *slog.Logger) (*CartStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Cart writes are durable before the request returns
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Cart database opened", "path", path, "ttl", ttl)
	}

	return &CartStore{db: db, logger: logger, ttl: ttl}, nil
}

// Close gracefully closes the database.
func (s *CartStore) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing cart database")
	}
	return s.db.Close()
}

// Ping reports whether the database is usable.
func (s *CartStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("cart database closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// LoadCart returns the session's lines. It returns ErrNotFound for an unknown
// session and ErrCorrupt when the slot cannot be decoded.
func (s *CartStore) LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []domain.CartItem
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cartKey(sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &items); err != nil {
				return ErrCorrupt.WithCause(err)
			}
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SaveCart overwrites the session's lines and refreshes its TTL.
func (s *CartStore) SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(cartKey(sessionID), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// DeleteCart removes the session's slot. Unknown sessions are not an error.
func (s *CartStore) DeleteCart(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(cartKey(sessionID))
	})
}

// putRaw writes bytes directly; tests use it to plant corrupt slots.
func (s *CartStore) putRaw(sessionID string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cartKey(sessionID), data)
	})
}
