package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proboots/storefront/internal/catalog"
	"github.com/proboots/storefront/internal/checkout"
	"github.com/proboots/storefront/internal/http/response"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/ratelimit"
	"github.com/proboots/storefront/internal/search"
	"github.com/proboots/storefront/internal/service"
	"github.com/proboots/storefront/internal/sse"
	"github.com/proboots/storefront/internal/store"
)

// setupTestServer creates a test server over the default catalog and an
// in-memory cart store.
func setupTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	return setupTestServerWithCatalog(t, opts, store.NewDocumentFile(filepath.Join(t.TempDir(), "catalog.json")))
}

// setupTestServerWithCatalog is setupTestServer over the given catalog backend.
func setupTestServerWithCatalog(t *testing.T, opts Options, persister catalog.Persister) *Server {
	t.Helper()
	ctx := context.Background()

	// No-op logger for tests.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sseManager := sse.NewManager(logger)
	sseHandler := sse.NewHandler(sseManager, logger)

	catalogStore := catalog.Open(ctx, persister, nil, logger)
	index, err := search.NewProductIndex(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	carts, err := store.OpenCarts("", 0, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = carts.Close() })

	formatter := money.Default()
	catalogService := service.NewCatalogService(catalogStore, index, logger)
	cartService := service.NewCartService(carts, catalogStore,
		checkout.NewBuilder("5599985306285", "ProBoots", formatter), logger, sseManager)

	return NewServer(&Services{
		Catalog: catalogService,
		Cart:    cartService,
		Money:   formatter,
		SSE:     sseManager,
	}, sseHandler, opts, logger)
}

// doRequest sends a JSON request through the full router.
func doRequest(t *testing.T, s *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors response.Envelope with raw data for typed decoding.
type envelope struct {
	Version int                 `json:"v"`
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

// decodeData unwraps a successful envelope into T.
func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, "body: %s", rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// newLimiter returns a limiter that allows burst requests and then refuses.
func newLimiter(t *testing.T, burst int) *ratelimit.KeyedRateLimiter {
	t.Helper()
	l := ratelimit.New(0.0001, burst)
	t.Cleanup(l.Stop)
	return l
}
