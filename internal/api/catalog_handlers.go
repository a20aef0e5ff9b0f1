package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/proboots/storefront/internal/domain"
	domainerrors "github.com/proboots/storefront/internal/errors"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/catalog",
		Summary:     "Export catalog",
		Description: "Returns the whole catalog document",
		Tags:        []string{"Admin"},
	}, s.handleExportCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceCatalog",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/catalog",
		Summary:     "Replace catalog",
		Description: "Swaps in a whole catalog document. banners, categories and products must all be present.",
		Tags:        []string{"Admin"},
	}, s.handleReplaceCatalog)
}

// === DTOs ===

type CatalogOutput struct {
	Body *domain.Catalog
}

// ReplaceCatalogInput takes the raw document so partial or malformed uploads
// are reported with a single validation message.
type ReplaceCatalogInput struct {
	RawBody []byte
}

// === Handlers ===

func (s *Server) handleExportCatalog(_ context.Context, _ *struct{}) (*CatalogOutput, error) {
	return &CatalogOutput{Body: s.services.Catalog.Snapshot()}, nil
}

func (s *Server) handleReplaceCatalog(ctx context.Context, input *ReplaceCatalogInput) (*CatalogOutput, error) {
	var doc domain.Catalog
	if err := json.Unmarshal(input.RawBody, &doc); err != nil {
		return nil, domainerrors.Validation("Dados inválidos.").WithCause(err)
	}
	next, err := s.services.Catalog.ReplaceCatalog(ctx, &doc)
	if err != nil {
		return nil, err
	}
	return &CatalogOutput{Body: next}, nil
}
