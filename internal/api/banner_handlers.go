package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/proboots/storefront/internal/domain"
)

func (s *Server) registerBannerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBanners",
		Method:      http.MethodGet,
		Path:        "/api/v1/banners",
		Summary:     "List active banners",
		Description: "Returns the banners shown on the home page carousel",
		Tags:        []string{"Banners"},
	}, s.handleListBanners)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListBanners",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/banners",
		Summary:     "List all banners",
		Description: "Returns every banner, active or not",
		Tags:        []string{"Admin"},
	}, s.handleAdminListBanners)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBanner",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/banners",
		Summary:       "Create banner",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBanner)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBanner",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/banners/{id}",
		Summary:     "Update banner",
		Description: "Merges the given fields onto the banner",
		Tags:        []string{"Admin"},
	}, s.handleUpdateBanner)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBanner",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/banners/{id}",
		Summary:     "Delete banner",
		Tags:        []string{"Admin"},
	}, s.handleDeleteBanner)
}

// === DTOs ===

type ListBannersResponse struct {
	Banners []domain.Banner `json:"banners" doc:"Banners in display order"`
}

type ListBannersOutput struct {
	Body ListBannersResponse
}

type CreateBannerRequest struct {
	Title  string `json:"title" doc:"Banner title"`
	Image  string `json:"image" doc:"Image URL or site path"`
	Link   string `json:"link,omitempty" doc:"Click-through link"`
	Active bool   `json:"active,omitempty" doc:"Shown on the storefront"`
}

type CreateBannerInput struct {
	Body CreateBannerRequest
}

type BannerOutput struct {
	Body domain.Banner
}

type UpdateBannerInput struct {
	ID   string `path:"id" doc:"Banner ID"`
	Body domain.BannerPatch
}

type DeleteBannerInput struct {
	ID string `path:"id" doc:"Banner ID"`
}

// === Handlers ===

func (s *Server) handleListBanners(_ context.Context, _ *struct{}) (*ListBannersOutput, error) {
	return &ListBannersOutput{Body: ListBannersResponse{Banners: s.services.Catalog.ListBanners(false)}}, nil
}

func (s *Server) handleAdminListBanners(_ context.Context, _ *struct{}) (*ListBannersOutput, error) {
	return &ListBannersOutput{Body: ListBannersResponse{Banners: s.services.Catalog.ListBanners(true)}}, nil
}

func (s *Server) handleCreateBanner(ctx context.Context, input *CreateBannerInput) (*BannerOutput, error) {
	b, err := s.services.Catalog.CreateBanner(ctx, domain.Banner{
		Title:  input.Body.Title,
		Image:  input.Body.Image,
		Link:   input.Body.Link,
		Active: input.Body.Active,
	})
	if err != nil {
		return nil, err
	}
	return &BannerOutput{Body: b}, nil
}

func (s *Server) handleUpdateBanner(ctx context.Context, input *UpdateBannerInput) (*BannerOutput, error) {
	b, err := s.services.Catalog.UpdateBanner(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BannerOutput{Body: b}, nil
}

func (s *Server) handleDeleteBanner(ctx context.Context, input *DeleteBannerInput) (*MessageOutput, error) {
	if err := s.services.Catalog.DeleteBanner(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Banner deleted"}}, nil
}
