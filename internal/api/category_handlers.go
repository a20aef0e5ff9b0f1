package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/proboots/storefront/internal/domain"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}/products",
		Summary:     "List products in a category",
		Description: "Returns the category's products in catalog order",
		Tags:        []string{"Categories"},
	}, s.handleGetCategoryProducts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/categories",
		Summary:       "Create category",
		Description:   "The ID is derived from the name when it is free, otherwise generated",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/categories/{id}",
		Summary:     "Update category",
		Tags:        []string{"Admin"},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/categories/{id}",
		Summary:     "Delete category",
		Description: "Products in the category are kept and become uncategorized",
		Tags:        []string{"Admin"},
	}, s.handleDeleteCategory)
}

// === DTOs ===

type ListCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

type CategoryPathInput struct {
	ID string `path:"id" doc:"Category ID"`
}

type CategoryOutput struct {
	Body domain.Category
}

type CategoryProductsResponse struct {
	Category domain.Category  `json:"category"`
	Products []domain.Product `json:"products"`
}

type CategoryProductsOutput struct {
	Body CategoryProductsResponse
}

type CreateCategoryRequest struct {
	Name        string `json:"name" doc:"Display name"`
	Image       string `json:"image,omitempty" doc:"Image URL or site path"`
	Description string `json:"description,omitempty"`
}

type CreateCategoryInput struct {
	Body CreateCategoryRequest
}

type UpdateCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body domain.CategoryPatch
}

// === Handlers ===

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: s.services.Catalog.ListCategories()}}, nil
}

func (s *Server) handleGetCategory(_ context.Context, input *CategoryPathInput) (*CategoryOutput, error) {
	c, err := s.services.Catalog.GetCategory(input.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleGetCategoryProducts(_ context.Context, input *CategoryPathInput) (*CategoryProductsOutput, error) {
	c, err := s.services.Catalog.GetCategory(input.ID)
	if err != nil {
		return nil, err
	}
	products, err := s.services.Catalog.CategoryProducts(input.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryProductsOutput{Body: CategoryProductsResponse{Category: c, Products: products}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Catalog.CreateCategory(ctx, domain.Category{
		Name:        input.Body.Name,
		Image:       input.Body.Image,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Catalog.UpdateCategory(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *CategoryPathInput) (*MessageOutput, error) {
	if err := s.services.Catalog.DeleteCategory(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Category deleted"}}, nil
}
