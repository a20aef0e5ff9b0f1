package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/search"
	"github.com/proboots/storefront/internal/service"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Lists products, optionally narrowed to a shelf (bestSeller, forYou, featured) or category",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/search",
		Summary:     "Search products",
		Description: "Full-text search over name, category and description. Accents and case are ignored.",
		Tags:        []string{"Products"},
	}, s.handleSearchProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProduct",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get product",
		Tags:        []string{"Products"},
	}, s.handleGetProduct)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProduct",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/products",
		Summary:       "Create product",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProduct",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/products/{id}",
		Summary:     "Update product",
		Description: "Merges the given fields onto the product",
		Tags:        []string{"Admin"},
	}, s.handleUpdateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProduct",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/products/{id}",
		Summary:     "Delete product",
		Tags:        []string{"Admin"},
	}, s.handleDeleteProduct)
}

// === DTOs ===

type ListProductsInput struct {
	Shelf       string `query:"shelf" doc:"Shelf filter: bestSeller, forYou or featured"`
	Category    string `query:"category" doc:"Category ID filter"`
	InStockOnly bool   `query:"inStock" doc:"Only products in stock"`
}

type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

type ListProductsOutput struct {
	Body ListProductsResponse
}

type SearchProductsInput struct {
	Query       string `query:"q" doc:"Search text"`
	Category    string `query:"category" doc:"Category ID filter"`
	InStockOnly bool   `query:"inStock" doc:"Only products in stock"`
	Limit       int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Results per page"`
	Offset      int    `query:"offset" default:"0" minimum:"0" doc:"Results to skip"`
}

type SearchProductsOutput struct {
	Body service.SearchResult
}

type ProductPathInput struct {
	ID string `path:"id" doc:"Product ID"`
}

type ProductOutput struct {
	Body domain.Product
}

type CreateProductRequest struct {
	Name          string   `json:"name" doc:"Display name"`
	Price         int64    `json:"price" doc:"Price in centavos"`
	OriginalPrice int64    `json:"originalPrice,omitempty" doc:"Price before discount, in centavos"`
	Discount      int      `json:"discount,omitempty" doc:"Percent off the original price"`
	Description   string   `json:"description,omitempty"`
	Images        []string `json:"images,omitempty" doc:"Gallery image URLs or site paths"`
	CoverImage    string   `json:"coverImage" doc:"Cover image URL or site path"`
	Category      string   `json:"category,omitempty" doc:"Category ID"`
	InStock       bool     `json:"inStock,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
	BestSeller    bool     `json:"bestSeller,omitempty"`
	ForYou        bool     `json:"forYou,omitempty"`
}

type CreateProductInput struct {
	Body CreateProductRequest
}

type UpdateProductInput struct {
	ID   string `path:"id" doc:"Product ID"`
	Body domain.ProductPatch
}

// === Handlers ===

func (s *Server) handleListProducts(_ context.Context, input *ListProductsInput) (*ListProductsOutput, error) {
	products, err := s.services.Catalog.ListProducts(domain.ProductFilter{
		Shelf:       domain.Shelf(input.Shelf),
		Category:    input.Category,
		InStockOnly: input.InStockOnly,
	})
	if err != nil {
		return nil, err
	}
	return &ListProductsOutput{Body: ListProductsResponse{Products: products, Total: len(products)}}, nil
}

func (s *Server) handleSearchProducts(ctx context.Context, input *SearchProductsInput) (*SearchProductsOutput, error) {
	result := s.services.Catalog.SearchProducts(ctx, search.Params{
		Query:       input.Query,
		Category:    input.Category,
		InStockOnly: input.InStockOnly,
		Limit:       input.Limit,
		Offset:      input.Offset,
	})
	return &SearchProductsOutput{Body: *result}, nil
}

func (s *Server) handleGetProduct(_ context.Context, input *ProductPathInput) (*ProductOutput, error) {
	p, err := s.services.Catalog.GetProduct(input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}

func (s *Server) handleCreateProduct(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
	req := input.Body
	images := req.Images
	if images == nil {
		images = []string{}
	}
	p, err := s.services.Catalog.CreateProduct(ctx, domain.Product{
		Name:          req.Name,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Description:   req.Description,
		Images:        images,
		CoverImage:    req.CoverImage,
		Category:      req.Category,
		InStock:       req.InStock,
		Featured:      req.Featured,
		BestSeller:    req.BestSeller,
		ForYou:        req.ForYou,
	})
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}

func (s *Server) handleUpdateProduct(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
	p, err := s.services.Catalog.UpdateProduct(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}

func (s *Server) handleDeleteProduct(ctx context.Context, input *ProductPathInput) (*MessageOutput, error) {
	if err := s.services.Catalog.DeleteProduct(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Product deleted"}}, nil
}
