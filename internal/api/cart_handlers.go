package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/service"
)

func (s *Server) registerCartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCart",
		Method:      http.MethodGet,
		Path:        "/api/v1/cart",
		Summary:     "Get cart",
		Description: "Returns the session's cart. A missing or malformed session header starts a new session.",
		Tags:        []string{"Cart"},
	}, s.handleGetCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "addCartItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/cart/items",
		Summary:     "Add item",
		Description: "Adds a product to the cart, merging with an existing line of the same size",
		Tags:        []string{"Cart"},
	}, s.handleAddCartItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCartItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/cart/items/{productId}",
		Summary:     "Update item quantity",
		Description: "Sets the line quantity. Zero or less removes the line.",
		Tags:        []string{"Cart"},
	}, s.handleUpdateCartItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCartItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/cart/items/{productId}",
		Summary:     "Remove item",
		Tags:        []string{"Cart"},
	}, s.handleRemoveCartItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearCart",
		Method:      http.MethodDelete,
		Path:        "/api/v1/cart",
		Summary:     "Clear cart",
		Tags:        []string{"Cart"},
	}, s.handleClearCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkoutCart",
		Method:      http.MethodPost,
		Path:        "/api/v1/cart/checkout",
		Summary:     "Checkout via WhatsApp",
		Description: "Builds the order summary and the wa.me link that opens it. The cart is left as is.",
		Tags:        []string{"Cart"},
	}, s.handleCheckout)
}

// === DTOs ===

type SessionInput struct {
	Session string `header:"X-Cart-Session" doc:"Cart session ID (UUID)"`
}

type CartItemView struct {
	domain.CartItem
	FormattedPrice    string `json:"formattedPrice"`
	FormattedSubtotal string `json:"formattedSubtotal"`
}

type CartView struct {
	SessionID      string         `json:"sessionId"`
	Items          []CartItemView `json:"items"`
	Total          int64          `json:"total"`
	ItemCount      int            `json:"itemCount"`
	FormattedTotal string         `json:"formattedTotal"`
}

type CartOutput struct {
	Session string `header:"X-Cart-Session"`
	Body    CartView
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" minLength:"1" doc:"Product ID"`
	Quantity  *int   `json:"quantity,omitempty" minimum:"1" maximum:"99" doc:"Units to add, defaults to 1"`
	Size      string `json:"size,omitempty" doc:"Shoe size"`
}

type AddCartItemInput struct {
	SessionInput
	Body AddCartItemRequest
}

type UpdateCartItemRequest struct {
	Quantity int    `json:"quantity" maximum:"99" doc:"New quantity, zero or less removes the line"`
	Size     string `json:"size,omitempty" doc:"Shoe size of the line"`
}

type UpdateCartItemInput struct {
	SessionInput
	ProductID string `path:"productId" doc:"Product ID"`
	Body      UpdateCartItemRequest
}

type RemoveCartItemInput struct {
	SessionInput
	ProductID string `path:"productId" doc:"Product ID"`
	Size      string `query:"size" doc:"Shoe size of the line"`
}

type CheckoutRequest struct {
	Customer *domain.Customer `json:"customer,omitempty" doc:"Buyer details added to the order message"`
}

type CheckoutInput struct {
	SessionInput
	Body *CheckoutRequest `required:"false"`
}

type CheckoutResponse struct {
	URL            string `json:"url" doc:"wa.me link carrying the order"`
	Message        string `json:"message" doc:"Order summary text"`
	Total          int64  `json:"total"`
	ItemCount      int    `json:"itemCount"`
	FormattedTotal string `json:"formattedTotal"`
}

type CheckoutOutput struct {
	Session string `header:"X-Cart-Session"`
	Body    CheckoutResponse
}

// === Handlers ===

func (s *Server) cartOutput(sessionID string, c *domain.Cart) *CartOutput {
	view := CartView{
		SessionID:      sessionID,
		Items:          make([]CartItemView, 0, len(c.Items)),
		Total:          c.Total,
		ItemCount:      c.ItemCount,
		FormattedTotal: s.services.Money.Format(c.Total),
	}
	for _, item := range c.Items {
		view.Items = append(view.Items, CartItemView{
			CartItem:          item,
			FormattedPrice:    s.services.Money.Format(item.Product.Price),
			FormattedSubtotal: s.services.Money.Format(item.Subtotal()),
		})
	}
	return &CartOutput{Session: sessionID, Body: view}
}

func (s *Server) handleGetCart(ctx context.Context, input *SessionInput) (*CartOutput, error) {
	sessionID := service.ResolveSession(input.Session)
	c, err := s.services.Cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.cartOutput(sessionID, c), nil
}

func (s *Server) handleAddCartItem(ctx context.Context, input *AddCartItemInput) (*CartOutput, error) {
	sessionID := service.ResolveSession(input.Session)
	quantity := 1
	if input.Body.Quantity != nil {
		quantity = *input.Body.Quantity
	}
	c, err := s.services.Cart.AddItem(ctx, sessionID, input.Body.ProductID, quantity, input.Body.Size)
	if err != nil {
		return nil, err
	}
	return s.cartOutput(sessionID, c), nil
}

func (s *Server) handleUpdateCartItem(ctx context.Context, input *UpdateCartItemInput) (*CartOutput, error) {
	sessionID := service.ResolveSession(input.Session)
	c, err := s.services.Cart.UpdateQuantity(ctx, sessionID, input.ProductID, input.Body.Quantity, input.Body.Size)
	if err != nil {
		return nil, err
	}
	return s.cartOutput(sessionID, c), nil
}

func (s *Server) handleRemoveCartItem(ctx context.Context, input *RemoveCartItemInput) (*CartOutput, error) {
	sessionID := service.ResolveSession(input.Session)
	c, err := s.services.Cart.RemoveItem(ctx, sessionID, input.ProductID, input.Size)
	if err != nil {
		return nil, err
	}
	return s.cartOutput(sessionID, c), nil
}

func (s *Server) handleClearCart(ctx context.Context, input *SessionInput) (*CartOutput, error) {
	sessionID := service.ResolveSession(input.Session)
	c, err := s.services.Cart.Clear(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.cartOutput(sessionID, c), nil
}

func (s *Server) handleCheckout(ctx context.Context, input *CheckoutInput) (*CheckoutOutput, error) {
	sessionID := service.ResolveSession(input.Session)
	var customer *domain.Customer
	if input.Body != nil {
		customer = input.Body.Customer
	}
	handoff, err := s.services.Cart.Checkout(ctx, sessionID, customer)
	if err != nil {
		return nil, err
	}
	return &CheckoutOutput{
		Session: sessionID,
		Body: CheckoutResponse{
			URL:            handoff.URL,
			Message:        handoff.Message,
			Total:          handoff.Total,
			ItemCount:      handoff.ItemCount,
			FormattedTotal: s.services.Money.Format(handoff.Total),
		},
	}, nil
}
