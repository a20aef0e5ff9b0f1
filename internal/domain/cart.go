package domain

// CartItem is one line of a cart. Product is a snapshot taken when the line was added,
// so later catalog edits do not reprice an open cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
}

// Subtotal is price times quantity in minor units.
func (i CartItem) Subtotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}

// Cart is a shopper's cart. Total and ItemCount are derived from Items.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// Customer holds optional buyer details attached to an order handoff.
type Customer struct {
	Name  string `json:"name" validate:"required,fullname,max=120"`
	CPF   string `json:"cpf" validate:"required,cpf"`
	Phone string `json:"phone" validate:"required,brphone"`
}
