// Package checkout turns a cart into a WhatsApp order handoff: a numbered,
// human-readable order summary percent-encoded into a wa.me link.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/errors"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/validation"
)

// EmptyCartMessage is shown when a shopper tries to check out with nothing in the cart.
const EmptyCartMessage = "Seu carrinho está vazio!"

const waBaseURL = "https://wa.me/"

// Handoff is the outbound order: the shopper's client opens URL.
type Handoff struct {
	URL       string `json:"url"`
	Message   string `json:"message"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"itemCount"`
}

// Builder renders order summaries.
type Builder struct {
	number    string
	storeName string
	money     *money.Formatter
}

// NewBuilder creates a builder sending orders to number (digits, country code included).
func NewBuilder(number, storeName string, f *money.Formatter) *Builder {
	if f == nil {
		f = money.Default()
	}
	return &Builder{number: number, storeName: strings.ToUpper(storeName), money: f}
}

// Summary renders the order transcript. Output is deterministic for a given cart.
func (b *Builder) Summary(c *domain.Cart, customer *domain.Customer) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🛒 *PEDIDO %s* 🛒\n\n", b.storeName)

	for i, item := range c.Items {
		fmt.Fprintf(&sb, "%d. *%s*\n", i+1, item.Product.Name)
		if item.Size != "" {
			fmt.Fprintf(&sb, "   Tamanho: %s\n", item.Size)
		}
		fmt.Fprintf(&sb, "   Quantidade: %d\n", item.Quantity)
		fmt.Fprintf(&sb, "   Valor: %s\n\n", b.money.Format(item.Product.Price))
	}

	fmt.Fprintf(&sb, "💰 *Total: %s*\n\n", b.money.Format(c.Total))

	if customer != nil {
		sb.WriteString("👤 *Dados do cliente*\n")
		fmt.Fprintf(&sb, "   Nome: %s\n", strings.Join(strings.Fields(customer.Name), " "))
		fmt.Fprintf(&sb, "   CPF: %s\n", MaskCPF(customer.CPF))
		fmt.Fprintf(&sb, "   Telefone: %s\n\n", MaskPhone(customer.Phone))
	}

	sb.WriteString("📋 Gostaria de finalizar este pedido!")
	return sb.String()
}

// Build validates the cart and returns the handoff link.
// The customer is optional and must already be validated.
func (b *Builder) Build(c *domain.Cart, customer *domain.Customer) (*Handoff, error) {
	if c == nil || len(c.Items) == 0 {
		return nil, errors.Validation(EmptyCartMessage)
	}
	msg := b.Summary(c, customer)
	return &Handoff{
		URL:       waBaseURL + b.number + "?text=" + EncodeURIComponent(msg),
		Message:   msg,
		Total:     c.Total,
		ItemCount: c.ItemCount,
	}, nil
}

// encodeURIComponent leaves these unescaped; url.QueryEscape does not.
var uriComponentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s the way browsers' encodeURIComponent does.
func EncodeURIComponent(s string) string {
	return uriComponentFixups.Replace(url.QueryEscape(s))
}

// MaskCPF renders 11 digits as 000.000.000-00. Other input is returned as digits.
func MaskCPF(s string) string {
	d := validation.Digits(s)
	if len(d) != 11 {
		return d
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// MaskPhone renders (00) 0000-0000 for landlines and (00) 00000-0000 for mobiles.
func MaskPhone(s string) string {
	d := validation.Digits(s)
	switch len(d) {
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:]
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:]
	default:
		return d
	}
}
