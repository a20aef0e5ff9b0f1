// Package search provides product search using an in-memory Bleve index that
// is rebuilt from the catalog after every change.
package search

import (
	"strings"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/util"
)

// ProductDocument is the indexed form of a product. Text fields are
// accent-folded so "precisao" finds "precisão".
type ProductDocument struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`      // Category ID, exact match
	CategoryName string `json:"category_name"` // Searchable display name
	InStock      bool   `json:"in_stock"`
}

// NewProductDocument builds a document; categoryName may be empty.
func NewProductDocument(p domain.Product, categoryName string) *ProductDocument {
	return &ProductDocument{
		ID:           p.ID,
		Name:         fold(p.Name),
		Description:  fold(p.Description),
		Category:     p.Category,
		CategoryName: fold(categoryName),
		InStock:      p.InStock,
	}
}

// ToMap converts the document so field names match the mapping.
func (d *ProductDocument) ToMap() map[string]any {
	return map[string]any{
		"id":            d.ID,
		"name":          d.Name,
		"description":   d.Description,
		"category":      d.Category,
		"category_name": d.CategoryName,
		"in_stock":      d.InStock,
	}
}

// DocumentsFor builds one document per product in the catalog.
func DocumentsFor(doc *domain.Catalog) []*ProductDocument {
	names := make(map[string]string, len(doc.Categories))
	for _, c := range doc.Categories {
		names[c.ID] = c.Name
	}
	out := make([]*ProductDocument, 0, len(doc.Products))
	for _, p := range doc.Products {
		out = append(out, NewProductDocument(p, names[p.Category]))
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(util.FoldAccents(s))
}
