package domain

import "slices"

// Product is a footwear item for sale. Prices are integer minor units (centavos).
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name" validate:"required,max=200"`
	Price         int64  `json:"price" validate:"gte=0"`
	OriginalPrice int64  `json:"originalPrice,omitempty" validate:"gte=0"`
	// Discount is the percent off OriginalPrice, for display only.
	Discount    int      `json:"discount,omitempty" validate:"gte=0,lte=100"`
	Description string   `json:"description" validate:"max=5000"`
	Images      []string `json:"images" validate:"dive,imageref"`
	CoverImage  string   `json:"coverImage" validate:"required,imageref"`
	// Category is a category ID, empty when the category was deleted.
	Category   string `json:"category"`
	InStock    bool   `json:"inStock"`
	Featured   bool   `json:"featured"`
	BestSeller bool   `json:"bestSeller"`
	ForYou     bool   `json:"forYou"`
}

// Clone returns a deep copy.
func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	return p
}

// Category groups products. ProductIDs is derived from Product.Category and never set directly.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required,max=100"`
	Image       string   `json:"image" validate:"omitempty,imageref"`
	Description string   `json:"description" validate:"max=2000"`
	ProductIDs  []string `json:"productIds"`
}

// Banner is a promotional slide on the storefront home page.
type Banner struct {
	ID     string `json:"id"`
	Title  string `json:"title" validate:"required,max=200"`
	Image  string `json:"image" validate:"required,imageref"`
	Link   string `json:"link,omitempty"`
	Active bool   `json:"active"`
}

// Catalog is the whole persisted document. It is always read and written as a unit.
type Catalog struct {
	Banners    []Banner   `json:"banners"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

// Clone returns a deep copy safe to hand to readers.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Banners:    slices.Clone(c.Banners),
		Categories: make([]Category, len(c.Categories)),
		Products:   make([]Product, len(c.Products)),
	}
	for i, cat := range c.Categories {
		cat.ProductIDs = slices.Clone(cat.ProductIDs)
		out.Categories[i] = cat
	}
	for i, p := range c.Products {
		out.Products[i] = p.Clone()
	}
	if out.Banners == nil {
		out.Banners = []Banner{}
	}
	return out
}

// Reindex recomputes every category's ProductIDs from the products' category field,
// in product order.
func (c *Catalog) Reindex() {
	byCategory := make(map[string][]string, len(c.Categories))
	for _, p := range c.Products {
		if p.Category != "" {
			byCategory[p.Category] = append(byCategory[p.Category], p.ID)
		}
	}
	for i := range c.Categories {
		ids := byCategory[c.Categories[i].ID]
		if ids == nil {
			ids = []string{}
		}
		c.Categories[i].ProductIDs = ids
	}
}

// ProductIndex returns the position of the product with id, or -1.
func (c *Catalog) ProductIndex(id string) int {
	return slices.IndexFunc(c.Products, func(p Product) bool { return p.ID == id })
}

// CategoryIndex returns the position of the category with id, or -1.
func (c *Catalog) CategoryIndex(id string) int {
	return slices.IndexFunc(c.Categories, func(cat Category) bool { return cat.ID == id })
}

// BannerIndex returns the position of the banner with id, or -1.
func (c *Catalog) BannerIndex(id string) int {
	return slices.IndexFunc(c.Banners, func(b Banner) bool { return b.ID == id })
}

// Complete reports whether all three collections are present.
// A decoded document with a missing key has a nil slice there.
func (c *Catalog) Complete() bool {
	return c != nil && c.Banners != nil && c.Categories != nil && c.Products != nil
}
