package domain

// Shelf names a curated product listing on the storefront.
type Shelf string

// Storefront shelves.
const (
	ShelfAll        Shelf = ""
	ShelfBestSeller Shelf = "bestSeller"
	ShelfForYou     Shelf = "forYou"
	ShelfFeatured   Shelf = "featured"
)

// Valid reports whether s is a known shelf.
func (s Shelf) Valid() bool {
	switch s {
	case ShelfAll, ShelfBestSeller, ShelfForYou, ShelfFeatured:
		return true
	}
	return false
}

// ProductFilter narrows a product listing. Zero value matches everything.
type ProductFilter struct {
	Shelf       Shelf
	Category    string
	InStockOnly bool
}

// Matches reports whether p passes the filter.
func (f ProductFilter) Matches(p Product) bool {
	switch f.Shelf {
	case ShelfBestSeller:
		if !p.BestSeller {
			return false
		}
	case ShelfForYou:
		if !p.ForYou {
			return false
		}
	case ShelfFeatured:
		if !p.Featured {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return !f.InStockOnly || p.InStock
}
