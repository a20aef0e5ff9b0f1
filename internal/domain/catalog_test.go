package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() *Catalog {
	return &Catalog{
		Banners: []Banner{{ID: "1", Title: "Chuteiras de Campo", Image: "/banner1.png", Active: true}},
		Categories: []Category{
			{ID: "campo", Name: "Campo", ProductIDs: []string{"stale"}},
			{ID: "futsal", Name: "Futsal"},
		},
		Products: []Product{
			{ID: "1", Name: "Superfly", Price: 54999, Category: "campo", Images: []string{"/a.jpeg"}},
			{ID: "2", Name: "Phantom", Price: 48399, Category: "campo"},
			{ID: "3", Name: "TopFlex", Price: 43119, Category: ""},
		},
	}
}

func TestCatalog_Reindex(t *testing.T) {
	c := sampleCatalog()
	c.Reindex()

	assert.Equal(t, []string{"1", "2"}, c.Categories[0].ProductIDs)
	require.NotNil(t, c.Categories[1].ProductIDs)
	assert.Empty(t, c.Categories[1].ProductIDs)
}

func TestCatalog_CloneIsDeep(t *testing.T) {
	c := sampleCatalog()
	cp := c.Clone()

	cp.Products[0].Images[0] = "/changed.jpeg"
	cp.Categories[0].ProductIDs[0] = "changed"
	cp.Banners[0].Title = "changed"

	assert.Equal(t, "/a.jpeg", c.Products[0].Images[0])
	assert.Equal(t, "stale", c.Categories[0].ProductIDs[0])
	assert.Equal(t, "Chuteiras de Campo", c.Banners[0].Title)
}

func TestCatalog_Indexes(t *testing.T) {
	c := sampleCatalog()

	assert.Equal(t, 1, c.ProductIndex("2"))
	assert.Equal(t, -1, c.ProductIndex("99"))
	assert.Equal(t, 1, c.CategoryIndex("futsal"))
	assert.Equal(t, 0, c.BannerIndex("1"))
}

func TestCatalog_Complete(t *testing.T) {
	assert.True(t, sampleCatalog().Complete())
	assert.True(t, (&Catalog{Banners: []Banner{}, Categories: []Category{}, Products: []Product{}}).Complete())
	assert.False(t, (&Catalog{Banners: []Banner{}, Categories: []Category{}}).Complete())

	var nilCatalog *Catalog
	assert.False(t, nilCatalog.Complete())
}

func TestProductPatch_Apply(t *testing.T) {
	p := Product{ID: "1", Name: "Superfly", Price: 54999, InStock: true, Images: []string{"/a.jpeg"}}
	price := int64(49999)
	inStock := false
	images := []string{"/b.jpeg", "/c.jpeg"}

	ProductPatch{Price: &price, InStock: &inStock, Images: &images}.Apply(&p)

	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "Superfly", p.Name)
	assert.Equal(t, int64(49999), p.Price)
	assert.False(t, p.InStock)
	assert.Equal(t, []string{"/b.jpeg", "/c.jpeg"}, p.Images)

	images[0] = "/mutated.jpeg"
	assert.Equal(t, "/b.jpeg", p.Images[0])
}

func TestCategoryAndBannerPatch_Apply(t *testing.T) {
	c := Category{ID: "campo", Name: "Campo", ProductIDs: []string{"1"}}
	desc := "Chuteiras para gramado natural"
	CategoryPatch{Description: &desc}.Apply(&c)
	assert.Equal(t, "Campo", c.Name)
	assert.Equal(t, desc, c.Description)
	assert.Equal(t, []string{"1"}, c.ProductIDs)

	b := Banner{ID: "1", Title: "Futsal Line", Active: true}
	active := false
	BannerPatch{Active: &active}.Apply(&b)
	assert.False(t, b.Active)
	assert.Equal(t, "Futsal Line", b.Title)
}

func TestProductFilter_Matches(t *testing.T) {
	p := Product{ID: "1", Category: "campo", InStock: true, BestSeller: true}

	tests := []struct {
		name   string
		filter ProductFilter
		want   bool
	}{
		{"zero value", ProductFilter{}, true},
		{"best seller", ProductFilter{Shelf: ShelfBestSeller}, true},
		{"for you", ProductFilter{Shelf: ShelfForYou}, false},
		{"featured", ProductFilter{Shelf: ShelfFeatured}, false},
		{"category match", ProductFilter{Category: "campo"}, true},
		{"category mismatch", ProductFilter{Category: "futsal"}, false},
		{"in stock only", ProductFilter{InStockOnly: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(p))
		})
	}

	p.InStock = false
	assert.False(t, ProductFilter{InStockOnly: true}.Matches(p))
}

func TestShelf_Valid(t *testing.T) {
	assert.True(t, ShelfBestSeller.Valid())
	assert.True(t, ShelfAll.Valid())
	assert.False(t, Shelf("clearance").Valid())
}

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{Product: Product{Price: 4999}, Quantity: 3}
	assert.Equal(t, int64(14997), item.Subtotal())
}
