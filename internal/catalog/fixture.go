package catalog

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/id"
	"github.com/proboots/storefront/internal/util"
	"github.com/proboots/storefront/internal/validation"
)

// Fixture is the hand-editable YAML form of a catalog. Prices are in reais
// (549.99) and IDs are optional.
type Fixture struct {
	Banners    []FixtureBanner   `yaml:"banners"`
	Categories []FixtureCategory `yaml:"categories"`
	Products   []FixtureProduct  `yaml:"products"`
}

type FixtureBanner struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Image  string `yaml:"image"`
	Link   string `yaml:"link"`
	Active *bool  `yaml:"active"` // default true
}

type FixtureCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

type FixtureProduct struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Price         float64  `yaml:"price"`
	OriginalPrice float64  `yaml:"original_price"`
	Discount      int      `yaml:"discount"`
	Description   string   `yaml:"description"`
	Images        []string `yaml:"images"`
	CoverImage    string   `yaml:"cover_image"`
	Category      string   `yaml:"category"`
	InStock       *bool    `yaml:"in_stock"` // default true
	Featured      bool     `yaml:"featured"`
	BestSeller    bool     `yaml:"best_seller"`
	ForYou        bool     `yaml:"for_you"`
}

// LoadFixture decodes a YAML fixture into a validated catalog document.
func LoadFixture(r io.Reader, v *validation.Validator) (*domain.Catalog, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if v == nil {
		v = validation.New()
	}
	return f.Catalog(v)
}

// Catalog converts the fixture, assigning missing IDs.
func (f *Fixture) Catalog(v *validation.Validator) (*domain.Catalog, error) {
	doc := &domain.Catalog{
		Banners:    make([]domain.Banner, 0, len(f.Banners)),
		Categories: make([]domain.Category, 0, len(f.Categories)),
		Products:   make([]domain.Product, 0, len(f.Products)),
	}

	for i, fb := range f.Banners {
		b := domain.Banner{Title: fb.Title, Image: fb.Image, Link: fb.Link, Active: boolOr(fb.Active, true)}
		if err := v.Validate(b); err != nil {
			return nil, fmt.Errorf("banner %d: %w", i, err)
		}
		bannerID, err := id.Preferred(fb.ID, id.PrefixBanner, func(c string) bool { return doc.BannerIndex(c) >= 0 })
		if err != nil {
			return nil, err
		}
		b.ID = bannerID
		doc.Banners = append(doc.Banners, b)
	}

	for i, fc := range f.Categories {
		c := domain.Category{Name: fc.Name, Image: fc.Image, Description: fc.Description}
		if err := v.Validate(c); err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		want := fc.ID
		if want == "" {
			want = util.Slugify(fc.Name)
		}
		categoryID, err := id.Preferred(want, id.PrefixCategory, func(c string) bool { return doc.CategoryIndex(c) >= 0 })
		if err != nil {
			return nil, err
		}
		c.ID = categoryID
		doc.Categories = append(doc.Categories, c)
	}

	for i, fp := range f.Products {
		if fp.Category != "" && doc.CategoryIndex(fp.Category) < 0 {
			return nil, fmt.Errorf("product %d: unknown category %q", i, fp.Category)
		}
		images := fp.Images
		if images == nil {
			images = []string{}
		}
		p := domain.Product{
			Name:          fp.Name,
			Price:         toCentavos(fp.Price),
			OriginalPrice: toCentavos(fp.OriginalPrice),
			Discount:      fp.Discount,
			Description:   fp.Description,
			Images:        images,
			CoverImage:    fp.CoverImage,
			Category:      fp.Category,
			InStock:       boolOr(fp.InStock, true),
			Featured:      fp.Featured,
			BestSeller:    fp.BestSeller,
			ForYou:        fp.ForYou,
		}
		if err := v.Validate(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		productID, err := id.Preferred(fp.ID, id.PrefixProduct, func(c string) bool { return doc.ProductIndex(c) >= 0 })
		if err != nil {
			return nil, err
		}
		p.ID = productID
		doc.Products = append(doc.Products, p)
	}

	doc.Reindex()
	return doc, nil
}

// toCentavos converts reais to minor units, rounding half away from zero.
func toCentavos(reais float64) int64 {
	return int64(math.Round(reais * 100))
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
