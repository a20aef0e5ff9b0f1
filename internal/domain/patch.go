package domain

import "slices"

// ProductPatch is a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price         *int64    `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice *int64    `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      *int      `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Images        *[]string `json:"images,omitempty" validate:"omitempty,dive,imageref"`
	CoverImage    *string   `json:"coverImage,omitempty" validate:"omitempty,imageref"`
	Category      *string   `json:"category,omitempty"`
	InStock       *bool     `json:"inStock,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
	BestSeller    *bool     `json:"bestSeller,omitempty"`
	ForYou        *bool     `json:"forYou,omitempty"`
}

// Apply merges the patch onto p.
func (pp ProductPatch) Apply(p *Product) {
	setIf(&p.Name, pp.Name)
	setIf(&p.Price, pp.Price)
	setIf(&p.OriginalPrice, pp.OriginalPrice)
	setIf(&p.Discount, pp.Discount)
	setIf(&p.Description, pp.Description)
	setIf(&p.CoverImage, pp.CoverImage)
	setIf(&p.Category, pp.Category)
	setIf(&p.InStock, pp.InStock)
	setIf(&p.Featured, pp.Featured)
	setIf(&p.BestSeller, pp.BestSeller)
	setIf(&p.ForYou, pp.ForYou)
	if pp.Images != nil {
		p.Images = slices.Clone(*pp.Images)
	}
}

// CategoryPatch is a partial update. ProductIDs is derived and cannot be patched.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Image       *string `json:"image,omitempty" validate:"omitempty,imageref"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// Apply merges the patch onto c.
func (cp CategoryPatch) Apply(c *Category) {
	setIf(&c.Name, cp.Name)
	setIf(&c.Image, cp.Image)
	setIf(&c.Description, cp.Description)
}

// BannerPatch is a partial update.
type BannerPatch struct {
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Image  *string `json:"image,omitempty" validate:"omitempty,imageref"`
	Link   *string `json:"link,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Apply merges the patch onto b.
func (bp BannerPatch) Apply(b *Banner) {
	setIf(&b.Title, bp.Title)
	setIf(&b.Image, bp.Image)
	setIf(&b.Link, bp.Link)
	setIf(&b.Active, bp.Active)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
