package catalog

import "github.com/proboots/storefront/internal/domain"

const assetBase = "https://ext.same-assets.com/4023899342/"

// Default returns the catalog a fresh installation starts with.
func Default() *domain.Catalog {
	c := &domain.Catalog{
		Banners: []domain.Banner{
			{ID: "1", Title: "Chuteiras de Campo", Image: assetBase + "1707337737.jpeg", Active: true},
			{ID: "2", Title: "Society Collection", Image: assetBase + "1504921622.jpeg", Active: true},
			{ID: "3", Title: "Futsal Line", Image: assetBase + "929125204.jpeg", Active: true},
		},
		Categories: []domain.Category{
			{ID: "campo", Name: "Campo", Image: "/banner3.png", Description: "Chuteiras para futebol de campo"},
			{ID: "society", Name: "Society", Image: "/banner5.png", Description: "Chuteiras para futebol society"},
			{ID: "futsal", Name: "Futsal", Image: "/banner1.png", Description: "Chuteiras para futsal"},
			{ID: "brindes", Name: "Chuteira + Brindes", Image: "/banner4.png", Description: "Combos especiais de chuteiras com brindes"},
			{ID: "acessorios", Name: "Acessórios", Image: "/banner2.png", Description: "Luvas, meiões, bolsas e mais"},
			{ID: "trava-mista", Name: "Trava Mista", Image: "/banner6.png", Description: "Chuteiras para campos macios ou úmidos"},
		},
		Products: []domain.Product{
			{
				ID:            "1",
				Name:          "Nike Mercurial Air Zoom Superfly X Elite FG",
				Price:         54999,
				OriginalPrice: 179900,
				Discount:      69,
				Description:   "Chuteira de campo profissional com tecnologia Nike Air Zoom",
				Images:        []string{assetBase + "3098715259.jpeg", assetBase + "96348537.jpeg"},
				CoverImage:    assetBase + "3098715259.jpeg",
				Category:      "campo",
				InStock:       true,
				Featured:      true,
				BestSeller:    true,
			},
			{
				ID:            "2",
				Name:          "Nike Phantom GX II Elite FG",
				Price:         48399,
				OriginalPrice: 179900,
				Discount:      69,
				Description:   "Chuteira elite para controle e precisão máxima",
				Images:        []string{assetBase + "2762738962.jpeg", assetBase + "3966987016.jpeg"},
				CoverImage:    assetBase + "2762738962.jpeg",
				Category:      "campo",
				InStock:       true,
				Featured:      true,
				BestSeller:    true,
				ForYou:        true,
			},
			{
				ID:            "3",
				Name:          "Joma TopFlex Rebound",
				Price:         43119,
				OriginalPrice: 9799,
				Discount:      51,
				Description:   "Chuteira com excelente custo-benefício",
				Images:        []string{assetBase + "229197584.jpeg"},
				CoverImage:    assetBase + "229197584.jpeg",
				Category:      "society",
				InStock:       true,
				ForYou:        true,
			},
		},
	}
	c.Reindex()
	return c
}
