package handlers

import (
	"html/template"

	"clothes.vn/storefront-web/internal/format"
	"clothes.vn/storefront-web/internal/shop"
	"clothes.vn/storefront-web/internal/widgets"
)

// ProductCard is a product tile with its wishlist and compare controls.
type ProductCard struct {
	ID        string
	Name      string
	Brand     string
	Image     string
	Price     string
	ListPrice string // set only when the product is on sale
	InStock   bool
	Sizes     []string
	Colors    []string
	Wishlist  WishlistButton
	Compare   CompareButton
}

// WishlistButton renders the heart toggle from backend-reported state.
type WishlistButton struct {
	Lang      string
	ProductID string
	Added     bool
}

type CompareButton struct {
	Lang      string
	ProductID string
}

// BuildProductCard maps a backend product onto its tile.
func BuildProductCard(p shop.Product, lang string) ProductCard {
	card := ProductCard{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Image:    p.ImageURL,
		Price:    format.Price(p.EffectivePrice(), lang),
		InStock:  p.InStock(),
		Sizes:    p.Sizes,
		Colors:   p.Colors,
		Wishlist: WishlistButton{Lang: lang, ProductID: p.ID},
		Compare:  CompareButton{Lang: lang, ProductID: p.ID},
	}
	if p.OnSale() {
		card.ListPrice = format.Price(p.Price, lang)
	}
	return card
}

// QtyInput is the quantity stepper fragment.
type QtyInput struct {
	ID     string
	ItemID string // cart line updated on change; empty for add-to-cart forms
	Value  int
	Max    int
}

// QuickView is the quick-view modal body.
type QuickView struct {
	Lang        string
	Card        ProductCard
	Description template.HTML
	Qty         QtyInput
}

// CompareView lists the compared products in insertion order.
type CompareView struct {
	Items []ProductCard
}

// PriceRangeView is the price slider fragment.
type PriceRangeView struct {
	Floor   int64
	Ceiling int64
	Step    int64
	Range   widgets.PriceRange
	Label   string
}

// BuildPriceRange renders r for lang.
func BuildPriceRange(r widgets.PriceRange, lang string) PriceRangeView {
	return PriceRangeView{
		Floor:   widgets.PriceFloor,
		Ceiling: widgets.PriceCeiling,
		Step:    widgets.PriceStep,
		Range:   r,
		Label:   r.Label(lang),
	}
}

// ConfirmDialog asks before a destructive action posts to Action.
type ConfirmDialog struct {
	Lang   string
	Action string
}
