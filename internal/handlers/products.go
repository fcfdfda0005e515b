package handlers

import (
	"sort"

	"github.com/shopspring/decimal"

	"clothes.vn/storefront-web/internal/filter"
	"clothes.vn/storefront-web/internal/shop"
)

// FilterProducts narrows products to the sizes, colours and price bounds of
// form and orders them by its sort key. Gender and category are matched by
// the backend listing and ignored here.
func FilterProducts(products []shop.Product, form filter.Form) []shop.Product {
	lo, hasLo := bound(form.PriceMin)
	hi, hasHi := bound(form.PriceMax)

	out := make([]shop.Product, 0, len(products))
	for _, p := range products {
		if !overlaps(p.Sizes, form.Sizes) || !overlaps(p.Colors, form.Colors) {
			continue
		}
		price := p.EffectivePrice()
		if hasLo && price.LessThan(lo) {
			continue
		}
		if hasHi && price.GreaterThan(hi) {
			continue
		}
		out = append(out, p)
	}

	switch form.Sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].EffectivePrice().LessThan(out[j].EffectivePrice()) })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].EffectivePrice().GreaterThan(out[j].EffectivePrice()) })
	case "popular":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReviewCount > out[j].ReviewCount })
	}
	return out
}

// BuildProductCards maps products onto tiles, preserving order.
func BuildProductCards(products []shop.Product, lang string) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, BuildProductCard(p, lang))
	}
	return cards
}

func overlaps(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func bound(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
