package handlers

import (
	"clothes.vn/storefront-web/internal/filter"
	"clothes.vn/storefront-web/internal/widgets"
)

// Option is one choice of a filter group.
type Option struct {
	Value   string
	Label   string
	Checked bool
}

// FilterView is the filter sidebar restored from the current catalogue URL.
type FilterView struct {
	Lang       string
	Keyword    string
	Genders    []Option
	Categories []Option
	Sizes      []Option
	Colors     []Option
	Sorts      []Option
	Price      PriceRangeView
}

var (
	filterCategories = []string{"Áo", "Quần", "Váy", "Giày", "Phụ kiện"}
	filterSizes      = []string{"S", "M", "L", "XL", "XXL"}
	filterColors     = []string{"Đen", "Trắng", "Xám", "Xanh", "Đỏ", "Hồng"}
	filterGenders    = []string{"male", "female", "unisex"}
	filterSorts      = []string{"newest", "price_asc", "price_desc", "popular"}
)

// BuildFilterView marks the options present in form. t translates label keys.
func BuildFilterView(lang, keyword string, form filter.Form, t func(key string) string) FilterView {
	view := FilterView{
		Lang:       lang,
		Keyword:    keyword,
		Categories: options(filterCategories, form.Categories, nil),
		Sizes:      options(filterSizes, form.Sizes, nil),
		Colors:     options(filterColors, form.Colors, nil),
		Genders:    options(filterGenders, []string{form.Gender}, func(v string) string { return t("filters.gender." + v) }),
		Sorts:      options(filterSorts, []string{form.Sort}, func(v string) string { return t("sort." + v) }),
	}
	view.Price = BuildPriceRange(widgets.ParsePriceRange(form.PriceMin, form.PriceMax), lang)
	return view
}

func options(values, selected []string, label func(string) string) []Option {
	chosen := make(map[string]struct{}, len(selected))
	for _, v := range selected {
		chosen[v] = struct{}{}
	}
	out := make([]Option, 0, len(values))
	for _, v := range values {
		_, checked := chosen[v]
		l := v
		if label != nil {
			l = label(v)
		}
		out = append(out, Option{Value: v, Label: l, Checked: checked})
	}
	return out
}
