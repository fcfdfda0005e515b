// Package filter turns the product filter form into a catalogue URL.
package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// ProductsPath is the catalogue listing every filter URL points at.
const ProductsPath = "/products"

// Form is the checked state of the filter sidebar.
type Form struct {
	Gender     string
	Categories []string
	Sizes      []string
	Colors     []string
	PriceMin   string
	PriceMax   string
	Sort       string
}

// ParseForm reads the filter inputs. Repeated keys become sets in first-seen
// order; price text that is not a non-negative integer is dropped.
func ParseForm(values url.Values) Form {
	return Form{
		Gender:     strings.TrimSpace(values.Get("gender")),
		Categories: uniqueValues(values["category"]),
		Sizes:      uniqueValues(values["size"]),
		Colors:     uniqueValues(values["color"]),
		PriceMin:   price(values.Get("priceMin")),
		PriceMax:   price(values.Get("priceMax")),
		Sort:       strings.TrimSpace(values.Get("sort")),
	}
}

// Build returns the catalogue URL for form, keeping the keyword of currentURL.
// Keys are emitted as keyword, gender, category, size, color, priceMin, priceMax, sort.
func Build(currentURL string, form Form) string {
	var pairs []string
	add := func(key, value string) {
		if value == "" {
			return
		}
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	add("keyword", Keyword(currentURL))
	add("gender", form.Gender)
	for _, v := range form.Categories {
		add("category", v)
	}
	for _, v := range form.Sizes {
		add("size", v)
	}
	for _, v := range form.Colors {
		add("color", v)
	}
	add("priceMin", form.PriceMin)
	add("priceMax", form.PriceMax)
	add("sort", form.Sort)

	if len(pairs) == 0 {
		return ProductsPath
	}
	return ProductsPath + "?" + strings.Join(pairs, "&")
}

// Clear returns the unfiltered catalogue URL.
func Clear() string {
	return ProductsPath
}

// Keyword extracts the search keyword from a full or relative URL.
func Keyword(currentURL string) string {
	currentURL = strings.TrimSpace(currentURL)
	if currentURL == "" {
		return ""
	}
	u, err := url.Parse(currentURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("keyword"))
}

func uniqueValues(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func price(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
