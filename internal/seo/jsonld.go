// Package seo builds schema.org structured data for storefront pages.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"

	"clothes.vn/storefront-web/internal/filter"
	"clothes.vn/storefront-web/internal/shop"
)

const (
	schemaContext = "https://schema.org"
	currency      = "VND"
)

// JSON marshals v for a <script type="application/ld+json"> block. It returns
// an empty value on error. encoding/json escapes <, > and & so the output
// cannot close the script element.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// WebSite describes the shop with a SearchAction pointing at the catalogue keyword search.
func WebSite(name, baseURL string) map[string]any {
	base := strings.TrimRight(baseURL, "/")
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if base != "" {
		m["url"] = base + "/"
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      base + filter.ProductsPath + "?keyword={search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Product describes p with a single offer at its effective price.
func Product(p shop.Product) map[string]any {
	availability := schemaContext + "/OutOfStock"
	if p.InStock() {
		availability = schemaContext + "/InStock"
	}
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "Product",
		"name":     p.Name,
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         p.EffectivePrice().StringFixed(0),
			"priceCurrency": currency,
			"availability":  availability,
		},
	}
	if p.SKU != "" {
		m["sku"] = p.SKU
	}
	if p.ImageURL != "" {
		m["image"] = p.ImageURL
	}
	if p.Brand != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": p.Brand}
	}
	if p.ReviewCount > 0 {
		m["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": p.Rating,
			"reviewCount": p.ReviewCount,
		}
	}
	return m
}

// ItemList lists products in display order.
func ItemList(products []shop.Product) map[string]any {
	el := make([]map[string]any, 0, len(products))
	for i, p := range products {
		item := Product(p)
		delete(item, "@context")
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "ItemList",
		"itemListElement": el,
	}
}
