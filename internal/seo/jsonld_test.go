package seo

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"clothes.vn/storefront-web/internal/shop"
)

func TestProductOfferUsesEffectivePrice(t *testing.T) {
	p := shop.Product{
		ID:            "2",
		Name:          "Quần jean",
		SKU:           "QJ-002",
		Brand:         "Clothes VN",
		Price:         decimal.NewFromInt(549000),
		DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(459000)),
		Stock:         0,
		Rating:        4.2,
		ReviewCount:   12,
	}
	m := Product(p)
	offer := m["offers"].(map[string]any)
	require.Equal(t, "459000", offer["price"])
	require.Equal(t, "VND", offer["priceCurrency"])
	require.Equal(t, "https://schema.org/OutOfStock", offer["availability"])
	require.Equal(t, "QJ-002", m["sku"])
	require.Contains(t, m, "aggregateRating")
}

func TestJSONCannotCloseScript(t *testing.T) {
	out := JSON(map[string]string{"name": "</script><b>"})
	require.NotContains(t, string(out), "</script>")

	var back map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	require.Equal(t, "</script><b>", back["name"])
}

func TestWebSiteSearchTargetsCatalogue(t *testing.T) {
	m := WebSite("Clothes Shop", "https://shop.example/")
	action := m["potentialAction"].(map[string]any)
	require.Equal(t, "https://shop.example/products?keyword={search_term_string}", action["target"])
	require.NotContains(t, WebSite("Clothes Shop", ""), "potentialAction")
}

func TestItemListKeepsOrder(t *testing.T) {
	m := ItemList([]shop.Product{{ID: "3", Name: "C"}, {ID: "1", Name: "A"}})
	items := m["itemListElement"].([]map[string]any)
	require.Len(t, items, 2)
	require.Equal(t, 1, items[0]["position"])
	require.Equal(t, "C", items[0]["item"].(map[string]any)["name"])
	require.NotContains(t, items[0]["item"], "@context")

	crumbs := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "https://shop.example/"}})
	require.Len(t, crumbs["itemListElement"], 1)
}
