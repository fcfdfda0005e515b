package shop

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the quick-view payload of a catalogue item.
type Product struct {
	ID            string
	Name          string
	SKU           string
	Brand         string
	Material      string
	ImageURL      string
	Description   string // markdown
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int
	Sizes         []string
	Colors        []string
	Rating        float64
	ReviewCount   int
}

// EffectivePrice is the discounted price when one applies, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale() {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// OnSale reports whether a positive discount price below the list price is set.
func (p Product) OnSale() bool {
	return p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsPositive() && p.DiscountPrice.Decimal.LessThan(p.Price)
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

type productPayload struct {
	ProductID       flexString          `json:"productId"`
	ID              flexString          `json:"id"`
	ProductName     string              `json:"productName"`
	Name            string              `json:"name"`
	SKU             string              `json:"sku"`
	Brand           string              `json:"brand"`
	Material        string              `json:"material"`
	ImageURL        string              `json:"imageUrl"`
	Description     string              `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	DiscountPrice   decimal.NullDecimal `json:"discountPrice"`
	StockQuantity   int                 `json:"stockQuantity"`
	Size            string              `json:"size"`
	Sizes           []string            `json:"sizes"`
	Color           string              `json:"color"`
	ColorsAvailable []string            `json:"colorsAvailable"`
	AverageRating   float64             `json:"averageRating"`
	ReviewCount     int                 `json:"reviewCount"`
}

func (p productPayload) toProduct() Product {
	id := string(p.ProductID)
	if id == "" {
		id = string(p.ID)
	}
	sizes := p.Sizes
	if len(sizes) == 0 {
		sizes = splitList(p.Size)
	}
	colors := p.ColorsAvailable
	if len(colors) == 0 {
		colors = splitList(p.Color)
	}
	return Product{
		ID:            id,
		Name:          defaultString(p.ProductName, p.Name),
		SKU:           strings.TrimSpace(p.SKU),
		Brand:         strings.TrimSpace(p.Brand),
		Material:      strings.TrimSpace(p.Material),
		ImageURL:      strings.TrimSpace(p.ImageURL),
		Description:   strings.TrimSpace(p.Description),
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Stock:         p.StockQuantity,
		Sizes:         sizes,
		Colors:        colors,
		Rating:        p.AverageRating,
		ReviewCount:   p.ReviewCount,
	}
}

// QuickView fetches the product payload shown in the quick-view modal.
func (c *Client) QuickView(ctx context.Context, productID string) (Product, error) {
	const op = "quick_view"
	productID, err := pathID(op, productID)
	if err != nil {
		return Product{}, err
	}
	raw, err := c.do(ctx, op, http.MethodGet, nil, false, "products", productID, "quick")
	if err != nil {
		return Product{}, err
	}
	var payload productPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Product{}, &Error{Op: op, Kind: KindGeneric, Err: err}
	}
	product := payload.toProduct()
	if product.ID == "" {
		product.ID = productID
	}
	return product, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return strings.TrimSpace(fallback)
	}
	return strings.TrimSpace(val)
}
