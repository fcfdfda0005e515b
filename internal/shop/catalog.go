package shop

import "github.com/shopspring/decimal"

// DemoProductIDs lists the catalogue of the in-memory backend. It is empty
// when the client talks to a real backend.
func (c *Client) DemoProductIDs() []string {
	if c == nil || c.fake == nil {
		return nil
	}
	return c.fake.productIDs()
}

func demoProducts() map[string]productPayload {
	items := []productPayload{
		{
			ProductID:       "1",
			ProductName:     "Áo thun cotton basic",
			SKU:             "AT-001",
			Brand:           "Clothes VN",
			Material:        "Cotton 100%",
			ImageURL:        "/static/img/products/ao-thun-basic.jpg",
			Description:     "Áo thun **cotton** thoáng mát, phù hợp mặc hằng ngày.\n\n- Form regular\n- Giặt máy được",
			Price:           decimal.NewFromInt(199000),
			StockQuantity:   42,
			Size:            "S,M,L,XL",
			ColorsAvailable: []string{"Trắng", "Đen", "Xám"},
			AverageRating:   4.6,
			ReviewCount:     128,
		},
		{
			ProductID:       "2",
			ProductName:     "Quần jean slim fit",
			SKU:             "QJ-014",
			Brand:           "Clothes VN",
			Material:        "Denim co giãn",
			ImageURL:        "/static/img/products/quan-jean-slim.jpg",
			Description:     "Quần jean *slim fit* co giãn nhẹ.",
			Price:           decimal.NewFromInt(549000),
			DiscountPrice:   decimal.NewNullDecimal(decimal.NewFromInt(459000)),
			StockQuantity:   12,
			Size:            "29,30,31,32",
			ColorsAvailable: []string{"Xanh đậm"},
			AverageRating:   4.3,
			ReviewCount:     57,
		},
		{
			ProductID:     "3",
			ProductName:   "Váy hoa dáng xòe",
			SKU:           "VH-203",
			Brand:         "Mộc Miên",
			Material:      "Voan",
			ImageURL:      "/static/img/products/vay-hoa.jpg",
			Description:   "Váy hoa nhẹ nhàng cho mùa hè.",
			Price:         decimal.NewFromInt(689000),
			StockQuantity: 0,
			Size:          "S,M",
			Color:         "Hồng,Vàng",
			AverageRating: 4.8,
			ReviewCount:   19,
		},
		{
			ProductID:       "4",
			ProductName:     "Áo khoác gió hai lớp",
			SKU:             "AK-310",
			Brand:           "Clothes VN",
			Material:        "Polyester",
			ImageURL:        "/static/img/products/ao-khoac-gio.jpg",
			Description:     "Chống nước nhẹ, có mũ tháo rời.",
			Price:           decimal.NewFromInt(899000),
			DiscountPrice:   decimal.NewNullDecimal(decimal.NewFromInt(749000)),
			StockQuantity:   7,
			Size:            "M,L,XL",
			ColorsAvailable: []string{"Đen", "Xanh rêu"},
			AverageRating:   4.1,
			ReviewCount:     33,
		},
		{
			ProductID:     "5",
			ProductName:   "Giày sneaker trắng",
			SKU:           "GS-088",
			Brand:         "Bước Nhẹ",
			Material:      "Da tổng hợp",
			ImageURL:      "/static/img/products/sneaker-trang.jpg",
			Description:   "Đế cao su êm, dễ phối đồ.",
			Price:         decimal.NewFromInt(1250000),
			StockQuantity: 25,
			Size:          "38,39,40,41,42",
			Color:         "Trắng",
			AverageRating: 4.7,
			ReviewCount:   212,
		},
	}
	out := make(map[string]productPayload, len(items))
	for _, item := range items {
		out[string(item.ProductID)] = item
	}
	return out
}
