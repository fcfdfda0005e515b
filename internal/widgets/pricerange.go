package widgets

import (
	"math"
	"strconv"
	"strings"

	"clothes.vn/storefront-web/internal/format"
)

const (
	PriceFloor   int64 = 0
	PriceCeiling int64 = 5_000_000
	PriceStep    int64 = 100_000
)

// PriceRange is the two-handle price slider state.
type PriceRange struct {
	Min int64
	Max int64
}

// DefaultPriceRange spans the whole slider.
func DefaultPriceRange() PriceRange {
	return PriceRange{Min: PriceFloor, Max: PriceCeiling}
}

// Set moves both handles. Values are rounded, snapped to PriceStep, clamped
// to the slider bounds and put in ascending order.
func (PriceRange) Set(lo, hi float64) PriceRange {
	a, b := snap(lo), snap(hi)
	if a > b {
		a, b = b, a
	}
	return PriceRange{Min: a, Max: b}
}

// ParsePriceRange reads the priceMin/priceMax inputs. Unreadable values fall
// back to the slider bounds.
func ParsePriceRange(minRaw, maxRaw string) PriceRange {
	lo, ok := parseAmount(minRaw)
	if !ok {
		lo = float64(PriceFloor)
	}
	hi, ok := parseAmount(maxRaw)
	if !ok {
		hi = float64(PriceCeiling)
	}
	return PriceRange{}.Set(lo, hi)
}

// Label renders "<min>đ - <max>đ" with the locale's thousands separator.
func (r PriceRange) Label(lang string) string {
	return format.VND(r.Min, lang) + " - " + format.VND(r.Max, lang)
}

// MinValue and MaxValue are the hidden input values.
func (r PriceRange) MinValue() string { return strconv.FormatInt(r.Min, 10) }
func (r PriceRange) MaxValue() string { return strconv.FormatInt(r.Max, 10) }

// Full reports whether the range covers the whole slider.
func (r PriceRange) Full() bool {
	return r.Min == PriceFloor && r.Max == PriceCeiling
}

func snap(v float64) int64 {
	if math.IsNaN(v) {
		return PriceFloor
	}
	if v <= float64(PriceFloor) {
		return PriceFloor
	}
	if v >= float64(PriceCeiling) {
		return PriceCeiling
	}
	steps := math.Round(math.Round(v) / float64(PriceStep))
	return int64(steps) * PriceStep
}

func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
