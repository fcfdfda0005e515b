package widgets

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestStepNeverLeavesBounds(t *testing.T) {
	for _, max := range []int{1, 5, DefaultMaxQuantity} {
		for v := -2; v <= max+2; v++ {
			for _, dir := range []Direction{Increase, Decrease} {
				got, _ := Step(strconv.Itoa(v), dir, max)
				require.GreaterOrEqual(t, got, MinQuantity)
				require.LessOrEqual(t, got, max)
			}
		}
	}
}

func TestStepTransitions(t *testing.T) {
	got, changed := Step("1", Decrease, 10)
	require.Equal(t, 1, got)
	require.False(t, changed)

	got, changed = Step("10", Increase, 10)
	require.Equal(t, 10, got)
	require.False(t, changed)

	got, changed = Step("3", Increase, 10)
	require.Equal(t, 4, got)
	require.True(t, changed)

	got, _ = Step("998", Increase, ParseMax(""))
	require.Equal(t, 999, got)
	got, _ = Step("999", Increase, ParseMax("abc"))
	require.Equal(t, 999, got)

	got, changed = Step("x", Increase, 10)
	require.Equal(t, 1, got)
	require.True(t, changed)
}

func TestParseMax(t *testing.T) {
	require.Equal(t, 999, ParseMax(""))
	require.Equal(t, 999, ParseMax("0"))
	require.Equal(t, 999, ParseMax("-3"))
	require.Equal(t, 999, ParseMax("ten"))
	require.Equal(t, 12, ParseMax(" 12 "))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("inc")
	require.True(t, ok)
	require.Equal(t, Increase, d)
	d, ok = ParseDirection("Decrease")
	require.True(t, ok)
	require.Equal(t, Decrease, d)
	_, ok = ParseDirection("sideways")
	require.False(t, ok)
}

func TestValidators(t *testing.T) {
	require.True(t, ValidEmail("a@b.com"))
	require.False(t, ValidEmail("a@b"))
	require.False(t, ValidEmail("a b@c.com"))
	require.True(t, ValidPhone("0912345678"))
	require.False(t, ValidPhone("12345"))
	require.False(t, ValidPhone("09123456789"))
}

func TestPriceRangeSet(t *testing.T) {
	r := PriceRange{}.Set(149_999.6, 120_000)
	require.Equal(t, PriceRange{Min: 100_000, Max: 200_000}, r)

	r = PriceRange{}.Set(4_900_000, -10)
	require.Equal(t, PriceRange{Min: 0, Max: 4_900_000}, r)

	r = PriceRange{}.Set(math.NaN(), 9_000_000)
	require.Equal(t, DefaultPriceRange(), r)
	require.True(t, r.Full())
}

func TestParsePriceRange(t *testing.T) {
	r := ParsePriceRange("250000", "abc")
	require.Equal(t, int64(300_000), r.Min)
	require.Equal(t, PriceCeiling, r.Max)
	require.Equal(t, "300000", r.MinValue())
	require.Equal(t, "5000000", r.MaxValue())
}

func TestPriceRangeLabel(t *testing.T) {
	require.Equal(t, "0đ - 5.000.000đ", DefaultPriceRange().Label("vi"))
	require.Equal(t, "100,000đ - 200,000đ", PriceRange{Min: 100_000, Max: 200_000}.Label("en"))
}

func TestAnchorScrollSettings(t *testing.T) {
	s := AnchorScroll()
	require.Equal(t, 100, s.OffsetPx)
	require.Equal(t, int64(500), s.DurationMs)
}

func TestLazyImageHelper(t *testing.T) {
	html := LazyImage("/img/p.jpg", `Áo "basic"`, "card-img-top")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	require.NoError(t, err)
	img := doc.Find("img.lazy.card-img-top")
	require.Equal(t, 1, img.Length())
	src, _ := img.Attr("data-src")
	require.Equal(t, "/img/p.jpg", src)
	placeholder, _ := img.Attr("src")
	require.Equal(t, Placeholder, placeholder)
	alt, _ := img.Attr("alt")
	require.Equal(t, `Áo "basic"`, alt)
}
