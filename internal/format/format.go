package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Number formats n with the thousands separators of lang.
// Example: Number(1500000, "vi") => "1.500.000"
func Number(n int64, lang string) string {
	return printer(lang).Sprintf("%d", n)
}

// VND formats a dong amount the way the storefront labels prices.
// Example: VND(250000, "vi") => "250.000đ"
func VND(amount int64, lang string) string {
	return Number(amount, lang) + "đ"
}

// Price rounds a decimal price to whole dong before formatting.
func Price(amount decimal.Decimal, lang string) string {
	return VND(amount.Round(0).IntPart(), lang)
}

// Currency formats amount in minor units for basic currencies.
func Currency(minor int64, currency, lang string) string {
	switch strings.ToUpper(currency) {
	case "VND", "":
		return VND(minor, lang)
	case "USD":
		neg := minor < 0
		if neg {
			minor = -minor
		}
		p := printer("en")
		out := "$" + p.Sprintf("%d", minor/100) + "." + p.Sprintf("%02d", minor%100)
		if neg {
			return "-" + out
		}
		return out
	default:
		return strings.ToUpper(currency) + " " + Number(minor, lang)
	}
}

func printer(lang string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		tag = language.Vietnamese
	}
	return message.NewPrinter(tag)
}
