package widgets

import "time"

const (
	// ScrollOffset keeps anchored sections clear of the sticky header.
	ScrollOffset = 100
	// ScrollDuration is the length of an in-page anchor scroll.
	ScrollDuration = 500 * time.Millisecond
)

// Scroll carries the anchor scroll settings rendered onto <body> for storefront.js.
type Scroll struct {
	OffsetPx   int
	DurationMs int64
}

// AnchorScroll returns the settings of in-page anchor links.
func AnchorScroll() Scroll {
	return Scroll{OffsetPx: ScrollOffset, DurationMs: ScrollDuration.Milliseconds()}
}
