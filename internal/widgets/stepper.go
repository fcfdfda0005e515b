// Package widgets holds the small interactive controls of the storefront pages.
package widgets

import (
	"strconv"
	"strings"
)

const (
	// MinQuantity is the smallest quantity a stepper allows.
	MinQuantity = 1
	// DefaultMaxQuantity applies when the input carries no usable max attribute.
	DefaultMaxQuantity = 999
)

// Direction is the stepper button that was pressed.
type Direction int

const (
	Decrease Direction = -1
	Increase Direction = 1
)

// ParseDirection maps "inc"/"increase"/"+" and "dec"/"decrease"/"-".
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "inc", "increase", "+", "up":
		return Increase, true
	case "dec", "decrease", "-", "down":
		return Decrease, true
	}
	return 0, false
}

// ParseMax reads a max attribute; missing, invalid and non-positive values mean DefaultMaxQuantity.
func ParseMax(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultMaxQuantity
	}
	return n
}

// Step applies one button press to value and reports whether it changed.
// The result stays within [MinQuantity, max]; an unreadable value restarts at MinQuantity.
func Step(value string, dir Direction, max int) (int, bool) {
	if max < MinQuantity {
		max = DefaultMaxQuantity
	}
	current, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return MinQuantity, true
	}
	clamped := clamp(current, MinQuantity, max)
	next := clamped
	switch dir {
	case Increase:
		if clamped < max {
			next = clamped + 1
		}
	case Decrease:
		if clamped > MinQuantity {
			next = clamped - 1
		}
	}
	return next, next != current
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
