// Package compare keeps the small, capped list of products a shopper wants
// to compare side by side.
package compare

import (
	"encoding/json"
	"errors"
	"strings"
)

// MaxItems is the largest number of products a compare list holds.
const MaxItems = 4

// StorageKey names the persisted compare list.
const StorageKey = "compareList"

var (
	// ErrFull is returned when the list already holds MaxItems products.
	ErrFull = errors.New("compare: list is full")
	// ErrDuplicate is returned when the product is already in the list.
	ErrDuplicate = errors.New("compare: product already in list")
	// ErrEmptyID is returned for blank product identifiers.
	ErrEmptyID = errors.New("compare: empty product id")
)

// List is an ordered set of product identifiers, never longer than MaxItems.
type List struct {
	ids []string
}

// NewList builds a list from ids, dropping blanks and duplicates and keeping
// at most MaxItems entries in their original order.
func NewList(ids ...string) List {
	var l List
	for _, id := range ids {
		_ = l.Add(id)
	}
	return l
}

// Add appends id. The list is left unchanged when an error is returned.
func (l *List) Add(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}
	if l.Contains(id) {
		return ErrDuplicate
	}
	if len(l.ids) >= MaxItems {
		return ErrFull
	}
	l.ids = append(l.ids, id)
	return nil
}

// Remove drops id and reports whether it was present.
func (l *List) Remove(id string) bool {
	id = strings.TrimSpace(id)
	kept := l.ids[:0:0]
	for _, existing := range l.ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	removed := len(kept) != len(l.ids)
	l.ids = kept
	return removed
}

func (l List) Contains(id string) bool {
	for _, existing := range l.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (l List) Len() int { return len(l.ids) }

// IDs returns a copy of the identifiers in insertion order.
func (l List) IDs() []string {
	out := make([]string, len(l.ids))
	copy(out, l.ids)
	return out
}

// MarshalJSON encodes the list as a JSON array of identifiers.
func (l List) MarshalJSON() ([]byte, error) {
	if l.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.ids)
}

// UnmarshalJSON decodes a JSON array, normalising it like NewList.
func (l *List) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*l = NewList(ids...)
	return nil
}
