// Package i18n serves the storefront copy from flat JSON catalogues, one per language.
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"golang.org/x/text/language"
)

// Bundle holds the loaded catalogues. The fallback catalogue is always present.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	langs    []string
	matcher  language.Matcher
}

// Load reads <lang>.json catalogues from fsys. Only the fallback catalogue is mandatory;
// other languages without a file still resolve but translate through the fallback.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{"vi", "en"}
	}
	b := &Bundle{dict: map[string]map[string]string{}, fallback: fallback}

	// The matcher treats its first tag as the default.
	b.langs = append(b.langs, fallback)
	for _, l := range supported {
		if l != fallback {
			b.langs = append(b.langs, l)
		}
	}
	tags := make([]language.Tag, 0, len(b.langs))
	for _, l := range b.langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", l, err)
		}
		tags = append(tags, tag)

		raw, err := fs.ReadFile(fsys, l+".json")
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load fallback locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode locale %s: %w", l, err)
		}
		b.dict[l] = m
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang is one of the configured languages.
func (b *Bundle) IsSupported(lang string) bool {
	for _, l := range b.langs {
		if l == lang {
			return true
		}
	}
	return false
}

// T looks key up in lang, then in the fallback catalogue, and finally echoes the key.
func (b *Bundle) T(lang, key string) string {
	if b == nil {
		return key
	}
	if v, ok := b.dict[lang][key]; ok {
		return v
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Resolve picks the supported language that best matches an Accept-Language header,
// honouring q-values. Headers naming no supported language resolve to the fallback.
func (b *Bundle) Resolve(acceptLang string) string {
	desired, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(desired) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No {
		return b.fallback
	}
	return b.langs[idx]
}
