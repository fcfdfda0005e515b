package handlers

import (
	"html/template"

	"clothes.vn/storefront-web/internal/nav"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/widgets"
)

// PageData is the view model of every full page rendered with the base layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       SEOData
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	CSRFToken   string
	// Flash holds toasts queued before the last full page load.
	Flash  []notify.Toast
	Counts Counts
	Scroll widgets.Scroll

	// Optional per-page view model payloads
	Products []ProductCard
	Filters  FilterView
	Compare  CompareView
}

// Counts are the header badge values known without a backend call.
type Counts struct {
	Compare int
}

// SEOData carries the head metadata of a page.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	OG          struct {
		Title    string
		Type     string
		SiteName string
	}
	// JSONLD holds schema.org blocks, each rendered in its own script element.
	JSONLD []template.JS
}
