package main

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/filter"
	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/observability"
	"clothes.vn/storefront-web/internal/seo"
	"clothes.vn/storefront-web/internal/shop"
)

// home renders the landing page with the featured products.
func (s *server) home(w http.ResponseWriter, r *http.Request) {
	vm := s.pageData(r, "home.title", "home.description")
	vm.Products = handlersPkg.BuildProductCards(s.featured(r), vm.Lang)
	s.views.page(w, r, "home", vm)
}

// products renders the catalogue with the filter sidebar restored from the query.
func (s *server) products(w http.ResponseWriter, r *http.Request) {
	vm := s.pageData(r, "nav.products", "products.description")
	q := r.URL.Query()
	form := filter.ParseForm(q)
	vm.Filters = handlersPkg.BuildFilterView(vm.Lang, strings.TrimSpace(q.Get("keyword")), form, func(key string) string {
		return s.t(r, key)
	})
	matched := handlersPkg.FilterProducts(s.featured(r), form)
	vm.Products = handlersPkg.BuildProductCards(matched, vm.Lang)
	vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.ItemList(matched)))
	s.views.page(w, r, "products", vm)
}

// featured loads the configured products, or the demo catalogue when none are configured.
// Products the backend cannot describe are skipped.
func (s *server) featured(r *http.Request) []shop.Product {
	ids := s.cfg.Catalog.Featured
	if len(ids) == 0 {
		ids = s.shop.DemoProductIDs()
	}
	out := make([]shop.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.shop.QuickView(r.Context(), id)
		if err != nil {
			observability.FromContext(r.Context()).Debug("skipping featured product", zap.String("product_id", id), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

// applyFilters navigates to the catalogue URL built from the sidebar, keeping the search keyword.
func (s *server) applyFilters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	target := filter.Build(mw.CurrentURL(r), filter.ParseForm(r.PostForm))
	s.effects(r).Redirect(target).Write(w, r, nil)
}

func (s *server) clearFilters(w http.ResponseWriter, r *http.Request) {
	s.effects(r).Redirect(filter.Clear()).Write(w, r, nil)
}
