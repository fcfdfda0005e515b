package main

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/compare"
	"clothes.vn/storefront-web/internal/config"
	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	"clothes.vn/storefront-web/internal/i18n"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/nav"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/observability"
	"clothes.vn/storefront-web/internal/seo"
	"clothes.vn/storefront-web/internal/shop"
	"clothes.vn/storefront-web/internal/ui"
	"clothes.vn/storefront-web/internal/widgets"
)

const requestTimeout = 30 * time.Second

// server holds the collaborators shared by every handler.
type server struct {
	cfg       config.Config
	logger    *zap.Logger
	bundle    *i18n.Bundle
	views     *views
	assets    fs.FS
	shop      *shop.Client
	compare   *compare.Service
	analytics handlersPkg.Analytics
}

// sessionCarrier exposes the request session to compare.SessionStore.
func sessionCarrier(ctx context.Context) compare.Carrier {
	if s := mw.SessionFromContext(ctx); s != nil {
		return s
	}
	return nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(s.assets)))

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(mw.Session)
		r.Use(mw.Locale(s.bundle))
		r.Use(mw.ForwardCookies(s.cfg.Backend.ForwardCookies))
		r.Use(mw.CSRF(http.HandlerFunc(s.csrfRejected)))

		r.Get("/", s.home)
		r.Get("/products", s.products)
		r.Get("/compare", s.comparePage)

		r.Route("/ui", func(r chi.Router) {
			r.Post("/cart/add", s.addToCart)
			r.Post("/cart/items/{id}", s.updateCartItem)
			r.Post("/cart/items/{id}/remove", s.removeCartItem)
			r.Get("/cart/count", s.cartCount)
			r.Get("/cart/preview", s.cartPreview)

			r.Post("/wishlist/toggle", s.toggleWishlist)
			r.Post("/wishlist/items/{id}/remove", s.removeWishlistItem)
			r.Get("/wishlist/count", s.wishlistCount)

			r.Post("/voucher/apply", s.applyVoucher)
			r.Post("/voucher/remove", s.removeVoucher)

			r.Post("/compare/{id}", s.addToCompare)
			r.Post("/compare/{id}/remove", s.removeFromCompare)
			r.Get("/compare/count", s.compareCount)

			r.Post("/filters", s.applyFilters)
			r.Post("/filters/clear", s.clearFilters)

			r.Get("/products/{id}/quick", s.quickView)
			r.Post("/newsletter", s.subscribe)
			r.Post("/qty", s.stepQuantity)
			r.Get("/price-range", s.priceRange)
		})
	})
	return r
}

func (s *server) t(r *http.Request, key string) string {
	return s.bundle.T(mw.Lang(r), key)
}

func (s *server) effects(r *http.Request) *ui.Effects {
	return ui.New(s.t(r, "toast.close"))
}

// fail turns a backend error into toasts. Sign-in failures warn with loginKey
// and send the browser to the login page. A backend that answered but refused
// the action falls back to fallbackKey; transport and HTTP errors to error.retry.
func (s *server) fail(w http.ResponseWriter, r *http.Request, fx *ui.Effects, err error, loginKey, fallbackKey string) {
	se := shop.AsError(err)
	switch se.Kind {
	case shop.KindAuthRequired:
		fx.Toast(notify.New(s.t(r, loginKey), notify.Warning))
		fx.RequireLogin(ui.LoginURL(s.shop.LoginPath(), mw.CurrentPath(r, "/")))
	case shop.KindGeneric:
		key := "error.retry"
		if se.Status == http.StatusOK {
			key = fallbackKey
		}
		fx.Toast(notify.FromServer(se.Message, s.t(r, key), notify.Error))
	}
	fx.Write(w, r, nil)
}

// csrfRejected tells the shopper to reload; the page holds a stale token.
func (s *server) csrfRejected(w http.ResponseWriter, r *http.Request) {
	s.effects(r).Toast(notify.New(s.t(r, "error.csrf"), notify.Error)).Reject(w, r, http.StatusForbidden)
}

// owner identifies the browser whose compare list is addressed.
func owner(r *http.Request) string {
	if sess := mw.SessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}

func (s *server) compareCountFor(r *http.Request) int {
	n, err := s.compare.Count(r.Context(), owner(r))
	if err != nil {
		observability.FromContext(r.Context()).Warn("compare count", zap.Error(err))
		return 0
	}
	return n
}

// pageData fills the layout fields shared by every page.
func (s *server) pageData(r *http.Request, titleKey, descKey string) handlersPkg.PageData {
	lang := mw.Lang(r)
	title := s.bundle.T(lang, titleKey)
	brand := s.bundle.T(lang, "brand.name")

	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Analytics:   s.analytics,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		CSRFToken:   mw.CSRFToken(r),
		Counts:      handlersPkg.Counts{Compare: s.compareCountFor(r)},
		Scroll:      widgets.AnchorScroll(),
	}
	if sess := mw.SessionFromContext(r.Context()); sess != nil {
		vm.Flash = sess.TakeFlash()
	}
	vm.SEO.Title = title + " | " + brand
	if descKey != "" {
		vm.SEO.Description = s.bundle.T(lang, descKey)
	}
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Type = "website"
	vm.SEO.OG.SiteName = brand

	base := baseURL(r)
	vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.WebSite(brand, base)))
	if len(vm.Breadcrumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(vm.Breadcrumbs))
		for _, c := range vm.Breadcrumbs {
			name := c.Label
			if c.LabelKey != "" {
				name = s.bundle.T(lang, c.LabelKey)
			}
			items = append(items, seo.BreadcrumbItem{Name: name, Item: base + c.Href})
		}
		vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.BreadcrumbList(items)))
	}
	return vm
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func absoluteURL(r *http.Request) string {
	return baseURL(r) + r.URL.RequestURI()
}
