package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/richtext"
	"clothes.vn/storefront-web/internal/ui"
	"clothes.vn/storefront-web/internal/widgets"
)

// quickView renders the quick-view modal body of a product.
func (s *server) quickView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.shop.QuickView(r.Context(), id)
	if err != nil {
		s.fail(w, r, s.effects(r), err, "cart.login_required", "error.generic")
		return
	}
	max := widgets.DefaultMaxQuantity
	if p.Stock > 0 {
		max = p.Stock
	}
	lang := mw.Lang(r)
	s.views.writeFragment(w, r, "quickview", handlersPkg.QuickView{
		Lang:        lang,
		Card:        handlersPkg.BuildProductCard(p, lang),
		Description: richtext.Markdown(p.Description),
		Qty:         handlersPkg.QtyInput{ID: "qv-" + p.ID, Value: widgets.MinQuantity, Max: max},
	})
}

// subscribe validates the address locally before calling the backend.
func (s *server) subscribe(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	email := strings.TrimSpace(r.FormValue("email"))
	if !widgets.ValidEmail(email) {
		fx.Toast(notify.New(s.t(r, "newsletter.invalid_email"), notify.Warning))
		fx.Write(w, r, nil)
		return
	}
	msg, err := s.shop.SubscribeNewsletter(r.Context(), email)
	if err != nil {
		s.fail(w, r, fx, err, "cart.login_required", "newsletter.failed")
		return
	}
	fx.Toast(notify.FromServer(msg, s.t(r, "newsletter.subscribed"), notify.Success))
	fx.Trigger(ui.EventNewsletterReset, nil)
	fx.Write(w, r, nil)
}

// qtyChanged is the payload of the change event raised by the stepper.
type qtyChanged struct {
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// stepQuantity moves a quantity input one step and re-renders it.
func (s *server) stepQuantity(w http.ResponseWriter, r *http.Request) {
	dir, ok := widgets.ParseDirection(r.FormValue("dir"))
	if !ok {
		http.Error(w, "invalid direction", http.StatusBadRequest)
		return
	}
	max := widgets.ParseMax(r.FormValue("max"))
	value, changed := widgets.Step(r.FormValue("quantity"), dir, max)
	in := handlersPkg.QtyInput{
		ID:     r.FormValue("id"),
		ItemID: r.FormValue("item"),
		Value:  value,
		Max:    max,
	}
	fx := s.effects(r)
	if changed {
		fx.Trigger(ui.EventChange, qtyChanged{Target: "qty-" + in.ID, Value: value})
	}
	fx.Write(w, r, s.views.fragment("qty_input", in))
}

// priceRange snaps the two sliders and re-renders the range with its label.
func (s *server) priceRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lo, hi := q.Get("rangeMin"), q.Get("rangeMax")
	if lo == "" && hi == "" {
		lo, hi = q.Get("priceMin"), q.Get("priceMax")
	}
	rng := widgets.ParsePriceRange(lo, hi)
	s.views.writeFragment(w, r, "price_range", handlersPkg.BuildPriceRange(rng, mw.Lang(r)))
}
