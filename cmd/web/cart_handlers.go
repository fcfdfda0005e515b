package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/observability"
	"clothes.vn/storefront-web/internal/shop"
	"clothes.vn/storefront-web/internal/ui"
)

// addToCart posts the product to the backend cart and refreshes the cart badge.
func (s *server) addToCart(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	qty, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	upd, err := s.shop.AddToCart(r.Context(), shop.AddToCartRequest{
		ProductID: r.FormValue("productId"),
		Quantity:  qty,
		Size:      r.FormValue("size"),
		Color:     r.FormValue("color"),
	})
	if err != nil {
		s.fail(w, r, fx, err, "cart.login_required", "error.generic")
		return
	}

	fx.Toast(notify.New(s.t(r, "cart.added"), notify.Success))
	if upd.HasCount {
		fx.Count(ui.EventCartCount, "cartCount", upd.Count)
	} else if n, err := s.shop.CartCount(r.Context()); err == nil {
		fx.Count(ui.EventCartCount, "cartCount", n)
	}
	fx.Write(w, r, nil)
}

// updateCartItem changes a line quantity and reloads the cart page.
func (s *server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || qty < 1 {
		qty = 1
	}
	msg, err := s.shop.UpdateCartItem(r.Context(), chi.URLParam(r, "id"), qty)
	if err != nil {
		s.fail(w, r, fx, err, "cart.login_required", "error.generic")
		return
	}
	fx.Toast(notify.FromServer(msg, s.t(r, "cart.updated"), notify.Success)).Refresh()
	fx.Write(w, r, nil)
}

// removeCartItem asks for confirmation first; only the confirmed request reaches the backend.
func (s *server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !confirmed(r) {
		s.confirm(w, r, "/ui/cart/items/"+id+"/remove")
		return
	}
	fx := s.effects(r)
	if err := s.shop.RemoveCartItem(r.Context(), id); err != nil {
		s.fail(w, r, fx, err, "cart.login_required", "error.generic")
		return
	}
	fx.Toast(notify.New(s.t(r, "cart.removed"), notify.Success)).Refresh()
	fx.Write(w, r, nil)
}

// cartCount renders the cart badge value. Failures leave the badge untouched.
func (s *server) cartCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.shop.CartCount(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.views.writeFragment(w, r, "badge", n)
}

// cartPreview is the hover hook of the header cart icon. The mini cart has no
// content of its own yet.
func (s *server) cartPreview(w http.ResponseWriter, r *http.Request) {
	observability.FromContext(r.Context()).Debug("mini cart preview requested", zap.String("path", mw.CurrentPath(r, "/")))
	w.WriteHeader(http.StatusNoContent)
}

func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "1"
}

// confirm answers with the confirmation dialog, swapped into the page's confirm slot.
func (s *server) confirm(w http.ResponseWriter, r *http.Request, action string) {
	w.Header().Set("HX-Retarget", "#confirmSlot")
	w.Header().Set("HX-Reswap", "innerHTML")
	s.views.writeFragment(w, r, "confirm_dialog", handlersPkg.ConfirmDialog{Lang: mw.Lang(r), Action: action})
}
