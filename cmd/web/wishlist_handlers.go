package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/ui"
)

// wishlistToggled is the payload of the wishlist:toggled event.
type wishlistToggled struct {
	ProductID string `json:"productId"`
	Added     bool   `json:"added"`
}

// toggleWishlist flips a product and re-renders its heart from the backend state.
func (s *server) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	res, err := s.shop.ToggleWishlist(r.Context(), r.FormValue("productId"))
	if err != nil {
		s.fail(w, r, fx, err, "wishlist.login_required", "error.generic")
		return
	}

	fx.Trigger(ui.EventWishlistToggled, wishlistToggled{ProductID: res.ProductID, Added: res.Added})
	if res.Added {
		fx.Toast(notify.FromServer(res.Message, s.t(r, "wishlist.added"), notify.Success))
	} else {
		fx.Toast(notify.FromServer(res.Message, s.t(r, "wishlist.removed"), notify.Info))
	}
	if n, err := s.shop.WishlistCount(r.Context()); err == nil {
		fx.Count(ui.EventWishlistCount, "wishlistCount", n)
	}
	fx.Write(w, r, s.views.fragment("wishlist_button", handlersPkg.WishlistButton{
		Lang:      mw.Lang(r),
		ProductID: res.ProductID,
		Added:     res.Added,
	}))
}

func (s *server) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !confirmed(r) {
		s.confirm(w, r, "/ui/wishlist/items/"+id+"/remove")
		return
	}
	fx := s.effects(r)
	if err := s.shop.RemoveWishlistItem(r.Context(), id); err != nil {
		s.fail(w, r, fx, err, "wishlist.login_required", "error.generic")
		return
	}
	fx.Toast(notify.New(s.t(r, "wishlist.removed"), notify.Info)).Refresh()
	fx.Write(w, r, nil)
}

func (s *server) wishlistCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.shop.WishlistCount(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.views.writeFragment(w, r, "badge", n)
}
