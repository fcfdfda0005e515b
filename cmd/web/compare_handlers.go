package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/compare"
	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/observability"
	"clothes.vn/storefront-web/internal/ui"
)

// addToCompare appends a product to the session's compare list.
func (s *server) addToCompare(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	list, err := s.compare.Add(r.Context(), owner(r), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, compare.ErrFull):
		fx.Toast(notify.New(s.t(r, "compare.full"), notify.Warning))
	case errors.Is(err, compare.ErrDuplicate):
		fx.Toast(notify.New(s.t(r, "compare.duplicate"), notify.Info))
	case err != nil:
		observability.FromContext(r.Context()).Warn("compare add failed", zap.Error(err))
		fx.Toast(notify.New(s.t(r, "error.generic"), notify.Error))
	default:
		fx.Toast(notify.New(s.t(r, "compare.added"), notify.Success))
		fx.Count(ui.EventCompareCount, "compareCount", list.Len())
	}
	fx.Write(w, r, nil)
}

// removeFromCompare drops a product; the compare card is swapped out with nothing.
func (s *server) removeFromCompare(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	list, err := s.compare.Remove(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		observability.FromContext(r.Context()).Warn("compare remove failed", zap.Error(err))
		fx.Toast(notify.New(s.t(r, "error.generic"), notify.Error))
		fx.Write(w, r, nil)
		return
	}
	fx.Count(ui.EventCompareCount, "compareCount", list.Len())
	fx.Write(w, r, func(io.Writer) error { return nil })
}

func (s *server) compareCount(w http.ResponseWriter, r *http.Request) {
	s.views.writeFragment(w, r, "badge", s.compareCountFor(r))
}

// comparePage lists the compared products in the order they were added.
// Products the backend cannot describe still show by id.
func (s *server) comparePage(w http.ResponseWriter, r *http.Request) {
	vm := s.pageData(r, "compare.title", "")
	list, err := s.compare.List(r.Context(), owner(r))
	if err != nil {
		observability.FromContext(r.Context()).Warn("compare list failed", zap.Error(err))
	}
	for _, id := range list.IDs() {
		p, err := s.shop.QuickView(r.Context(), id)
		if err != nil {
			vm.Compare.Items = append(vm.Compare.Items, handlersPkg.ProductCard{ID: id})
			continue
		}
		vm.Compare.Items = append(vm.Compare.Items, handlersPkg.BuildProductCard(p, mw.Lang(r)))
	}
	s.views.page(w, r, "compare", vm)
}
