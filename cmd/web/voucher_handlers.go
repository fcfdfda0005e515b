package main

import (
	"net/http"
	"strings"

	"clothes.vn/storefront-web/internal/notify"
)

// applyVoucher rejects a blank code locally; otherwise the backend decides.
func (s *server) applyVoucher(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	code := strings.TrimSpace(r.FormValue("code"))
	if code == "" {
		fx.Toast(notify.New(s.t(r, "voucher.empty"), notify.Warning))
		fx.Write(w, r, nil)
		return
	}
	msg, err := s.shop.ApplyVoucher(r.Context(), code)
	if err != nil {
		s.fail(w, r, fx, err, "cart.login_required", "voucher.invalid")
		return
	}
	fx.Toast(notify.FromServer(msg, s.t(r, "voucher.applied"), notify.Success)).Refresh()
	fx.Write(w, r, nil)
}

func (s *server) removeVoucher(w http.ResponseWriter, r *http.Request) {
	fx := s.effects(r)
	msg, err := s.shop.RemoveVoucher(r.Context())
	if err != nil {
		s.fail(w, r, fx, err, "cart.login_required", "error.generic")
		return
	}
	fx.Toast(notify.FromServer(msg, s.t(r, "voucher.removed"), notify.Info)).Refresh()
	fx.Write(w, r, nil)
}
