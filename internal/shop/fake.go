package shop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

const fakeBaseURL = "http://shop.invalid"

var demoVouchers = map[string]string{
	"GIAM10":   "Áp dụng mã giảm giá 10% thành công",
	"FREESHIP": "Áp dụng mã miễn phí vận chuyển thành công",
}

type fakeLine struct {
	ProductID string
	Quantity  int
}

// fakeBackend mimics the shop backend in memory for local development.
type fakeBackend struct {
	mu          sync.Mutex
	router      chi.Router
	lines       map[string]*fakeLine
	nextLine    int
	wishlist    map[string]struct{}
	voucher     string
	subscribers map[string]struct{}
	products    map[string]productPayload
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{
		lines:       map[string]*fakeLine{},
		wishlist:    map[string]struct{}{},
		subscribers: map[string]struct{}{},
		products:    demoProducts(),
	}
	r := chi.NewRouter()
	r.Post("/cart/api/add", f.addToCart)
	r.Post("/cart/update/{id}", f.updateLine)
	r.Post("/cart/remove/{id}", f.removeLine)
	r.Get("/cart/count", f.cartCount)
	r.Post("/cart/apply-voucher", f.applyVoucher)
	r.Post("/cart/remove-voucher", f.removeVoucher)
	r.Post("/wishlist/toggle", f.toggleWishlist)
	r.Post("/wishlist/remove/{id}", f.removeWishlist)
	r.Get("/wishlist/count", f.wishlistCount)
	r.Get("/products/{id}/quick", f.quickView)
	r.Post("/newsletter/subscribe", f.subscribe)
	f.router = r
	return f
}

// RoundTrip serves the request from memory. The request usually carries the
// storefront's own chi route context, so the demo router gets a fresh one.
func (f *fakeBackend) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	inner := req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chi.NewRouteContext()))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, inner)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

func (f *fakeBackend) addToCart(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.FormValue("productId"))
	qty, _ := strconv.Atoi(r.FormValue("quantity"))
	if qty <= 0 {
		qty = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[productID]; !ok {
		writeFakeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Sản phẩm không tồn tại"})
		return
	}
	for _, line := range f.lines {
		if line.ProductID == productID {
			line.Quantity += qty
			writeFakeJSON(w, http.StatusOK, map[string]any{"success": true, "count": f.itemCountLocked()})
			return
		}
	}
	f.nextLine++
	f.lines[strconv.Itoa(f.nextLine)] = &fakeLine{ProductID: productID, Quantity: qty}
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true, "count": f.itemCountLocked()})
}

func (f *fakeBackend) updateLine(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[chi.URLParam(r, "id")]
	if !ok || err != nil || qty < 1 {
		writeFakeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Không thể cập nhật giỏ hàng"})
		return
	}
	line.Quantity = qty
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeBackend) removeLine(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, chi.URLParam(r, "id"))
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeBackend) cartCount(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeFakeJSON(w, http.StatusOK, map[string]any{"count": f.itemCountLocked()})
}

func (f *fakeBackend) itemCountLocked() int {
	total := 0
	for _, line := range f.lines {
		total += line.Quantity
	}
	return total
}

func (f *fakeBackend) applyVoucher(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.FormValue("code")))
	msg, ok := demoVouchers[code]
	if !ok {
		writeFakeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Mã giảm giá không hợp lệ hoặc đã hết hạn"})
		return
	}
	f.mu.Lock()
	f.voucher = code
	f.mu.Unlock()
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (f *fakeBackend) removeVoucher(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.voucher = ""
	f.mu.Unlock()
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeBackend) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.FormValue("productId"))
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[productID]; !ok {
		writeFakeJSON(w, http.StatusOK, "error")
		return
	}
	if _, ok := f.wishlist[productID]; ok {
		delete(f.wishlist, productID)
		writeFakeJSON(w, http.StatusOK, map[string]any{"success": true, "added": false})
		return
	}
	f.wishlist[productID] = struct{}{}
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true, "added": true})
}

func (f *fakeBackend) removeWishlist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.wishlist, chi.URLParam(r, "id"))
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeBackend) wishlistCount(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeFakeJSON(w, http.StatusOK, len(f.wishlist))
}

func (f *fakeBackend) quickView(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	p, ok := f.products[chi.URLParam(r, "id")]
	f.mu.Unlock()
	if !ok {
		writeFakeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Không tìm thấy sản phẩm"})
		return
	}
	writeFakeJSON(w, http.StatusOK, p)
}

func (f *fakeBackend) subscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subscribers[email]; ok {
		writeFakeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Email này đã đăng ký nhận tin"})
		return
	}
	f.subscribers[email] = struct{}{}
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// productIDs lists the demo catalogue identifiers in ascending order.
func (f *fakeBackend) productIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	return ids
}

func writeFakeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
