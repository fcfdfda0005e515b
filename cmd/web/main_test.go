package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/config"
)

// newTestRouter builds the router of main() against backendURL; empty means the demo backend.
func newTestRouter(t *testing.T, backendURL string) http.Handler {
	t.Helper()
	env := map[string]string{}
	if backendURL != "" {
		env["STOREFRONT_BACKEND_URL"] = backendURL
	}
	return newTestRouterWithEnv(t, env)
}

func newTestRouterWithEnv(t *testing.T, env map[string]string) http.Handler {
	t.Helper()
	env["STOREFRONT_SESSION_SIGNING_KEY"] = "test-signing-key"
	cfg, err := config.Load(config.WithEnvMap(env), config.WithoutSystemEnv(), config.WithEnvFile(""))
	require.NoError(t, err)
	srv, cleanup, err := newServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return srv.routes()
}

// backend records the calls made to a fake storefront API.
type backend struct {
	mu    sync.Mutex
	calls []string
	forms []url.Values
}

func newBackend(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.forms = append(b.forms, r.PostForm)
		b.mu.Unlock()
		handle(w, r)
	}))
	t.Cleanup(ts.Close)
	return b, ts
}

func (b *backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *backend) Form(i int) url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.forms[i]
}

// browser keeps cookies and the CSRF token between requests.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
	csrf    string
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	b := &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
	rec := b.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = b.get("/ui/compare/count")
	require.Equal(t, http.StatusOK, rec.Code)
	ck, ok := b.cookies["csrf_token"]
	require.True(t, ok, "csrf cookie issued")
	b.csrf = ck.Value
	return b
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("Accept-Language", "en")
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, target, nil))
}

// htmx posts form like htmx does from the page at currentURL.
func (b *browser) htmx(target string, form url.Values, currentURL string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", b.csrf)
	if currentURL != "" {
		req.Header.Set("HX-Current-URL", currentURL)
	}
	return b.send(req)
}

func triggers(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := rec.Header().Get("HX-Trigger")
	if raw == "" {
		return nil
	}
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func parse(t *testing.T, body io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(body)
	require.NoError(t, err)
	return doc
}

func toastTexts(doc *goquery.Document) []string {
	var out []string
	doc.Find(".toast .toast-body").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestHomeRendersLayoutOnce(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parse(t, rec.Body)
	require.Equal(t, 1, doc.Find("#toastContainer").Length())
	require.Equal(t, 1, doc.Find("#compareCount").Length())
	require.Equal(t, 1, doc.Find("#newsletterForm").Length())
	require.Equal(t, 5, doc.Find(".product-card").Length())
	require.Contains(t, doc.Find(".navbar-nav").Text(), "Products")
	require.Equal(t, "Fashion for everyone | Clothes Shop", doc.Find("title").Text())

	token, ok := doc.Find("body").Attr("hx-headers")
	require.True(t, ok)
	require.Contains(t, token, b.csrf)
	require.Equal(t, "100", doc.Find("body").AttrOr("data-scroll-offset", ""))
	require.Equal(t, "500", doc.Find("body").AttrOr("data-scroll-ms", ""))
}

func TestAssetsServedWithETag(t *testing.T) {
	srv := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodGet, "/assets/js/storefront.js", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	b.csrf = "forged"
	rec := b.htmx("/ui/cart/add", url.Values{"productId": {"1"}}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	var toast struct {
		Message string `json:"message"`
		Tone    string `json:"tone"`
	}
	require.NoError(t, json.Unmarshal(triggers(t, rec)["toast"], &toast))
	require.Equal(t, "Your session has expired, please reload the page!", toast.Message)
	require.Equal(t, "error", toast.Tone)
}

func TestAddToCartUnauthorizedRequiresLogin(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/cart/add", url.Values{"productId": {"42"}}, "http://example.com/products?keyword=shoe")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"POST /cart/api/add"}, api.Calls())

	events := triggers(t, rec)
	require.Contains(t, events, "auth:required")
	var auth struct {
		Redirect string `json:"redirect"`
		DelayMs  int64  `json:"delayMs"`
	}
	require.NoError(t, json.Unmarshal(events["auth:required"], &auth))
	require.Equal(t, "/user/login?redirect=%2Fproducts%3Fkeyword%3Dshoe", auth.Redirect)
	require.Equal(t, int64(1500), auth.DelayMs)

	doc := parse(t, rec.Body)
	require.Equal(t, 1, doc.Find(".toast.bg-warning").Length())
	require.Equal(t, []string{"Please sign in to add items to your cart"}, toastTexts(doc))
	require.Equal(t, "none", rec.Header().Get("HX-Reswap"))
}

func TestAddToCartWithoutHTMXRedirectsToLogin(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	form := url.Values{"productId": {"42"}, "csrf_token": {b.csrf}}
	req := httptest.NewRequest(http.MethodPost, "/ui/cart/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/products")
	rec := b.send(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/user/login?redirect=%2Fproducts", rec.Header().Get("Location"))
}

func TestAddToCartSuccessUpdatesBadge(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"count":3}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/cart/add", url.Values{"productId": {"7"}, "size": {"M"}}, "http://example.com/")
	require.Equal(t, http.StatusOK, rec.Code)
	form := api.Form(0)
	require.Equal(t, "7", form.Get("productId"))
	require.Equal(t, "1", form.Get("quantity"))
	require.Equal(t, "M", form.Get("size"))

	events := triggers(t, rec)
	require.JSONEq(t, `{"count":3}`, string(events["cart:count"]))

	doc := parse(t, rec.Body)
	require.Equal(t, "3", doc.Find("#cartCount").Text())
	require.Equal(t, 1, doc.Find(".toast").Length(), "exactly one toast element")
	toast := doc.Find(".toast")
	require.True(t, toast.HasClass("bg-success"))
	_, removable := toast.Attr("data-remove-on-hidden")
	require.True(t, removable)
	delay, _ := toast.Attr("data-autohide-ms")
	require.Equal(t, "3000", delay)
	require.Equal(t, 1, toast.Find("button[data-bs-dismiss=toast]").Length())
}

func TestAddToCartFailureUsesServerMessage(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"<b>Hết hàng</b>"}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/cart/add", url.Values{"productId": {"7"}}, "")
	doc := parse(t, rec.Body)
	require.Equal(t, []string{"Hết hàng"}, toastTexts(doc))
	require.Equal(t, 1, doc.Find(".toast.bg-danger").Length())
}

func TestBackendDownShowsRetryMessage(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	url0 := ts.URL
	ts.Close()
	b := newBrowser(t, newTestRouter(t, url0))

	rec := b.htmx("/ui/voucher/apply", url.Values{"code": {"GIAM10"}}, "")
	require.Equal(t, []string{"Something went wrong, please try again!"}, toastTexts(parse(t, rec.Body)))
}

func TestRemoveCartItemAsksForConfirmation(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/cart/items/9/remove", url.Values{}, "http://example.com/cart")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, api.Calls())
	require.Equal(t, "#confirmSlot", rec.Header().Get("HX-Retarget"))
	doc := parse(t, rec.Body)
	action, _ := doc.Find(".confirm-dialog [hx-post]").Attr("hx-post")
	require.Equal(t, "/ui/cart/items/9/remove", action)

	rec = b.htmx("/ui/cart/items/9/remove", url.Values{"confirm": {"1"}}, "http://example.com/cart")
	require.Equal(t, []string{"POST /cart/remove/9"}, api.Calls())
	require.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	require.Empty(t, toastTexts(parse(t, rec.Body)), "toast waits for the reload")

	page := parse(t, b.get("/").Body)
	require.Equal(t, []string{"Item removed from cart"}, toastTexts(page))

	again := parse(t, b.get("/").Body)
	require.Empty(t, toastTexts(again), "flash shown once")
}

func TestWishlistToggleRendersBackendState(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wishlist/toggle":
			_, _ = io.WriteString(w, `"added"`)
		case "/wishlist/count":
			_, _ = io.WriteString(w, `2`)
		}
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/wishlist/toggle", url.Values{"productId": {"7"}}, "")
	events := triggers(t, rec)
	require.JSONEq(t, `{"productId":"7","added":true}`, string(events["wishlist:toggled"]))
	require.JSONEq(t, `{"count":2}`, string(events["wishlist:count"]))

	doc := parse(t, rec.Body)
	pressed, _ := doc.Find("#wishlist-7").Attr("aria-pressed")
	require.Equal(t, "true", pressed)
	require.Equal(t, []string{"Added to wishlist!"}, toastTexts(doc))
}

func TestWishlistLoginRequiredMarker(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "login_required")
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/wishlist/toggle", url.Values{"productId": {"7"}}, "http://example.com/")
	require.Contains(t, triggers(t, rec), "auth:required")
	require.Equal(t, []string{"Please sign in!"}, toastTexts(parse(t, rec.Body)))
}

func TestApplyFiltersRedirectKeepsKeyword(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	rec := b.htmx("/ui/filters", url.Values{"category": {"Men"}}, "http://example.com/products?keyword=shoe")
	require.Equal(t, "/products?keyword=shoe&category=Men", rec.Header().Get("HX-Redirect"))

	rec = b.htmx("/ui/filters/clear", url.Values{}, "http://example.com/products?keyword=shoe")
	require.Equal(t, "/products", rec.Header().Get("HX-Redirect"))
}

func TestProductsPageRestoresFilters(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	rec := b.get("/products?keyword=ao&size=L&sort=price_asc")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec.Body)

	require.Equal(t, 1, doc.Find(`#filterForm input[name=size][value=L][checked]`).Length())
	require.Equal(t, "price_asc", doc.Find("#sortSelect option[selected]").AttrOr("value", ""))
	require.Equal(t, "ao", doc.Find("section.col-md-9 p strong").Text())
	require.Positive(t, doc.Find(".product-card").Length())

	types := map[string]bool{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var block map[string]any
		require.NoError(t, json.Unmarshal([]byte(sel.Text()), &block))
		types[block["@type"].(string)] = true
	})
	require.True(t, types["WebSite"])
	require.True(t, types["BreadcrumbList"])
	require.True(t, types["ItemList"])
}

func TestCompareListCapsAtFour(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	for _, id := range []string{"1", "2", "3", "4"} {
		rec := b.htmx("/ui/compare/"+id, url.Values{}, "")
		require.Equal(t, []string{"Added to compare list!"}, toastTexts(parse(t, rec.Body)))
	}

	rec := b.htmx("/ui/compare/5", url.Values{}, "")
	doc := parse(t, rec.Body)
	require.Equal(t, []string{"You can compare at most 4 products!"}, toastTexts(doc))
	require.Equal(t, 1, doc.Find(".toast.bg-warning").Length())
	require.NotContains(t, triggers(t, rec), "compare:count")

	rec = b.htmx("/ui/compare/2", url.Values{}, "")
	require.Equal(t, []string{"This product is already in your compare list!"}, toastTexts(parse(t, rec.Body)))

	require.Equal(t, "4", strings.TrimSpace(b.get("/ui/compare/count").Body.String()))

	page := parse(t, b.get("/compare").Body)
	var ids []string
	page.Find(".compare-item").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
	})
	require.Equal(t, []string{"compare-1", "compare-2", "compare-3", "compare-4"}, ids)
	require.Equal(t, "4", page.Find("#compareCount").Text())

	rec = b.htmx("/ui/compare/2/remove", url.Values{}, "")
	require.JSONEq(t, `{"count":3}`, string(triggers(t, rec)["compare:count"]))
	require.Empty(t, toastTexts(parse(t, rec.Body)))
	rec = b.htmx("/ui/compare/2/remove", url.Values{}, "")
	require.JSONEq(t, `{"count":3}`, string(triggers(t, rec)["compare:count"]))
}

func TestVoucherBlankCodeSkipsBackend(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/voucher/apply", url.Values{"code": {"   "}}, "")
	require.Empty(t, api.Calls())
	doc := parse(t, rec.Body)
	require.Equal(t, []string{"Please enter a voucher code!"}, toastTexts(doc))
	require.Empty(t, rec.Header().Get("HX-Refresh"))
}

func TestVoucherRejectedFallsBackToInvalidMessage(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/voucher/apply", url.Values{"code": {"NOPE"}}, "")
	require.Equal(t, []string{"Invalid voucher code!"}, toastTexts(parse(t, rec.Body)))
}

func TestVoucherAppliedRefreshesPage(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	rec := b.htmx("/ui/voucher/apply", url.Values{"code": {"GIAM10"}}, "http://example.com/cart")
	require.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	require.Len(t, toastTexts(parse(t, b.get("/").Body)), 1)
}

func TestNewsletterInvalidEmailSkipsBackend(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/newsletter", url.Values{"email": {"a@b"}}, "")
	require.Empty(t, api.Calls())
	require.Equal(t, []string{"Invalid email address!"}, toastTexts(parse(t, rec.Body)))

	rec = b.htmx("/ui/newsletter", url.Values{"email": {"a@b.com"}}, "")
	require.Equal(t, []string{"POST /newsletter/subscribe"}, api.Calls())
	require.Contains(t, triggers(t, rec), "newsletter:reset")
	require.Equal(t, []string{"Thanks for subscribing!"}, toastTexts(parse(t, rec.Body)))
}

func TestStepQuantityStaysInBounds(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))

	rec := b.htmx("/ui/qty", url.Values{"dir": {"inc"}, "quantity": {"5"}, "max": {"5"}, "id": {"a"}}, "")
	doc := parse(t, rec.Body)
	require.Equal(t, "5", doc.Find("#qty-a input[name=quantity]").AttrOr("value", ""))
	require.NotContains(t, triggers(t, rec), "change")

	rec = b.htmx("/ui/qty", url.Values{"dir": {"dec"}, "quantity": {"1"}, "id": {"a"}}, "")
	require.Equal(t, "1", parse(t, rec.Body).Find("input[name=quantity]").AttrOr("value", ""))

	rec = b.htmx("/ui/qty", url.Values{"dir": {"inc"}, "quantity": {"998"}, "id": {"a"}}, "")
	doc = parse(t, rec.Body)
	require.Equal(t, "999", doc.Find("input[name=quantity]").AttrOr("value", ""))
	require.Equal(t, "999", doc.Find("input[name=max]").AttrOr("value", ""))
	require.JSONEq(t, `{"target":"qty-a","value":999}`, string(triggers(t, rec)["change"]))
}

func TestPriceRangeSnapsAndOrders(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	rec := b.get("/ui/price-range?rangeMin=3040000&rangeMax=1260000")
	doc := parse(t, rec.Body)
	require.Equal(t, "1300000", doc.Find("#priceMin").AttrOr("value", ""))
	require.Equal(t, "3000000", doc.Find("#priceMax").AttrOr("value", ""))
	require.Equal(t, "1,300,000đ - 3,000,000đ", strings.TrimSpace(doc.Find("#priceRangeLabel").Text()))
}

func TestQuickViewRendersMarkdown(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	rec := b.get("/ui/products/1/quick")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec.Body)
	require.Equal(t, "cotton", doc.Find(".product-description strong").Text())
	require.Equal(t, "42", doc.Find("input[name=max]").AttrOr("value", ""))
}

func TestCountBadgesFromDemoBackend(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, ""))
	b.htmx("/ui/cart/add", url.Values{"productId": {"1"}, "quantity": {"2"}}, "")
	require.Equal(t, "2", strings.TrimSpace(b.get("/ui/cart/count").Body.String()))
	require.Equal(t, "0", strings.TrimSpace(b.get("/ui/wishlist/count").Body.String()))

	rec := b.get("/ui/cart/preview")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUpdateCartItemClampsQuantityAndRefreshes(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	for i, tc := range []struct{ sent, want string }{{"0", "1"}, {"abc", "1"}, {"-3", "1"}, {"4", "4"}} {
		rec := b.htmx("/ui/cart/items/9", url.Values{"quantity": {tc.sent}}, "http://example.com/cart")
		require.Equal(t, "true", rec.Header().Get("HX-Refresh"), tc.sent)
		require.Equal(t, "POST /cart/update/9", api.Calls()[i])
		require.Equal(t, tc.want, api.Form(i).Get("quantity"), tc.sent)
	}
	require.Equal(t, []string{"Cart updated", "Cart updated", "Cart updated", "Cart updated"}, toastTexts(parse(t, b.get("/").Body)))
}

func TestCartItemIdCannotEscapeBackendPath(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/cart/items/..", url.Values{"quantity": {"2"}}, "")
	require.Empty(t, api.Calls())
	require.Empty(t, rec.Header().Get("HX-Refresh"))
	require.Equal(t, []string{"Something went wrong, please try again!"}, toastTexts(parse(t, rec.Body)))
}

func TestRemoveWishlistItemConfirmsThenRefreshes(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/wishlist/items/5/remove", url.Values{}, "http://example.com/wishlist")
	require.Empty(t, api.Calls())
	require.Equal(t, "#confirmSlot", rec.Header().Get("HX-Retarget"))
	action, _ := parse(t, rec.Body).Find(".confirm-dialog [hx-post]").Attr("hx-post")
	require.Equal(t, "/ui/wishlist/items/5/remove", action)

	rec = b.htmx("/ui/wishlist/items/5/remove", url.Values{"confirm": {"1"}}, "http://example.com/wishlist")
	require.Equal(t, []string{"POST /wishlist/remove/5"}, api.Calls())
	require.Equal(t, "true", rec.Header().Get("HX-Refresh"))

	page := parse(t, b.get("/").Body)
	require.Equal(t, []string{"Removed from wishlist!"}, toastTexts(page))
	require.Equal(t, 1, page.Find(".toast.bg-info").Length())
}

func TestRemoveVoucherRefreshesWithInfoToast(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/voucher/remove", url.Values{}, "http://example.com/cart")
	require.Equal(t, []string{"POST /cart/remove-voucher"}, api.Calls())
	require.Equal(t, "true", rec.Header().Get("HX-Refresh"))

	page := parse(t, b.get("/").Body)
	require.Equal(t, []string{"Voucher removed!"}, toastTexts(page))
	require.Equal(t, 1, page.Find(".toast.bg-info").Length())
}

func TestWishlistToggleUnauthorizedRequiresLogin(t *testing.T) {
	api, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))

	rec := b.htmx("/ui/wishlist/toggle", url.Values{"productId": {"7"}}, "http://example.com/products")
	require.Equal(t, []string{"POST /wishlist/toggle"}, api.Calls())
	var auth struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(triggers(t, rec)["auth:required"], &auth))
	require.Equal(t, "/user/login?redirect=%2Fproducts", auth.Redirect)
	require.NotContains(t, triggers(t, rec), "wishlist:toggled")

	doc := parse(t, rec.Body)
	require.Equal(t, []string{"Please sign in!"}, toastTexts(doc))
	require.Equal(t, 1, doc.Find(".toast.bg-warning").Length())
}

func TestLongFlashMessageKeepsSessionCookie(t *testing.T) {
	_, ts := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"`+strings.Repeat("Áp dụng mã thành công ", 150)+`"}`)
	})
	b := newBrowser(t, newTestRouter(t, ts.URL))
	b.htmx("/ui/compare/3", url.Values{}, "")

	rec := b.htmx("/ui/voucher/apply", url.Values{"code": {"GIAM10"}}, "http://example.com/cart")
	require.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	ck := b.cookies["STOREFRONT_SESSION"]
	require.NotNil(t, ck)
	require.Less(t, len(ck.Value), 4000)

	page := parse(t, b.get("/").Body)
	texts := toastTexts(page)
	require.Len(t, texts, 1)
	require.True(t, strings.HasPrefix(texts[0], "Áp dụng mã thành công"))
	require.Equal(t, "1", page.Find("#compareCount").Text())
}

func TestAnalyticsTagComesFromConfig(t *testing.T) {
	doc := parse(t, newBrowser(t, newTestRouter(t, "")).get("/").Body)
	require.Zero(t, doc.Find(`script[src*="googletagmanager"]`).Length())

	h := newTestRouterWithEnv(t, map[string]string{"STOREFRONT_GA_MEASUREMENT_ID": "G-TEST123"})
	doc = parse(t, newBrowser(t, h).get("/").Body)
	src := doc.Find(`script[src*="googletagmanager"]`).AttrOr("src", "")
	require.Contains(t, src, "id=G-TEST123")
}
