package shop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/observability"
)

const (
	defaultTimeout    = 8 * time.Second
	defaultLoginPath  = "/user/login"
	idempotencyHeader = "Idempotency-Key"
	maxBodyBytes      = 1 << 20
	tracerName        = "clothes.vn/storefront-web/internal/shop"
)

// Client issues cart, wishlist, voucher, product and newsletter calls against the shop backend.
type Client struct {
	baseURL   string
	loginPath string
	http      *http.Client
	tracer    trace.Tracer
	fake      *fakeBackend
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client; redirects are never followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLoginPath sets the backend login page; redirects to it are reported as KindAuthRequired.
func WithLoginPath(p string) Option {
	return func(c *Client) {
		if p = strings.TrimSpace(p); p != "" {
			c.loginPath = p
		}
	}
}

// NewClient constructs a backend client. When baseURL is empty, the client
// talks to an in-memory demo backend instead.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		loginPath: defaultLoginPath,
		http:      &http.Client{Timeout: defaultTimeout},
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.fake = newFakeBackend()
		c.baseURL = fakeBaseURL
		c.http.Transport = c.fake
	}
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// Demo reports whether the client is backed by the in-memory backend.
func (c *Client) Demo() bool {
	return c != nil && c.fake != nil
}

// LoginPath returns the login page the browser is sent to on KindAuthRequired.
func (c *Client) LoginPath() string {
	return c.loginPath
}

// AddToCartRequest carries the add-to-cart form. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

// CartUpdate is the outcome of an add-to-cart call.
type CartUpdate struct {
	Message string
	// Count is the refreshed number of cart items when the backend reported it.
	Count    int
	HasCount bool
}

// AddToCart posts the item to /cart/api/add.
func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) (CartUpdate, error) {
	const op = "add_to_cart"
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return CartUpdate{}, &Error{Op: op, Kind: KindGeneric, Err: ErrMissingID}
	}
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	form := url.Values{}
	form.Set("productId", productID)
	form.Set("quantity", strconv.Itoa(qty))
	if s := strings.TrimSpace(req.Size); s != "" {
		form.Set("size", s)
	}
	if col := strings.TrimSpace(req.Color); col != "" {
		form.Set("color", col)
	}

	env, err := c.mutate(ctx, op, form, true, "cart", "api", "add")
	if err != nil {
		return CartUpdate{}, err
	}
	out := CartUpdate{Message: env.Message}
	if env.Count != nil {
		out.Count, out.HasCount = *env.Count, true
	}
	return out, nil
}

// UpdateCartItem sets the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (string, error) {
	const op = "update_cart_item"
	itemID, err := pathID(op, itemID)
	if err != nil {
		return "", err
	}
	form := url.Values{}
	form.Set("quantity", strconv.Itoa(quantity))
	env, err := c.mutate(ctx, op, form, false, "cart", "update", itemID)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	const op = "remove_cart_item"
	itemID, err := pathID(op, itemID)
	if err != nil {
		return err
	}
	_, err = c.mutate(ctx, op, url.Values{}, false, "cart", "remove", itemID)
	return err
}

// CartCount returns the number of items in the user's cart.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	return c.count(ctx, "cart_count", "cart", "count")
}

// WishlistToggle is the backend-reported state after toggling a product.
type WishlistToggle struct {
	ProductID string
	Added     bool
	Message   string
}

// ToggleWishlist adds or removes a product from the wishlist. The resulting
// state always comes from the backend.
func (c *Client) ToggleWishlist(ctx context.Context, productID string) (WishlistToggle, error) {
	const op = "toggle_wishlist"
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return WishlistToggle{}, &Error{Op: op, Kind: KindGeneric, Err: ErrMissingID}
	}
	form := url.Values{}
	form.Set("productId", productID)
	env, err := c.mutate(ctx, op, form, false, "wishlist", "toggle")
	if err != nil {
		return WishlistToggle{}, err
	}
	if env.Added == nil {
		return WishlistToggle{}, &Error{Op: op, Kind: KindGeneric, Message: env.Message, Err: errUnexpectedPayload}
	}
	return WishlistToggle{ProductID: productID, Added: *env.Added, Message: env.Message}, nil
}

// RemoveWishlistItem deletes a wishlist entry.
func (c *Client) RemoveWishlistItem(ctx context.Context, itemID string) error {
	const op = "remove_wishlist_item"
	itemID, err := pathID(op, itemID)
	if err != nil {
		return err
	}
	_, err = c.mutate(ctx, op, url.Values{}, false, "wishlist", "remove", itemID)
	return err
}

// WishlistCount returns the number of wishlist entries.
func (c *Client) WishlistCount(ctx context.Context) (int, error) {
	return c.count(ctx, "wishlist_count", "wishlist", "count")
}

// ApplyVoucher applies a discount code to the cart. Callers reject blank codes before calling.
func (c *Client) ApplyVoucher(ctx context.Context, code string) (string, error) {
	const op = "apply_voucher"
	code = strings.TrimSpace(code)
	if code == "" {
		return "", &Error{Op: op, Kind: KindGeneric, Err: ErrMissingID}
	}
	form := url.Values{}
	form.Set("code", code)
	env, err := c.mutate(ctx, op, form, true, "cart", "apply-voucher")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// RemoveVoucher drops the applied discount code.
func (c *Client) RemoveVoucher(ctx context.Context) (string, error) {
	env, err := c.mutate(ctx, "remove_voucher", url.Values{}, false, "cart", "remove-voucher")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// SubscribeNewsletter registers an email address. Callers validate the address first.
func (c *Client) SubscribeNewsletter(ctx context.Context, email string) (string, error) {
	form := url.Values{}
	form.Set("email", strings.TrimSpace(email))
	env, err := c.mutate(ctx, "subscribe_newsletter", form, false, "newsletter", "subscribe")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) count(ctx context.Context, op string, segments ...string) (int, error) {
	raw, err := c.do(ctx, op, http.MethodGet, nil, false, segments...)
	if err != nil {
		return 0, err
	}
	env, err := decodeEnvelope(raw)
	if err != nil || env.Count == nil {
		if err == nil {
			err = errUnexpectedPayload
		}
		return 0, &Error{Op: op, Kind: KindGeneric, Err: err}
	}
	if *env.Count < 0 {
		return 0, nil
	}
	return *env.Count, nil
}

// mutate posts a form and requires a successful envelope in return.
func (c *Client) mutate(ctx context.Context, op string, form url.Values, idempotent bool, segments ...string) (envelope, error) {
	raw, err := c.do(ctx, op, http.MethodPost, form, idempotent, segments...)
	if err != nil {
		return envelope{}, err
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return envelope{}, &Error{Op: op, Kind: KindGeneric, Err: err}
	}
	if env.authRequired {
		return envelope{}, &Error{Op: op, Kind: KindAuthRequired, Status: http.StatusOK}
	}
	if !env.ok() {
		return envelope{}, &Error{Op: op, Kind: KindGeneric, Status: http.StatusOK, Message: env.Message}
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, op, method string, form url.Values, idempotent bool, segments ...string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "shop."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method)),
	)
	defer span.End()

	fail := func(err *Error) ([]byte, error) {
		span.SetStatus(codes.Error, err.Kind.String())
		if err.Err != nil {
			span.RecordError(err.Err)
		}
		observability.FromContext(ctx).Warn("backend call failed",
			zap.String("op", op),
			zap.String("kind", err.Kind.String()),
			zap.Int("status", err.Status),
			zap.Error(err),
		)
		return nil, err
	}

	endpoint, err := url.JoinPath(c.baseURL, segments...)
	if err != nil {
		return fail(&Error{Op: op, Kind: KindGeneric, Err: err})
	}
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fail(&Error{Op: op, Kind: KindGeneric, Err: err})
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if idempotent {
		req.Header.Set(idempotencyHeader, uuid.NewString())
	}
	for _, ck := range forwardedCookies(ctx) {
		req.AddCookie(ck)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(&Error{Op: op, Kind: KindGeneric, Err: err})
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(&Error{Op: op, Kind: KindGeneric, Status: resp.StatusCode, Err: err})
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fail(&Error{Op: op, Kind: KindAuthRequired, Status: resp.StatusCode})
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		if c.isLoginRedirect(resp.Header.Get("Location")) {
			return fail(&Error{Op: op, Kind: KindAuthRequired, Status: resp.StatusCode})
		}
		return fail(&Error{Op: op, Kind: KindGeneric, Status: resp.StatusCode, Err: fmt.Errorf("unexpected redirect to %q", resp.Header.Get("Location"))})
	case resp.StatusCode >= 400:
		return fail(&Error{
			Op:      op,
			Kind:    KindGeneric,
			Status:  resp.StatusCode,
			Message: messageFrom(raw),
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, drainError(raw)),
		})
	}
	return raw, nil
}

// pathID trims id and rejects values that url.JoinPath would clean into a
// different endpoint.
func pathID(op, id string) (string, error) {
	id = strings.TrimSpace(id)
	switch {
	case id == "":
		return "", &Error{Op: op, Kind: KindGeneric, Err: ErrMissingID}
	case id == "." || id == ".." || strings.ContainsAny(id, "/\\"):
		return "", &Error{Op: op, Kind: KindGeneric, Err: ErrInvalidID}
	}
	return id, nil
}

func (c *Client) isLoginRedirect(location string) bool {
	if location == "" {
		return false
	}
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, c.loginPath)
}

func drainError(raw []byte) string {
	if len(raw) > 256 {
		raw = raw[:256]
	}
	return strings.TrimSpace(string(raw))
}
