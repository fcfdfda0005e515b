package middleware

import (
	"net/http"

	"clothes.vn/storefront-web/internal/shop"
)

// ForwardCookies makes the named browser cookies (the backend's own session
// cookies) ride along on every backend call made with the request context.
// The backend alone decides whether the user is signed in.
func ForwardCookies(names []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookies := shop.CookiesFrom(r, names); len(cookies) > 0 {
				r = r.WithContext(shop.WithCookies(r.Context(), cookies))
			}
			next.ServeHTTP(w, r)
		})
	}
}
