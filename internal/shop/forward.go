package shop

import (
	"context"
	"net/http"
)

type cookiesKey struct{}

// WithCookies attaches the user's backend session cookies to ctx so every
// backend call made with it is issued on the user's behalf.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	if len(cookies) == 0 {
		return ctx
	}
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

// CookiesFrom returns the request cookies whose names are listed in names.
func CookiesFrom(r *http.Request, names []string) []*http.Cookie {
	var out []*http.Cookie
	for _, name := range names {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

func forwardedCookies(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}
