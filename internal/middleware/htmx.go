package middleware

import (
	"net/http"
	"net/url"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentURL is the page the browser showed when it sent r: the htmx
// HX-Current-URL header, else the Referer.
func CurrentURL(r *http.Request) string {
	if v := r.Header.Get("HX-Current-URL"); v != "" {
		return v
	}
	return r.Referer()
}

// CurrentPath returns the path and query of CurrentURL, or fallback when unknown
// or pointing at another host.
func CurrentPath(r *http.Request, fallback string) string {
	raw := CurrentURL(r)
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return fallback
	}
	if u.Host != "" && u.Host != r.Host {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
