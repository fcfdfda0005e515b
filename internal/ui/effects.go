// Package ui turns handler outcomes into htmx view-state updates: response
// headers, trigger events and out-of-band toasts.
package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/observability"
)

// Events dispatched to the page through HX-Trigger.
const (
	EventToast           = "toast"
	EventCartCount       = "cart:count"
	EventWishlistCount   = "wishlist:count"
	EventWishlistToggled = "wishlist:toggled"
	EventCompareCount    = "compare:count"
	EventAuthRequired    = "auth:required"
	EventNewsletterReset = "newsletter:reset"
	EventChange          = "change"
)

// AuthRedirectDelay is how long the sign-in warning shows before the browser navigates.
const AuthRedirectDelay = 1500 * time.Millisecond

// AuthRequired is the payload of the auth:required event.
type AuthRequired struct {
	Redirect string `json:"redirect"`
	DelayMs  int64  `json:"delayMs"`
}

// Effects accumulates the view-state changes of one response.
type Effects struct {
	closeLabel string
	toasts     []notify.Toast
	badges     []badge
	events     map[string]any
	order      []string
	refresh    bool
	redirect   string
	loginURL   string
}

// New returns empty effects; closeLabel labels the dismiss button of rendered toasts.
func New(closeLabel string) *Effects {
	return &Effects{closeLabel: closeLabel, events: map[string]any{}}
}

// Toast queues a toast in insertion order.
func (e *Effects) Toast(t notify.Toast) *Effects {
	e.toasts = append(e.toasts, t)
	return e
}

// Trigger queues an event for HX-Trigger. A later call with the same name replaces the payload.
func (e *Effects) Trigger(name string, payload any) *Effects {
	if _, ok := e.events[name]; !ok {
		e.order = append(e.order, name)
	}
	if payload == nil {
		payload = true
	}
	e.events[name] = payload
	return e
}

type badge struct {
	id    string
	count int
}

// CountPayload is the payload of the count events.
type CountPayload struct {
	Count int `json:"count"`
}

// Count publishes a refreshed counter: event carries the value and the badge
// element badgeID is updated out of band.
func (e *Effects) Count(event, badgeID string, n int) *Effects {
	if n < 0 {
		n = 0
	}
	e.badges = append(e.badges, badge{id: badgeID, count: n})
	return e.Trigger(event, CountPayload{Count: n})
}

// Refresh reloads the page; queued toasts survive the reload as session flash.
func (e *Effects) Refresh() *Effects {
	e.refresh = true
	return e
}

// Redirect navigates the browser to target.
func (e *Effects) Redirect(target string) *Effects {
	e.redirect = target
	return e
}

// RequireLogin sends the browser to loginURL after AuthRedirectDelay.
func (e *Effects) RequireLogin(loginURL string) *Effects {
	e.loginURL = loginURL
	return e.Trigger(EventAuthRequired, AuthRequired{Redirect: loginURL, DelayMs: AuthRedirectDelay.Milliseconds()})
}

// Events returns the queued event names in order.
func (e *Effects) Events() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Write emits the response. For htmx requests body renders the main fragment
// (nil means no swap) and toasts are appended out of band; other callers are
// redirected with 303 and their toasts flashed into the session.
func (e *Effects) Write(w http.ResponseWriter, r *http.Request, body func(io.Writer) error) {
	sess := middleware.SessionFromContext(r.Context())
	if !middleware.IsHTMX(r.Context()) {
		if sess != nil {
			sess.PushFlash(e.takeToasts()...)
		}
		http.Redirect(w, r, e.fallbackTarget(r), http.StatusSeeOther)
		return
	}

	if (e.refresh || e.redirect != "") && sess != nil {
		sess.PushFlash(e.takeToasts()...)
	}

	var buf bytes.Buffer
	if body != nil {
		if err := body(&buf); err != nil {
			observability.FromContext(r.Context()).Error("render fragment", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}
	for _, b := range e.badges {
		fmt.Fprintf(&buf, `<span id="%s" hx-swap-oob="innerHTML">%d</span>`, html.EscapeString(b.id), b.count)
	}
	if err := notify.Render(&buf, e.closeLabel, e.takeToasts()...); err != nil {
		observability.FromContext(r.Context()).Error("render toasts", zap.Error(err))
	}

	h := w.Header()
	if trigger := e.triggerHeader(); trigger != "" {
		h.Set("HX-Trigger", trigger)
	}
	switch {
	case e.redirect != "":
		h.Set("HX-Redirect", e.redirect)
	case e.refresh:
		h.Set("HX-Refresh", "true")
	}
	if body == nil {
		h.Set("HX-Reswap", "none")
	}
	h.Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// takeToasts hands the queued toasts to exactly one destination.
func (e *Effects) takeToasts() []notify.Toast {
	out := e.toasts
	e.toasts = nil
	return out
}

// Reject answers a request refused before any handler ran. htmx callers get
// status with the toasts as HX-Trigger events and no swap, since htmx ignores
// bodies of error responses. Other callers get a plain text error.
func (e *Effects) Reject(w http.ResponseWriter, r *http.Request, status int) {
	toasts := e.takeToasts()
	if !middleware.IsHTMX(r.Context()) {
		msg := http.StatusText(status)
		if len(toasts) > 0 {
			msg = toasts[0].Message
		}
		http.Error(w, msg, status)
		return
	}
	for _, t := range toasts {
		e.Trigger(EventToast, t)
	}
	h := w.Header()
	if trigger := e.triggerHeader(); trigger != "" {
		h.Set("HX-Trigger", trigger)
	}
	h.Set("HX-Reswap", "none")
	w.WriteHeader(status)
}

func (e *Effects) fallbackTarget(r *http.Request) string {
	switch {
	case e.loginURL != "":
		return e.loginURL
	case e.redirect != "":
		return e.redirect
	}
	return middleware.CurrentPath(r, "/")
}

func (e *Effects) triggerHeader() string {
	if len(e.order) == 0 {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range e.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(name)
		v, err := json.Marshal(e.events[name])
		if err != nil {
			v = []byte("true")
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.String()
}

// LoginURL builds the sign-in page URL that returns to current afterwards.
func LoginURL(loginPath, current string) string {
	if current == "" {
		current = "/"
	}
	return loginPath + "?redirect=" + url.QueryEscape(current)
}
