package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"clothes.vn/storefront-web/internal/notify"
)

const (
	sessionCookieName = "STOREFRONT_SESSION"
	sessionTTL        = 30 * 24 * time.Hour
	maxFlash          = 5
	maxFlashRunes     = 200
	// maxCookieValue keeps name, value and attributes under the 4096 byte browser limit.
	maxCookieValue = 3800
)

type SessionData struct {
	ID        string `json:"id"`
	Locale    string `json:"locale,omitempty"`
	CSRFToken string `json:"csrf,omitempty"`
	// Compare holds the encoded compare list (a JSON array of product ids).
	Compare   json.RawMessage `json:"compareList,omitempty"`
	Flash     []notify.Toast  `json:"flash,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool `json:"-"`
}

var (
	sessionSignKey []byte
	sessionSecure  bool
)

// ConfigureSession sets the cookie signing key and the Secure flag. An empty
// key is replaced by a process-ephemeral one; ConfigureSession reports that case.
func ConfigureSession(key string, secure bool) (ephemeral bool) {
	sessionSecure = secure
	if key = strings.TrimSpace(key); key != "" {
		sessionSignKey = []byte(key)
		return false
	}
	sessionSignKey = make([]byte, 32)
	if _, err := rand.Read(sessionSignKey); err != nil {
		sessionSignKey = []byte("insecure-dev-key-please-set-STOREFRONT_SESSION_SIGNING_KEY")
	}
	return true
}

// Session loads or initializes a session and stores it in request context.
// The cookie is rewritten right before the response starts when the session changed.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(sessionSignKey) == 0 {
			ConfigureSession("", sessionSecure)
		}
		sd, fromCookie := readSessionCookie(r)
		if sd.ID == "" {
			sd.ID = randID()
			sd.CreatedAt = time.Now().UTC()
			sd.UpdatedAt = sd.CreatedAt
			sd.CSRFToken = newCSRFToken()
			sd.dirty = true
		}
		ctx := WithSession(r.Context(), sd)
		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				writeSessionCookie(w, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		// nothing written (e.g. HEAD); persist now
		if !rw.Wrote() && (sd.dirty || !fromCookie) {
			writeSessionCookie(w, sd)
		}
	})
}

// WithSession attaches session data to ctx.
func WithSession(ctx context.Context, s *SessionData) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

// SessionFromContext returns the request's session, or nil outside the Session middleware.
func SessionFromContext(ctx context.Context) *SessionData {
	if sd, ok := ctx.Value(ctxKeySession).(*SessionData); ok {
		return sd
	}
	return nil
}

// GetSession returns session data from the request, never nil.
func GetSession(r *http.Request) *SessionData {
	if sd := SessionFromContext(r.Context()); sd != nil {
		return sd
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// CompareData returns the stored compare list encoding.
func (s *SessionData) CompareData() []byte { return s.Compare }

// SetCompareData replaces the stored compare list encoding.
func (s *SessionData) SetCompareData(data []byte) {
	s.Compare = json.RawMessage(data)
	s.MarkDirty()
}

// PushFlash queues a toast for the next full page render. Only the newest
// maxFlash toasts are kept and long messages are cut to maxFlashRunes.
func (s *SessionData) PushFlash(toasts ...notify.Toast) {
	if len(toasts) == 0 {
		return
	}
	for _, t := range toasts {
		t.Message = truncateRunes(t.Message, maxFlashRunes)
		s.Flash = append(s.Flash, t)
	}
	if len(s.Flash) > maxFlash {
		s.Flash = s.Flash[len(s.Flash)-maxFlash:]
	}
	s.MarkDirty()
}

// TakeFlash empties the flash queue and returns it in insertion order.
func (s *SessionData) TakeFlash() []notify.Toast {
	if len(s.Flash) == 0 {
		return nil
	}
	out := s.Flash
	s.Flash = nil
	s.MarkDirty()
	return out
}

// readSessionCookie parses and verifies the session cookie
func readSessionCookie(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return &SessionData{}, false
	}
	payloadB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return &SessionData{}, false
	}
	sigB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &SessionData{}, false
	}
	mac := hmac.New(sha256.New, sessionSignKey)
	mac.Write(payloadB)
	if !hmac.Equal(sigB, mac.Sum(nil)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payloadB, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

// encodeSession signs sd. Oldest flash toasts are dropped until the value fits
// in a browser cookie; a dropped cookie would lose the compare list and CSRF binding.
func encodeSession(sd *SessionData) string {
	for {
		b, _ := json.Marshal(sd)
		mac := hmac.New(sha256.New, sessionSignKey)
		mac.Write(b)
		value := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
		if len(value) <= maxCookieValue || len(sd.Flash) == 0 {
			return value
		}
		sd.Flash = sd.Flash[1:]
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func writeSessionCookie(w http.ResponseWriter, sd *SessionData) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encodeSession(sd),
		Path:     "/",
		HttpOnly: true,
		Secure:   sessionSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
