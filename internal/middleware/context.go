package middleware

import "context"

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "req_id"
	ctxKeyIsHTMX    ctxKey = "is_htmx"
	ctxKeySession   ctxKey = "session"
	ctxKeyLocaleFB  ctxKey = "locale_fallback"
)

// WithRequestID records the chi request id for loggers further down the chain.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyRequestID).(string)
	return id, ok
}

// WithHTMX records whether the browser sent HX-Request. Effects uses it to pick
// between htmx headers and a plain 303.
func WithHTMX(ctx context.Context, htmx bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, htmx)
}

func IsHTMX(ctx context.Context) bool {
	htmx, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return htmx
}
