package authapi

import "context"

type contextKey int

const (
	cookieKey contextKey = iota
	requestIDKey
)

// WithCookie returns a context carrying the Cookie header of the signed-in
// administrator. Every call made with it acts on behalf of that session.
func WithCookie(ctx context.Context, cookie string) context.Context {
	return context.WithValue(ctx, cookieKey, cookie)
}

// CookieFrom returns the Cookie header stored in ctx.
func CookieFrom(ctx context.Context) string {
	v, _ := ctx.Value(cookieKey).(string)
	return v
}

// WithRequestID returns a context carrying the request id forwarded upstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id stored in ctx.
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
