package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/recipegrid/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context so Reset and Submit
// can log who triggered them.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // Already processed by chi middleware.RealIP
	ua := r.Header.Get("User-Agent")
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, ua)
	return ctx
}
