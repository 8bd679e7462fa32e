package middleware

import "context"

type contextKey string

const ctxAdminID contextKey = "admin_id"

// AdminIDFromContext returns the authenticated CMS admin, or 0.
func AdminIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxAdminID).(uint); ok {
		return v
	}
	return 0
}

// WithAdminID injects the admin identifier into the context.
func WithAdminID(ctx context.Context, adminID uint) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}
