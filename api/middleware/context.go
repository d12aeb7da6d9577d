package middleware

import "context"

type contextKey string

const (
	ctxBuyerID contextKey = "buyer_id"
	ctxAdmin   contextKey = "admin"
)

// BuyerIDFromContext returns the verified buyer id seeded by BuyerSession.
func BuyerIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(ctxBuyerID).(int64)
	return id, ok && id > 0
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(ctxAdmin).(bool)
	return v
}

// WithBuyerID injects the buyer identifier into the context.
func WithBuyerID(ctx context.Context, buyerID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBuyerID, buyerID)
}

// WithAdmin marks the context as carrying a verified admin session.
func WithAdmin(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdmin, true)
}
