package tenant

import "context"

type contextKey string

const tenantKey contextKey = "marina-tenant-id"

// WithID stores the resolved tenant id on the context.
func WithID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, tenantKey, id)
}

// FromContext retrieves the id stored by WithID.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tenantKey).(int64)
	return id, ok
}
