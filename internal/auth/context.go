package auth

import "context"

type contextKey string

const actingUserKey contextKey = "actingUser"

// ContextWithUser returns a new context carrying the authenticated acting user.
func ContextWithUser(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, actingUserKey, name)
}

// UserFromContext retrieves the acting user from the context, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(actingUserKey)
	if value == nil {
		return "", false
	}
	name, ok := value.(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
