package auth

import "context"

type ctxKey string

const identityKey ctxKey = "sessionIdentity"

// Identity is the authenticated user attached to a request context.
type Identity struct {
	UserID     uint
	Username   string
	Email      string
	Role       string
	Onboarding string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) Identity {
	if v, ok := ctx.Value(identityKey).(Identity); ok {
		return v
	}
	return Identity{}
}

// UserID returns the authenticated user's id, or 0 when unauthenticated.
func UserID(ctx context.Context) uint {
	return FromContext(ctx).UserID
}
