package auth

import "context"

// Identity is the authenticated caller as resolved from a credential.
type Identity struct {
	UserID   string
	UserName string
}

// VerifyFunc resolves a bearer credential into an Identity. It returns an
// error wrapping common.ErrorUnauthorized when the credential is not valid.
type VerifyFunc func(ctx context.Context, credential string) (Identity, error)

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
