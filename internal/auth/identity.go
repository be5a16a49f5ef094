package auth

import (
	"context"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// Identity is the verified caller of a protected operation.
type Identity struct {
	UserID int64
	Role   model.Role
}

func (id Identity) Is(role model.Role) bool {
	return id.Role == role
}

type ctxKey int8

const identityKey ctxKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
