// Package auth defines the acting user threaded through handlers and services.
package auth

import (
	"context"

	"carta/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated user performing an operation. It is built from
// the access token by the JWT middleware and passed down explicitly; services
// treat it as read-only.
type Actor struct {
	UsuarioID uuid.UUID
	Email     string
	Rol       string
}

// Anonimo is the zero actor used for storefront requests without a token.
var Anonimo = Actor{}

func (a Actor) Autenticado() bool { return a.UsuarioID != uuid.Nil }

func (a Actor) EsAdmin() bool { return a.Autenticado() && a.Rol == model.RolAdmin }

type ctxKey struct{}

// WithActor stores the actor on ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor on ctx, or Anonimo.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKey{}).(Actor); ok {
		return a
	}
	return Anonimo
}
