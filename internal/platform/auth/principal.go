package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// ValidRole reports whether role is one an actor can register with.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor
}

// Principal is the authenticated actor a request acts on behalf of. The zero
// value is the anonymous principal.
type Principal struct {
	ID     uuid.UUID
	Handle string
	Role   string
}

func (p Principal) Authenticated() bool {
	return p.ID != uuid.Nil
}

// Require returns ErrUnauthenticated for the anonymous principal and
// ErrForbidden when the principal holds none of roles.
func (p Principal) Require(roles ...string) error {
	if !p.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return apperr.ErrForbidden
}

type contextKey string

const (
	principalKey contextKey = "principal"
	claimsKey    contextKey = "session_claims"
)

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored by SessionMiddleware, or
// the anonymous principal.
func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey).(Principal)
	return p
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the verified session claims of the request, if any.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}
