package auth

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is where the guard stores validated claims on the echo context.
const ContextKey = "identity"

// Identity is the authenticated caller as encoded in the token.
type Identity struct {
	ID       uuid.UUID
	Email    string
	Username string
}

// Principal is either anonymous or an identified caller.
type Principal struct {
	identity *Identity
}

// Anonymous returns a principal with no identity.
func Anonymous() Principal {
	return Principal{}
}

// Identified returns a principal for the given identity.
func Identified(identity Identity) Principal {
	return Principal{identity: &identity}
}

// Identity returns the caller identity and whether there is one.
func (p Principal) Identity() (Identity, bool) {
	if p.identity == nil {
		return Identity{}, false
	}
	return *p.identity, true
}

// IsAnonymous reports whether the principal carries no identity.
func (p Principal) IsAnonymous() bool {
	return p.identity == nil
}

// PrincipalFrom reads the principal the guard attached to the request.
func PrincipalFrom(c echo.Context) Principal {
	claims, ok := c.Get(ContextKey).(*Claims)
	if !ok || claims == nil {
		return Anonymous()
	}
	return Identified(claims.Identity())
}
