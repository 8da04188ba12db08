package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialhub/internal/auth"
	apperrors "socialhub/internal/errors"
)

const bcryptCost = 10

// requireIdentity unwraps the caller or fails with Unauthenticated.
func requireIdentity(principal auth.Principal) (auth.Identity, error) {
	identity, ok := principal.Identity()
	if !ok || identity.ID == uuid.Nil {
		return auth.Identity{}, apperrors.ErrUnauthenticated
	}
	return identity, nil
}

// lookupErr converts a repository lookup failure into notFound when the row
// is missing and wraps anything else with op.
func lookupErr(err error, notFound *apperrors.Error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
