package auth

import (
	"errors"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "socialhub/internal/errors"
)

var errRevoked = errors.New("identity revoked")

// NewGuard returns middleware that rejects requests without a valid bearer
// token. On success the claims are stored under ContextKey.
func NewGuard(jwtService *JWTService, revocations RevocationStore) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			if revocations != nil {
				revoked, err := revocations.IsUserRevoked(c.Request().Context(), claims.UserID)
				if err != nil {
					return nil, fmt.Errorf("check revocation: %w", err)
				}
				if revoked {
					return nil, errRevoked
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return apperrors.ErrMissingToken.Wrap(err)
			}
			return apperrors.ErrInvalidToken.Wrap(err)
		},
	})
}
