package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "inkwell/internal/errors"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// identityKey is the echo context key holding the resolved user. Distinct
// from echojwt's "user" key, which holds the raw parsed token.
const identityKey = "auth.identity"

// RequireAuth returns the middleware chain guarding protected routes:
// a token verification stage followed by an identity resolution stage.
// No route parses tokens on its own.
//
// Rejections are machine-distinguishable:
//
//	missing header / no "Bearer " prefix -> 401 NO_TOKEN
//	bad signature, malformed, expired    -> 401 INVALID_TOKEN
//	subject no longer exists             -> 401 USER_NOT_FOUND
//	user store unreachable               -> 503 STORE_UNAVAILABLE
func RequireAuth(secret string, users repository.UserRepository) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractionErr *echojwt.TokenExtractionError
			if errors.As(err, &extractionErr) {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Message: "Not authorized, no token",
					Code:    "NO_TOKEN",
				})
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: "Not authorized, token failed",
				Code:    "INVALID_TOKEN",
			})
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return invalidToken()
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return invalidToken()
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return invalidToken()
			}

			// Exactly one store lookup per request; no cross-request caching.
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
						Message: "User not found",
						Code:    "USER_NOT_FOUND",
					})
				}
				// A store outage must never read as a bad token.
				return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.ErrorResponse{
					Message: apperrors.ErrStoreUnavailable.Error(),
					Code:    "STORE_UNAVAILABLE",
				})
			}

			c.Set(identityKey, user)
			return next(c)
		}
	}

	return []echo.MiddlewareFunc{verify, resolve}
}

func invalidToken() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Message: "Not authorized, token failed",
		Code:    "INVALID_TOKEN",
	})
}

// CurrentUser returns the authenticated identity attached by RequireAuth,
// or nil on unprotected routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(identityKey).(*model.User)
	return user
}
