package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/interfaces/rest/handler"
)

// ValidateTokenOption ...
type ValidateTokenOption struct {
	InBlackList func(ctx context.Context, token string) (bool, error)
}

func blacklistFrom(options []*ValidateTokenOption) func(context.Context, string) (bool, error) {
	if len(options) > 0 {
		if option := options[0]; option.InBlackList != nil {
			return option.InBlackList
		}
	}
	return func(context.Context, string) (bool, error) { return false, nil }
}

// VerifyToken validate JWT, the claims are stored in context on success
func VerifyToken(ju *auth.JWTUtil, options ...*ValidateTokenOption) echo.MiddlewareFunc {
	inBlacklist := blacklistFrom(options)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, err := ju.ExtractToken(c)
			if err != nil {
				return unauthorized(c, err.Error())
			}

			if ok, err := inBlacklist(c.Request().Context(), tokenStr); err != nil {
				return err
			} else if ok {
				return unauthorized(c, "token has been revoked")
			}

			token, err := ju.Validate(tokenStr)
			if err != nil {
				return unauthorized(c, "invalid token")
			}
			ju.SetContextToken(c, token)
			return next(c)
		}
	}
}

// OptionalToken like VerifyToken for public routes: a missing, invalid or revoked
// token leaves the request anonymous instead of rejecting it
func OptionalToken(ju *auth.JWTUtil, options ...*ValidateTokenOption) echo.MiddlewareFunc {
	inBlacklist := blacklistFrom(options)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, err := ju.ExtractToken(c)
			if err != nil {
				return next(c)
			}

			if ok, err := inBlacklist(c.Request().Context(), tokenStr); err != nil {
				return err
			} else if ok {
				return next(c)
			}

			if token, err := ju.Validate(tokenStr); err == nil {
				ju.SetContextToken(c, token)
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized,
		handler.NewRESTStandardError(http.StatusUnauthorized, detail).
			SetTraceID(c.Response().Header().Get(echo.HeaderXRequestID)))
}
