package handler

import (
	"io"
	"net/http/httptest"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
)

var (
	testJWT       = auth.NewJWTUtil("HS256", "secret", "access_token")
	testValidator = validate.NewValidator()
)

func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func signedIn(c echo.Context, userID string) echo.Context {
	testJWT.SetContextToken(c, &auth.AppTokenClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	return c
}
