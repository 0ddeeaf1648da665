package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
)

// StatusClientClosedRequest the client went away before the response was written
const StatusClientClosedRequest = 499

// RESTStandardError response error
type RESTStandardError struct {
	Type    string `json:"type,omitempty"`
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

func NewRESTStandardError(code int, detail string) *RESTStandardError {
	return &RESTStandardError{
		Code:   code,
		Title:  statusText(code),
		Detail: detail,
	}
}

func (re RESTStandardError) Error() string {
	return re.Detail
}

func (re RESTStandardError) SetTraceID(traceID string) RESTStandardError {
	re.TraceID = traceID
	return re
}

// RESTValidationError standard validation error
type RESTValidationError struct {
	RESTStandardError
	InvalidParams []*validate.FieldError `json:"invalidParams"`
}

func NewRESTValidationError(code int, detail string, internal []*validate.FieldError) *RESTValidationError {
	return &RESTValidationError{
		RESTStandardError: RESTStandardError{
			Code:   code,
			Title:  statusText(code),
			Detail: detail,
		},
		InvalidParams: internal,
	}
}

func (rve RESTValidationError) Error() string {
	return rve.Detail
}

func (rve RESTValidationError) SetTraceID(traceID string) RESTValidationError {
	rve.RESTStandardError.TraceID = traceID
	return rve
}

func statusText(code int) string {
	if code == StatusClientClosedRequest {
		return "Client Closed Request"
	}
	return http.StatusText(code)
}

func traceID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func badRequest(c echo.Context, detail string, params []*validate.FieldError) error {
	return c.JSON(http.StatusBadRequest,
		NewRESTValidationError(http.StatusBadRequest, detail, params).SetTraceID(traceID(c)))
}

func bindFailed(c echo.Context) error {
	return c.JSON(http.StatusBadRequest,
		NewRESTStandardError(http.StatusBadRequest, "Failed to parse request body").SetTraceID(traceID(c)))
}

func forbidden(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden,
		NewRESTStandardError(http.StatusForbidden, detail).SetTraceID(traceID(c)))
}

func unauthorized(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized,
		NewRESTStandardError(http.StatusUnauthorized, detail).SetTraceID(traceID(c)))
}

// ownUserID the signed-in user, a userId query naming someone else is refused
func ownUserID(c echo.Context, ju *auth.JWTUtil) (string, bool) {
	claims := ju.GetContextToken(c)
	if claims == nil {
		return "", false
	}
	if requested := c.QueryParam("userId"); requested != "" && requested != claims.UID() {
		return "", false
	}
	return claims.UID(), true
}

func acceptLanguage(c echo.Context) string {
	return c.Request().Header.Get("Accept-Language")
}
