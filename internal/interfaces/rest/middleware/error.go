package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/logging"
	"github.com/pot-code/learnhub/internal/infrastructure/reporting"
	"github.com/pot-code/learnhub/internal/interfaces/rest/handler"
	"go.uber.org/zap"
)

// internalErrorDetail the only detail a client ever sees for an unexpected error
const internalErrorDetail = "Internal server error, please try again later"

// ErrorHandlingOption options for error handling
type ErrorHandlingOption struct {
	Reporter reporting.Reporter
}

// ErrorHandling turn errors and panics returned from controllers into responses.
// **DO NOT return error anymore**
func ErrorHandling(options ...*ErrorHandlingOption) echo.MiddlewareFunc {
	var reporter reporting.Reporter = reporting.NopReporter{}
	if len(options) > 0 {
		if option := options[0]; option.Reporter != nil {
			reporter = option.Reporter
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (ret error) {
			// canceled only when the client goes away, unlike the request deadline set further down
			clientCtx := c.Request().Context()
			defer func() {
				if any := recover(); any != nil {
					err, ok := any.(error)
					if !ok {
						err = fmt.Errorf("%v", any)
					}
					handleError(c, clientCtx, reporter, err)
					ret = nil
				}
			}()
			if err := next(c); err != nil {
				handleError(c, clientCtx, reporter, err)
			}
			return nil
		}
	}
}

func handleError(c echo.Context, clientCtx context.Context, reporter reporting.Reporter, err error) {
	if c.Response().Committed {
		return
	}
	var (
		req     = c.Request()
		traceID = c.Response().Header().Get(echo.HeaderXRequestID)
		logger  = logging.ExtractLoggerFromContext(req.Context())
	)

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		c.JSON(he.Code, handler.NewRESTStandardError(he.Code, fmt.Sprint(he.Message)).SetTraceID(traceID))
	case errors.Is(err, context.Canceled) || clientCtx.Err() != nil:
		logger.Debug("request aborted by client", zap.String("url.path", req.RequestURI))
		c.JSON(handler.StatusClientClosedRequest,
			handler.NewRESTStandardError(handler.StatusClientClosedRequest, "Request aborted").SetTraceID(traceID))
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request timed out", zap.String("url.path", req.RequestURI), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable,
			handler.NewRESTStandardError(http.StatusServiceUnavailable, "Request timed out").SetTraceID(traceID))
	default:
		logger.Error(err.Error(),
			zap.String("url.path", req.RequestURI),
			zap.String("client.address", req.RemoteAddr),
			zap.String("http.request.method", req.Method),
			zap.Int64("http.request.body.bytes", req.ContentLength),
			zap.Strings("route.params.name", c.ParamNames()),
			zap.Strings("route.params.value", c.ParamValues()),
			zap.String("trace.id", traceID),
		)
		reporter.Report(req, err, map[string]interface{}{"trace_id": traceID})
		c.JSON(http.StatusInternalServerError,
			handler.NewRESTStandardError(http.StatusInternalServerError, internalErrorDetail).SetTraceID(traceID))
	}
}
