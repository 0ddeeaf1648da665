package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/logging"
	"github.com/pot-code/learnhub/internal/interfaces/rest/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingReporter struct {
	errs []error
}

func (r *recordingReporter) Report(_ *http.Request, err error, _ map[string]interface{}) {
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) Close() {}

func serveWithErrorHandling(t *testing.T, ctx context.Context, h echo.HandlerFunc) (*httptest.ResponseRecorder, *observer.ObservedLogs, *recordingReporter) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reporter := new(recordingReporter)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/video-progress?videoId=v1", nil)
	req = req.WithContext(logging.SetLoggerInContext(ctx, zap.New(core)))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, ErrorHandling(&ErrorHandlingOption{Reporter: reporter})(h)(c))
	return rec, logs, reporter
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *handler.RESTStandardError {
	t.Helper()
	got := new(handler.RESTStandardError)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), got))
	return got
}

func TestErrorHandling_StoreErrorIsGeneric(t *testing.T) {
	rec, logs, reporter := serveWithErrorHandling(t, context.Background(), func(c echo.Context) error {
		return pkgerrors.Wrap(errors.New(`relation "progress_videos" does not exist`), "insert progress")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, internalErrorDetail, got.Detail)
	assert.NotContains(t, rec.Body.String(), "progress_videos")
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Len(t, reporter.errs, 1)
}

func TestErrorHandling_ClientAbort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec, logs, reporter := serveWithErrorHandling(t, ctx, func(c echo.Context) error {
		cancel()
		return pkgerrors.Wrap(c.Request().Context().Err(), "query progress")
	})

	assert.Equal(t, handler.StatusClientClosedRequest, rec.Code)
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Empty(t, reporter.errs)
}

func TestErrorHandling_Timeout(t *testing.T) {
	rec, _, reporter := serveWithErrorHandling(t, context.Background(), func(c echo.Context) error {
		return pkgerrors.Wrap(context.DeadlineExceeded, "query progress")
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, reporter.errs)
}

func TestErrorHandling_HTTPError(t *testing.T) {
	rec, _, reporter := serveWithErrorHandling(t, context.Background(), func(c echo.Context) error {
		return echo.ErrNotFound
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeError(t, rec).Detail)
	assert.Empty(t, reporter.errs)
}

func TestErrorHandling_Panic(t *testing.T) {
	rec, _, reporter := serveWithErrorHandling(t, context.Background(), func(c echo.Context) error {
		panic("nil map")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, reporter.errs, 1)
	assert.EqualError(t, reporter.errs[0], "nil map")
}

func TestErrorHandling_CommittedResponseUntouched(t *testing.T) {
	rec, _, _ := serveWithErrorHandling(t, context.Background(), func(c echo.Context) error {
		c.NoContent(http.StatusAccepted)
		return errors.New("late failure")
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}
