package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/playback"
	"github.com/pot-code/learnhub/internal/progress"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// heldClock never fires, scheduled writes stay pending
type heldClock struct{}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

func (heldClock) AfterFunc(time.Duration, func()) playback.Timer { return heldTimer{} }

func dialPlayback(t *testing.T, uc videoprogress.VideoProgressUseCase, query string) *websocket.Conn {
	t.Helper()
	ph := NewPlaybackHandler(uc, testJWT, time.Second)
	ph.clock = heldClock{}

	e := echo.New()
	e.GET("/ws/playback", ph.HandleUpgrade, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { return next(signedIn(c, "u1")) }
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/playback?"+query, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func saved(status progress.RecordStatus, seconds int) *progress.Record {
	return &progress.Record{Status: status, ProgressSeconds: seconds}
}

func TestHandlePlayback_StartAndEnd(t *testing.T) {
	uc := new(mockVideoProgressUseCase)
	uc.On("Get", mock.Anything, "u1", "v1").Return(nil, nil)
	uc.On("Save", mock.Anything, "u1", &videoprogress.ProgressPost{VideoID: "v1", Status: progress.StatusInProgress}).
		Return(saved(progress.StatusInProgress, 0), nil).Once()
	uc.On("Save", mock.Anything, "u1", &videoprogress.ProgressPost{VideoID: "v1", Status: progress.StatusCompleted, ProgressSeconds: 120}).
		Return(saved(progress.StatusCompleted, 120), nil).Once()

	conn := dialPlayback(t, uc, "videoId=v1")

	require.NoError(t, conn.WriteJSON(&PlaybackEvent{Type: EventPlay}))
	reply := new(PlaybackReply)
	require.NoError(t, conn.ReadJSON(reply))
	assert.Equal(t, "saved", reply.Type)
	assert.Equal(t, progress.StatusInProgress, reply.Status)

	// held by the debounce window
	require.NoError(t, conn.WriteJSON(&PlaybackEvent{Type: EventTimeUpdate, CurrentTime: 12.4}))

	require.NoError(t, conn.WriteJSON(&PlaybackEvent{Type: EventEnded, Duration: 120.7}))
	require.NoError(t, conn.ReadJSON(reply))
	assert.Equal(t, "saved", reply.Type)
	assert.Equal(t, progress.StatusCompleted, reply.Status)
	assert.Equal(t, 120, reply.ProgressSeconds)

	uc.AssertExpectations(t)
}

func TestHandlePlayback_UnknownEvent(t *testing.T) {
	uc := new(mockVideoProgressUseCase)
	uc.On("Get", mock.Anything, "u1", "v1").Return(saved(progress.StatusCompleted, 90), nil)

	conn := dialPlayback(t, uc, "videoId=v1")
	require.NoError(t, conn.WriteJSON(&PlaybackEvent{Type: "seek"}))

	reply := new(PlaybackReply)
	require.NoError(t, conn.ReadJSON(reply))
	assert.Equal(t, "error", reply.Type)
	uc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleUpgrade_RequiresVideo(t *testing.T) {
	c, rec := newContext("GET", "/ws/playback", nil)
	require.NoError(t, NewPlaybackHandler(new(mockVideoProgressUseCase), testJWT, time.Second).HandleUpgrade(signedIn(c, "u1")))
	assert.Equal(t, 400, rec.Code)
}
