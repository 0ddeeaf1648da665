package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	infra "github.com/pot-code/learnhub/internal/infrastructure"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/logging"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
	"github.com/pot-code/learnhub/internal/playback"
	"github.com/pot-code/learnhub/internal/progress"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
	"go.uber.org/zap"
)

// playback events sent by the player
const (
	EventPlay       = "play"
	EventTimeUpdate = "timeupdate"
	EventEnded      = "ended"
	EventComplete   = "complete"
)

// PlaybackEvent client message
type PlaybackEvent struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}

// PlaybackReply server message, Type is "saved" or "error"
type PlaybackReply struct {
	Type            string                `json:"type"`
	Status          progress.RecordStatus `json:"status,omitempty"`
	ProgressSeconds int                   `json:"progressSeconds"`
	Message         string                `json:"message,omitempty"`
}

const playbackWriteTimeout = 10 * time.Second

type PlaybackHandler struct {
	videoProgressUseCase videoprogress.VideoProgressUseCase
	jwtUtil              *auth.JWTUtil
	window               time.Duration
	clock                playback.Clock
}

func NewPlaybackHandler(
	VideoProgressUseCase videoprogress.VideoProgressUseCase,
	JWTUtil *auth.JWTUtil,
	FlushInterval time.Duration,
) *PlaybackHandler {
	return &PlaybackHandler{
		videoProgressUseCase: VideoProgressUseCase,
		jwtUtil:              JWTUtil,
		window:               FlushInterval,
		clock:                playback.RealClock,
	}
}

// HandleUpgrade check the query before switching protocols
func (ph *PlaybackHandler) HandleUpgrade(c echo.Context) error {
	if c.QueryParam("videoId") == "" {
		return badRequest(c, "Failed to validate params", []*validate.FieldError{
			validate.NewFieldError("videoId", "videoId is required"),
		})
	}
	return infra.WithHeartbeat(ph.HandlePlayback)(c)
}

// HandlePlayback drives a playback session from player events until the client disconnects
func (ph *PlaybackHandler) HandlePlayback(c echo.Context, conn *infra.WSConn) error {
	var (
		userID  = ph.jwtUtil.GetContextToken(c).UID()
		videoID = c.QueryParam("videoId")
		logger  = logging.ExtractLoggerFromContext(c.Request().Context()).With(zap.String("video.id", videoID))
	)

	current, err := ph.videoProgressUseCase.Get(c.Request().Context(), userID, videoID)
	if err != nil {
		conn.WriteJSON(&PlaybackReply{Type: "error", Message: "failed to load progress"})
		return err
	}
	status := progress.StatusNotStarted
	if current != nil {
		status = current.Status
	}

	write := func(p playback.Payload) error {
		ctx, cancel := context.WithTimeout(logging.SetLoggerInContext(context.Background(), logger), playbackWriteTimeout)
		defer cancel()
		record, err := ph.videoProgressUseCase.Save(ctx, userID, &videoprogress.ProgressPost{
			VideoID:         videoID,
			Status:          p.Status,
			ProgressSeconds: p.ProgressSeconds,
		})
		if err != nil {
			return err
		}
		return conn.WriteJSON(&PlaybackReply{Type: "saved", Status: record.Status, ProgressSeconds: record.ProgressSeconds})
	}
	onError := func(err error) {
		logger.Warn("failed to save progress", zap.Error(err))
		conn.WriteJSON(&PlaybackReply{Type: "error", Message: "failed to save progress"})
	}
	session := playback.NewSession(status, playback.NewDebouncer(ph.window, ph.clock, write, onError))
	defer session.Close()

	for {
		event := new(PlaybackEvent)
		if err := conn.ReadJSON(event); err != nil {
			return err
		}

		var err error
		switch event.Type {
		case EventPlay:
			err = session.Start()
		case EventTimeUpdate:
			session.TimeUpdate(event.CurrentTime)
		case EventEnded:
			err = session.End(event.Duration)
		case EventComplete:
			err = session.MarkComplete(event.CurrentTime, event.Duration)
		default:
			conn.WriteJSON(&PlaybackReply{Type: "error", Message: "unknown event " + event.Type})
		}
		if err != nil {
			onError(err)
		}
	}
}
