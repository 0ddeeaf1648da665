package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
)

type VideoProgressHandler struct {
	videoProgressUseCase videoprogress.VideoProgressUseCase
	validator            validate.Validator
	jwtUtil              *auth.JWTUtil
}

func NewVideoProgressHandler(
	VideoProgressUseCase videoprogress.VideoProgressUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *VideoProgressHandler {
	return &VideoProgressHandler{VideoProgressUseCase, Validator, JWTUtil}
}

// HandleSaveProgress insert-or-update the caller's progress on a video
func (vh *VideoProgressHandler) HandleSaveProgress(c echo.Context) error {
	claims := vh.jwtUtil.GetContextToken(c)
	post := new(videoprogress.ProgressPost)
	if err := c.Bind(post); err != nil {
		return bindFailed(c)
	}
	if err := vh.validator.Struct(post, acceptLanguage(c)); err != nil {
		return badRequest(c, "Failed to validate fields", err)
	}

	record, err := vh.videoProgressUseCase.Save(c.Request().Context(), claims.UID(), post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// HandleGetProgress current row, null when the video was never played
func (vh *VideoProgressHandler) HandleGetProgress(c echo.Context) error {
	claims := vh.jwtUtil.GetContextToken(c)
	videoID := c.QueryParam("videoId")
	if err := vh.validator.Empty("videoId", videoID); err != nil {
		return badRequest(c, "Failed to validate params", err)
	}

	record, err := vh.videoProgressUseCase.Get(c.Request().Context(), claims.UID(), videoID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}
