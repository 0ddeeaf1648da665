package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
	"github.com/pot-code/learnhub/internal/infrastructure/storage"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
	"github.com/pot-code/learnhub/internal/profile"
)

// UserHandler profile of the authenticated user
type UserHandler struct {
	JWTUtil        *auth.JWTUtil
	KVStore        driver.KeyValueDB
	ProfileUseCase profile.ProfileUseCase
	SessionTimeout time.Duration // blacklist lifetime of tokens without expiry
	MaxUploadSize  int64
}

// NewUserHandler create an user controller instance
func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	KVStore driver.KeyValueDB,
	ProfileUseCase profile.ProfileUseCase,
	SessionTimeout time.Duration,
	MaxUploadSize int64,
) *UserHandler {
	return &UserHandler{
		JWTUtil:        JWTUtil,
		KVStore:        KVStore,
		ProfileUseCase: ProfileUseCase,
		SessionTimeout: SessionTimeout,
		MaxUploadSize:  MaxUploadSize,
	}
}

// HandleMe ...
func (uh *UserHandler) HandleMe(c echo.Context) error {
	claims := uh.JWTUtil.GetContextToken(c)
	p, err := uh.ProfileUseCase.Current(c.Request().Context(), claims.UID())
	if errors.Is(err, profile.ErrProfileNotFound) {
		return c.JSON(http.StatusNotFound,
			NewRESTStandardError(http.StatusNotFound, err.Error()).SetTraceID(traceID(c)))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// HandleUploadAvatar multipart upload of the "file" field
func (uh *UserHandler) HandleUploadAvatar(c echo.Context) error {
	claims := uh.JWTUtil.GetContextToken(c)
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Failed to validate fields", []*validate.FieldError{
			validate.NewFieldError("file", "file is required"),
		})
	}

	file := &storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
	}
	if err := storage.Validate(file, uh.MaxUploadSize); err != nil {
		return badRequest(c, "Failed to validate fields", []*validate.FieldError{
			validate.NewFieldError("file", err.Error()),
		})
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	file.Body = src

	url, err := uh.ProfileUseCase.UploadAvatar(c.Request().Context(), claims.UID(), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"avatarUrl": url})
}

// HandleSignOut blacklist the token until it expires
func (uh *UserHandler) HandleSignOut(c echo.Context) error {
	ju := uh.JWTUtil
	tokenStr, err := ju.ExtractToken(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	ttl := uh.SessionTimeout
	if claims := ju.GetContextToken(c); claims != nil && claims.TimeRemaining() > 0 {
		ttl = claims.TimeRemaining()
	}
	if err := uh.KVStore.SetEX(c.Request().Context(), tokenStr, "", ttl); err != nil {
		return err
	}
	ju.ClearClientToken(c)
	return c.NoContent(http.StatusNoContent)
}
