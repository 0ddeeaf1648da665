package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/pot-code/learnhub/internal/progress"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVideoProgressUseCase struct {
	mock.Mock
}

func (m *mockVideoProgressUseCase) Save(ctx context.Context, userID string, post *videoprogress.ProgressPost) (*progress.Record, error) {
	args := m.Called(ctx, userID, post)
	if r := args.Get(0); r != nil {
		return r.(*progress.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVideoProgressUseCase) Get(ctx context.Context, userID, videoID string) (*progress.Record, error) {
	args := m.Called(ctx, userID, videoID)
	if r := args.Get(0); r != nil {
		return r.(*progress.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandleSaveProgress(t *testing.T) {
	uc := new(mockVideoProgressUseCase)
	uc.On("Save", mock.Anything, "u1", &videoprogress.ProgressPost{
		VideoID: "v1", Status: progress.StatusInProgress, ProgressSeconds: 42,
	}).Return(&progress.Record{VideoID: "v1", Status: progress.StatusInProgress, ProgressSeconds: 42}, nil)

	c, rec := newContext(http.MethodPost, "/api/v1/video-progress",
		strings.NewReader(`{"videoId":"v1","status":"in_progress","progressSeconds":42}`))
	require.NoError(t, NewVideoProgressHandler(uc, testJWT, testValidator).HandleSaveProgress(signedIn(c, "u1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got progress.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 42, got.ProgressSeconds)
	uc.AssertExpectations(t)
}

func TestHandleSaveProgress_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		param string
	}{
		{"missing video", `{"status":"completed"}`, "videoId"},
		{"missing status", `{"videoId":"v1"}`, "status"},
		{"unknown status", `{"videoId":"v1","status":"paused"}`, "status"},
		{"negative progress", `{"videoId":"v1","status":"in_progress","progressSeconds":-1}`, "progressSeconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockVideoProgressUseCase)
			c, rec := newContext(http.MethodPost, "/api/v1/video-progress", strings.NewReader(tt.body))
			require.NoError(t, NewVideoProgressHandler(uc, testJWT, testValidator).HandleSaveProgress(signedIn(c, "u1")))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var got RESTValidationError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			require.NotEmpty(t, got.InvalidParams)
			assert.Equal(t, tt.param, got.InvalidParams[0].Domain)
			uc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleSaveProgress_MalformedBody(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/v1/video-progress", strings.NewReader(`{"videoId":`))
	require.NoError(t, NewVideoProgressHandler(new(mockVideoProgressUseCase), testJWT, testValidator).HandleSaveProgress(signedIn(c, "u1")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSaveProgress_StoreErrorReturned(t *testing.T) {
	uc := new(mockVideoProgressUseCase)
	uc.On("Save", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("connection refused"))

	c, _ := newContext(http.MethodPost, "/api/v1/video-progress",
		strings.NewReader(`{"videoId":"v1","status":"completed","progressSeconds":10}`))
	err := NewVideoProgressHandler(uc, testJWT, testValidator).HandleSaveProgress(signedIn(c, "u1"))
	assert.EqualError(t, err, "connection refused")
}

func TestHandleGetProgress(t *testing.T) {
	uc := new(mockVideoProgressUseCase)
	uc.On("Get", mock.Anything, "u1", "v1").Return(nil, nil)

	c, rec := newContext(http.MethodGet, "/api/v1/video-progress?videoId=v1", nil)
	require.NoError(t, NewVideoProgressHandler(uc, testJWT, testValidator).HandleGetProgress(signedIn(c, "u1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	c, rec = newContext(http.MethodGet, "/api/v1/video-progress", nil)
	require.NoError(t, NewVideoProgressHandler(uc, testJWT, testValidator).HandleGetProgress(signedIn(c, "u1")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
