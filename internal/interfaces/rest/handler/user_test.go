package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/storage"
	"github.com/pot-code/learnhub/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfileUseCase struct {
	mock.Mock
}

func (m *mockProfileUseCase) Current(ctx context.Context, id string) (*profile.ProfileModel, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*profile.ProfileModel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileUseCase) UploadAvatar(ctx context.Context, id string, file *storage.File) (string, error) {
	args := m.Called(ctx, id, file)
	return args.String(0), args.Error(1)
}

type mockKV struct {
	mock.Mock
}

func (m *mockKV) SetEX(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *mockKV) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockKV) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockKV) Ping() error  { return nil }
func (m *mockKV) Close() error { return nil }

func multipartBody(t *testing.T, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{1}, size))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func newUploadContext(t *testing.T, contentType string, size int) (echo.Context, *httptest.ResponseRecorder) {
	body, ct := multipartBody(t, contentType, size)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/avatar", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	return signedIn(echo.New().NewContext(req, rec), "u1"), rec
}

func TestHandleUploadAvatar(t *testing.T) {
	uc := new(mockProfileUseCase)
	uc.On("UploadAvatar", mock.Anything, "u1", mock.MatchedBy(func(f *storage.File) bool {
		return f.Name == "me.png" && f.ContentType == "image/png" && f.Size == 128
	})).Return("https://cdn/avatars/u1/x.png", nil)

	c, rec := newUploadContext(t, "image/png", 128)
	require.NoError(t, NewUserHandler(testJWT, new(mockKV), uc, time.Hour, storage.DefaultMaxSize).HandleUploadAvatar(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"avatarUrl":"https://cdn/avatars/u1/x.png"}`, rec.Body.String())
}

func TestHandleUploadAvatar_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int
	}{
		{"not an image", "application/pdf", 10},
		{"too large", "image/jpeg", 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockProfileUseCase)
			c, rec := newUploadContext(t, tt.contentType, tt.size)
			require.NoError(t, NewUserHandler(testJWT, new(mockKV), uc, time.Hour, 1024).HandleUploadAvatar(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleMe_NotFound(t *testing.T) {
	uc := new(mockProfileUseCase)
	uc.On("Current", mock.Anything, "u1").Return(nil, profile.ErrProfileNotFound)

	c, rec := newContext(http.MethodGet, "/api/v1/user/me", nil)
	require.NoError(t, NewUserHandler(testJWT, new(mockKV), uc, time.Hour, 0).HandleMe(signedIn(c, "u1")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSignOut_BlacklistsToken(t *testing.T) {
	kv := new(mockKV)
	kv.On("SetEX", mock.Anything, "the-token", "", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil)

	c, rec := newContext(http.MethodPut, "/api/v1/user/sign-out", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer the-token")
	require.NoError(t, NewUserHandler(testJWT, kv, new(mockProfileUseCase), 5*time.Minute, 0).HandleSignOut(signedIn(c, "u1")))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	kv.AssertExpectations(t)
}
