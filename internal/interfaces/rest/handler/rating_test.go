package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/pot-code/learnhub/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRatingUseCase struct {
	mock.Mock
}

func (m *mockRatingUseCase) Rate(ctx context.Context, userID string, post *rating.RatingPost) (*rating.RatingResult, error) {
	args := m.Called(ctx, userID, post)
	if r := args.Get(0); r != nil {
		return r.(*rating.RatingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingUseCase) Get(ctx context.Context, userID, videoID string) (*rating.RatingResult, error) {
	args := m.Called(ctx, userID, videoID)
	if r := args.Get(0); r != nil {
		return r.(*rating.RatingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandleRate(t *testing.T) {
	uc := new(mockRatingUseCase)
	uc.On("Rate", mock.Anything, "u1", &rating.RatingPost{VideoID: "v1", Rating: 5}).Return(&rating.RatingResult{
		Rating: &rating.RatingModel{VideoID: "v1", Rating: 5},
		Stats:  rating.RatingStats{TotalRatings: 2, AverageRating: 4.5},
	}, nil)

	c, rec := newContext(http.MethodPost, "/api/v1/video-rating", strings.NewReader(`{"videoId":"v1","rating":5}`))
	require.NoError(t, NewRatingHandler(uc, testJWT, testValidator).HandleRate(signedIn(c, "u1")))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"totalRatings":2,"averageRating":4.5,"canRate":false}`, jsonField(t, rec.Body.Bytes(), "stats"))
}

func TestHandleRate_OutOfRange(t *testing.T) {
	for _, body := range []string{`{"videoId":"v1","rating":0}`, `{"videoId":"v1","rating":6}`, `{"rating":3}`} {
		uc := new(mockRatingUseCase)
		c, rec := newContext(http.MethodPost, "/api/v1/video-rating", strings.NewReader(body))
		require.NoError(t, NewRatingHandler(uc, testJWT, testValidator).HandleRate(signedIn(c, "u1")))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		uc.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestHandleRate_SecondAttempt(t *testing.T) {
	existing := &rating.RatingModel{ID: "r1", VideoID: "v1", UserID: "u1", Rating: 3}
	uc := new(mockRatingUseCase)
	uc.On("Rate", mock.Anything, "u1", mock.Anything).Return(&rating.RatingResult{
		Rating: existing,
		Stats:  rating.RatingStats{TotalRatings: 1, AverageRating: 3},
	}, rating.ErrAlreadyRated)

	c, rec := newContext(http.MethodPost, "/api/v1/video-rating", strings.NewReader(`{"videoId":"v1","rating":5}`))
	require.NoError(t, NewRatingHandler(uc, testJWT, testValidator).HandleRate(signedIn(c, "u1")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got RatingRejected
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.ExistingRating)
	assert.Equal(t, 3, got.ExistingRating.Rating)
	assert.Equal(t, rating.ErrAlreadyRated.Error(), got.Detail)
}

func TestHandleGetRating(t *testing.T) {
	uc := new(mockRatingUseCase)
	uc.On("Get", mock.Anything, "u1", "v1").Return(&rating.RatingResult{
		Stats: rating.RatingStats{TotalRatings: 0, CanRate: true},
	}, nil)

	c, rec := newContext(http.MethodGet, "/api/v1/video-rating?videoId=v1", nil)
	require.NoError(t, NewRatingHandler(uc, testJWT, testValidator).HandleGetRating(signedIn(c, "u1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rating":null,"stats":{"totalRatings":0,"averageRating":0,"canRate":true}}`, rec.Body.String())
}

func jsonField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[field])
}
