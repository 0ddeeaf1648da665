package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
	"github.com/pot-code/learnhub/internal/rating"
)

// RatingRejected second rating attempt, carries the rating already stored
type RatingRejected struct {
	RESTStandardError
	ExistingRating *rating.RatingModel `json:"existingRating"`
	Stats          rating.RatingStats  `json:"stats"`
}

type RatingHandler struct {
	ratingUseCase rating.RatingUseCase
	validator     validate.Validator
	jwtUtil       *auth.JWTUtil
}

func NewRatingHandler(RatingUseCase rating.RatingUseCase, JWTUtil *auth.JWTUtil, Validator validate.Validator) *RatingHandler {
	return &RatingHandler{RatingUseCase, Validator, JWTUtil}
}

// HandleRate ...
func (rh *RatingHandler) HandleRate(c echo.Context) error {
	claims := rh.jwtUtil.GetContextToken(c)
	post := new(rating.RatingPost)
	if err := c.Bind(post); err != nil {
		return bindFailed(c)
	}
	if err := rh.validator.Struct(post, acceptLanguage(c)); err != nil {
		return badRequest(c, "Failed to validate fields", err)
	}

	result, err := rh.ratingUseCase.Rate(c.Request().Context(), claims.UID(), post)
	if errors.Is(err, rating.ErrAlreadyRated) {
		rejected := &RatingRejected{
			RESTStandardError: NewRESTStandardError(http.StatusBadRequest, err.Error()).SetTraceID(traceID(c)),
		}
		if result != nil {
			rejected.ExistingRating = result.Rating
			rejected.Stats = result.Stats
		}
		return c.JSON(http.StatusBadRequest, rejected)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// HandleGetRating ...
func (rh *RatingHandler) HandleGetRating(c echo.Context) error {
	claims := rh.jwtUtil.GetContextToken(c)
	videoID := c.QueryParam("videoId")
	if err := rh.validator.Empty("videoId", videoID); err != nil {
		return badRequest(c, "Failed to validate params", err)
	}

	result, err := rh.ratingUseCase.Get(c.Request().Context(), claims.UID(), videoID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
