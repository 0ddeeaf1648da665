package rating

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/pot-code/learnhub/internal/infrastructure/uuid"
	"go.elastic.co/apm"
)

// RatingUseCaseImpl ...
type RatingUseCaseImpl struct {
	RatingRepository RatingRepository
	UUIDGenerator    uuid.Generator
}

var _ RatingUseCase = &RatingUseCaseImpl{}

// NewRatingUseCase ...
func NewRatingUseCase(
	RatingRepository RatingRepository,
	UUIDGenerator uuid.Generator,
) *RatingUseCaseImpl {
	return &RatingUseCaseImpl{RatingRepository, UUIDGenerator}
}

// Rate ...
func (ru *RatingUseCaseImpl) Rate(ctx context.Context, userID string, post *RatingPost) (*RatingResult, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "RatingUseCaseImpl.Rate", "service")
	defer apmSpan.End()

	id, err := ru.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	rating := &RatingModel{
		ID:        id,
		UserID:    userID,
		VideoID:   post.VideoID,
		Rating:    post.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := ru.RatingRepository.Insert(ctx, rating); err != nil {
		if !errors.Is(err, ErrAlreadyRated) {
			return nil, err
		}
		existing, findErr := ru.result(ctx, userID, post.VideoID)
		if findErr != nil {
			return nil, findErr
		}
		return existing, ErrAlreadyRated
	}
	return ru.result(ctx, userID, post.VideoID)
}

// Get ...
func (ru *RatingUseCaseImpl) Get(ctx context.Context, userID, videoID string) (*RatingResult, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "RatingUseCaseImpl.Get", "service")
	defer apmSpan.End()

	return ru.result(ctx, userID, videoID)
}

func (ru *RatingUseCaseImpl) result(ctx context.Context, userID, videoID string) (*RatingResult, error) {
	repo := ru.RatingRepository
	own, err := repo.FindByUserVideo(ctx, userID, videoID)
	if err != nil && !errors.Is(err, ErrRatingNotFound) {
		return nil, err
	}
	summary, err := repo.Summarize(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &RatingResult{
		Rating: own,
		Stats:  ComputeStats(summary, own == nil),
	}, nil
}

// ComputeStats average is rounded to one decimal, 0 without ratings
func ComputeStats(summary *Summary, canRate bool) RatingStats {
	stats := RatingStats{CanRate: canRate}
	if summary == nil || summary.Count == 0 {
		return stats
	}
	stats.TotalRatings = summary.Count
	stats.AverageRating = math.Round(float64(summary.Sum)/float64(summary.Count)*10) / 10
	return stats
}
