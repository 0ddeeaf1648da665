package rating

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyRated a user rates a video at most once
	ErrAlreadyRated = errors.New("you have already rated this video")
	// ErrRatingNotFound .
	ErrRatingNotFound = errors.New("rating not found")
)

// RatingModel ratings_videos row
type RatingModel struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VideoID   string    `json:"videoId"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingPost .
type RatingPost struct {
	VideoID string `json:"videoId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// Summary raw aggregate of a video's ratings
type Summary struct {
	Count int
	Sum   int
}

// RatingStats aggregate shown next to the video
type RatingStats struct {
	TotalRatings  int     `json:"totalRatings"`
	AverageRating float64 `json:"averageRating"` // one decimal
	CanRate       bool    `json:"canRate"`
}

// RatingResult rating of the caller, if any, plus stats
type RatingResult struct {
	Rating *RatingModel `json:"rating"`
	Stats  RatingStats  `json:"stats"`
}

type RatingRepository interface {
	// Insert returns ErrAlreadyRated on a (user, video) conflict
	Insert(ctx context.Context, rating *RatingModel) error
	FindByUserVideo(ctx context.Context, userID, videoID string) (*RatingModel, error)
	Summarize(ctx context.Context, videoID string) (*Summary, error)
}

type RatingUseCase interface {
	// Rate stores the rating, an existing one is returned with ErrAlreadyRated and left untouched
	Rate(ctx context.Context, userID string, post *RatingPost) (*RatingResult, error)
	Get(ctx context.Context, userID, videoID string) (*RatingResult, error)
}
