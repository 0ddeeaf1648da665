package rating

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
)

// RatingSQL RatingRepository on a relational store
type RatingSQL struct {
	Conn driver.ITransactionalDB
}

var _ RatingRepository = &RatingSQL{}

func NewRatingRepository(Conn driver.ITransactionalDB) *RatingSQL {
	return &RatingSQL{Conn}
}

func (repo *RatingSQL) Insert(ctx context.Context, rating *RatingModel) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO ratings_videos
    (id, user_id, video_id, rating, created_at)
VALUES
    ($1, $2, $3, $4, $5)
	`, rating.ID, rating.UserID, rating.VideoID, rating.Rating, rating.CreatedAt)
	if driver.IsUniqueViolation(err) {
		return ErrAlreadyRated
	}
	return errors.Wrap(err, "insert rating")
}

func (repo *RatingSQL) FindByUserVideo(ctx context.Context, userID, videoID string) (*RatingModel, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    id, user_id, video_id, rating, created_at
FROM
    ratings_videos
WHERE
    user_id = $1 AND video_id = $2
	`, userID, videoID)
	if err != nil {
		return nil, errors.Wrap(err, "query rating")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "query rating")
		}
		return nil, ErrRatingNotFound
	}
	item := new(RatingModel)
	if err := rows.Scan(&item.ID, &item.UserID, &item.VideoID, &item.Rating, &item.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "scan rating")
	}
	return item, nil
}

func (repo *RatingSQL) Summarize(ctx context.Context, videoID string) (*Summary, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    COUNT(*), COALESCE(SUM(rating), 0)
FROM
    ratings_videos
WHERE
    video_id = $1
	`, videoID)
	if err != nil {
		return nil, errors.Wrap(err, "summarize ratings")
	}
	defer rows.Close()

	summary := new(Summary)
	if rows.Next() {
		var count, sum int64
		if err := rows.Scan(&count, &sum); err != nil {
			return nil, errors.Wrap(err, "scan rating summary")
		}
		summary.Count, summary.Sum = int(count), int(sum)
	}
	return summary, errors.Wrap(rows.Err(), "summarize ratings")
}
