package videoprogress

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
	"github.com/pot-code/learnhub/internal/progress"
)

// VideoProgressSQL VideoProgressRepository on a relational store
type VideoProgressSQL struct {
	Conn driver.ITransactionalDB
}

var _ VideoProgressRepository = &VideoProgressSQL{}

func NewVideoProgressRepository(Conn driver.ITransactionalDB) *VideoProgressSQL {
	return &VideoProgressSQL{Conn}
}

func (repo *VideoProgressSQL) Insert(ctx context.Context, record *progress.Record) error {
	_, err := repo.Conn.ExecContext(ctx, `
INSERT INTO progress_videos
    (id, user_id, video_id, status, progress_seconds, completed_at, updated_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
	`, record.ID, record.UserID, record.VideoID, string(record.Status), record.ProgressSeconds, record.CompletedAt, record.UpdatedAt)
	if driver.IsUniqueViolation(err) {
		return ErrDuplicateProgress
	}
	return errors.Wrap(err, "insert progress")
}

// Update overwrite the row of the pair, a row completed earlier keeps its completed_at
func (repo *VideoProgressSQL) Update(ctx context.Context, record *progress.Record) error {
	completedAt := "$4"
	if record.CompletedAt != nil {
		completedAt = "COALESCE(completed_at, $4)"
	}
	res, err := repo.Conn.ExecContext(ctx, `
UPDATE progress_videos
SET
    status = $1, progress_seconds = $2, updated_at = $3, completed_at = `+completedAt+`
WHERE
    user_id = $5 AND video_id = $6
	`, string(record.Status), record.ProgressSeconds, record.UpdatedAt, record.CompletedAt, record.UserID, record.VideoID)
	if err != nil {
		return errors.Wrap(err, "update progress")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProgressNotFound
	}
	return nil
}

func (repo *VideoProgressSQL) FindByUserVideo(ctx context.Context, userID, videoID string) (*progress.Record, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    id, user_id, video_id, status, progress_seconds, completed_at, updated_at
FROM
    progress_videos
WHERE
    user_id = $1 AND video_id = $2
ORDER BY updated_at DESC
LIMIT 1
	`, userID, videoID)
	if err != nil {
		return nil, errors.Wrap(err, "query progress")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "query progress")
		}
		return nil, ErrProgressNotFound
	}
	var (
		record      = new(progress.Record)
		status      string
		completedAt *time.Time
	)
	if err := rows.Scan(&record.ID, &record.UserID, &record.VideoID, &status, &record.ProgressSeconds, &completedAt, &record.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "scan progress")
	}
	record.Status = progress.RecordStatus(status)
	record.CompletedAt = completedAt
	return record, nil
}

func (repo *VideoProgressSQL) FindDuplicates(ctx context.Context) ([]*DuplicatePair, error) {
	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    user_id, video_id, COUNT(*)
FROM
    progress_videos
GROUP BY user_id, video_id
HAVING COUNT(*) > 1
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query duplicated progress")
	}
	defer rows.Close()

	var result []*DuplicatePair
	for rows.Next() {
		item := new(DuplicatePair)
		var count int64
		if err := rows.Scan(&item.UserID, &item.VideoID, &count); err != nil {
			return nil, errors.Wrap(err, "scan duplicated progress")
		}
		item.Rows = int(count)
		result = append(result, item)
	}
	return result, errors.Wrap(rows.Err(), "query duplicated progress")
}
