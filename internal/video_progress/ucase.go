package videoprogress

import (
	"context"
	"errors"
	"time"

	"github.com/pot-code/learnhub/internal/infrastructure/uuid"
	"github.com/pot-code/learnhub/internal/progress"
	"go.elastic.co/apm"
)

// VideoProgressUseCaseImpl ...
type VideoProgressUseCaseImpl struct {
	VideoProgressRepository VideoProgressRepository
	UUIDGenerator           uuid.Generator
	now                     func() time.Time
}

var _ VideoProgressUseCase = &VideoProgressUseCaseImpl{}

// NewVideoProgressUseCase ...
func NewVideoProgressUseCase(
	VideoProgressRepository VideoProgressRepository,
	UUIDGenerator uuid.Generator,
) *VideoProgressUseCaseImpl {
	return &VideoProgressUseCaseImpl{VideoProgressRepository, UUIDGenerator, time.Now}
}

// Save insert the progress row, falling back to an update when the pair already has one.
//
// No read happens before the insert, so two concurrent first writes still end with one row.
func (vu *VideoProgressUseCaseImpl) Save(ctx context.Context, userID string, post *ProgressPost) (*progress.Record, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "VideoProgressUseCaseImpl.Save", "service")
	defer apmSpan.End()

	id, err := vu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	now := vu.now().UTC()
	record := &progress.Record{
		ID:              id,
		UserID:          userID,
		VideoID:         post.VideoID,
		Status:          post.Status,
		ProgressSeconds: post.ProgressSeconds,
		UpdatedAt:       now,
	}
	if post.Status == progress.StatusCompleted {
		record.CompletedAt = &now
	}

	repo := vu.VideoProgressRepository
	err = repo.Insert(ctx, record)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrDuplicateProgress) {
		return nil, err
	}
	if err := repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return repo.FindByUserVideo(ctx, userID, post.VideoID)
}

// Get progress row of the user for the video, nil when there is none
func (vu *VideoProgressUseCaseImpl) Get(ctx context.Context, userID, videoID string) (*progress.Record, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "VideoProgressUseCaseImpl.Get", "service")
	defer apmSpan.End()

	record, err := vu.VideoProgressRepository.FindByUserVideo(ctx, userID, videoID)
	if errors.Is(err, ErrProgressNotFound) {
		return nil, nil
	}
	return record, err
}
