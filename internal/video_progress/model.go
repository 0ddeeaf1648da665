package videoprogress

import (
	"context"
	"errors"

	"github.com/pot-code/learnhub/internal/progress"
)

var (
	// ErrDuplicateProgress a row already exists for the (user, video) pair
	ErrDuplicateProgress = errors.New("progress already recorded for this video")
	// ErrProgressNotFound no row for the (user, video) pair
	ErrProgressNotFound = errors.New("progress not found")
)

// ProgressPost write request of the client
type ProgressPost struct {
	VideoID         string                `json:"videoId" validate:"required"`
	Status          progress.RecordStatus `json:"status" validate:"required,oneof=not_started in_progress completed"`
	ProgressSeconds int                   `json:"progressSeconds" validate:"min=0"`
}

// DuplicatePair a (user, video) pair holding more than one row
type DuplicatePair struct {
	UserID  string
	VideoID string
	Rows    int
}

// VideoProgressRepository progress_videos storage
type VideoProgressRepository interface {
	// Insert returns ErrDuplicateProgress when the pair already has a row
	Insert(ctx context.Context, record *progress.Record) error
	// Update overwrites the row of the pair, ErrProgressNotFound when there is none
	Update(ctx context.Context, record *progress.Record) error
	FindByUserVideo(ctx context.Context, userID, videoID string) (*progress.Record, error)
	FindDuplicates(ctx context.Context) ([]*DuplicatePair, error)
}

// VideoProgressUseCase .
type VideoProgressUseCase interface {
	Save(ctx context.Context, userID string, post *ProgressPost) (*progress.Record, error)
	Get(ctx context.Context, userID, videoID string) (*progress.Record, error)
}
