package videoprogress

import (
	"context"
	"sync"

	"github.com/pot-code/learnhub/internal/progress"
)

// VideoProgressMemory in memory repository enforcing the (user, video) uniqueness of the store
type VideoProgressMemory struct {
	mu   sync.RWMutex
	rows map[[2]string]*progress.Record
}

var _ VideoProgressRepository = &VideoProgressMemory{}

func NewVideoProgressMemory() *VideoProgressMemory {
	return &VideoProgressMemory{rows: make(map[[2]string]*progress.Record)}
}

func (repo *VideoProgressMemory) Insert(ctx context.Context, record *progress.Record) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := [2]string{record.UserID, record.VideoID}
	if _, ok := repo.rows[key]; ok {
		return ErrDuplicateProgress
	}
	clone := *record
	repo.rows[key] = &clone
	return nil
}

func (repo *VideoProgressMemory) Update(ctx context.Context, record *progress.Record) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	row, ok := repo.rows[[2]string{record.UserID, record.VideoID}]
	if !ok {
		return ErrProgressNotFound
	}
	row.Status = record.Status
	row.ProgressSeconds = record.ProgressSeconds
	if record.CompletedAt == nil || row.CompletedAt == nil {
		row.CompletedAt = record.CompletedAt
	}
	row.UpdatedAt = record.UpdatedAt
	return nil
}

func (repo *VideoProgressMemory) FindByUserVideo(ctx context.Context, userID, videoID string) (*progress.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	row, ok := repo.rows[[2]string{userID, videoID}]
	if !ok {
		return nil, ErrProgressNotFound
	}
	clone := *row
	return &clone, nil
}

func (repo *VideoProgressMemory) FindDuplicates(ctx context.Context) ([]*DuplicatePair, error) {
	return nil, nil
}

func (repo *VideoProgressMemory) Len() int {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return len(repo.rows)
}
