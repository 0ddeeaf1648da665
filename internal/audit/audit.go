package audit

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
	"go.uber.org/zap"
)

// ProgressAuditor periodically looks for (user, video) pairs stored more than once.
// Aggregation tolerates them by picking the latest row, the job makes them visible.
type ProgressAuditor struct {
	repo      videoprogress.VideoProgressRepository
	logger    *zap.Logger
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
}

// NewProgressAuditor ...
func NewProgressAuditor(repo videoprogress.VideoProgressRepository, interval time.Duration, logger *zap.Logger) *ProgressAuditor {
	return &ProgressAuditor{
		repo:      repo,
		logger:    logger.With(zap.String("job", "progress_audit")),
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		timeout:   time.Minute,
	}
}

// Start schedule the job, a zero interval leaves it disabled
func (pa *ProgressAuditor) Start() error {
	if pa.interval <= 0 {
		pa.logger.Info("progress audit disabled")
		return nil
	}
	if _, err := pa.scheduler.Every(pa.interval).SingletonMode().Do(pa.run); err != nil {
		return errors.Wrap(err, "schedule progress audit")
	}
	pa.scheduler.StartAsync()
	return nil
}

// Stop ...
func (pa *ProgressAuditor) Stop() {
	pa.scheduler.Stop()
}

func (pa *ProgressAuditor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), pa.timeout)
	defer cancel()

	if _, err := pa.Check(ctx); err != nil {
		pa.logger.Error("progress audit failed", zap.Error(err))
	}
}

// Check run one audit pass and return the duplicated pairs
func (pa *ProgressAuditor) Check(ctx context.Context) ([]*videoprogress.DuplicatePair, error) {
	pairs, err := pa.repo.FindDuplicates(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		pa.logger.Warn("duplicate progress rows",
			zap.String("user.id", p.UserID),
			zap.String("video.id", p.VideoID),
			zap.Int("rows", p.Rows))
	}
	pa.logger.Info("progress audit finished", zap.Int("duplicates", len(pairs)))
	return pairs, nil
}
