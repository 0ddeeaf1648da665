package progress

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

// Aggregator rolls per-video watch records up into course and category progress.
//
// All methods are pure, the logger only receives data integrity anomalies.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator .
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger}
}

// UserRecord returns the record of userID for the video, the most recently updated one wins on duplicates
func (a *Aggregator) UserRecord(video *Video, userID string) *Record {
	var (
		found *Record
		count int
	)
	for _, r := range video.Progress {
		if r == nil || r.UserID != userID {
			continue
		}
		count++
		if found == nil || r.UpdatedAt.After(found.UpdatedAt) {
			found = r
		}
	}
	if count > 1 {
		a.logger.Warn("duplicate progress records",
			zap.String("user.id", userID),
			zap.String("video.id", video.ID),
			zap.Int("progress.records", count),
		)
	}
	return found
}

// VideoStatus display status of the video for userID
func (a *Aggregator) VideoStatus(video *Video, userID string) VideoStatus {
	record := a.UserRecord(video, userID)
	if record == nil {
		return VideoNotStarted
	}
	switch record.Status {
	case StatusCompleted:
		return VideoCompleted
	case StatusInProgress:
		return VideoAvailable
	}
	return VideoNotStarted
}

type tally struct {
	total      int
	completed  int
	inProgress int
	duration   int
}

func (a *Aggregator) walk(t *tally, course *Course, userID string) {
	for _, m := range course.Modules {
		for _, v := range m.Videos {
			t.total++
			t.duration += v.Duration
			switch a.VideoStatus(v, userID) {
			case VideoCompleted:
				t.completed++
			case VideoAvailable:
				t.inProgress++
			}
		}
	}
}

func (t *tally) progress() CourseProgress {
	p := CourseProgress{
		TotalVideos:      t.total,
		CompletedVideos:  t.completed,
		InProgressVideos: t.inProgress,
	}
	if t.total > 0 {
		p.CompletionPercent = int(math.Round(100 * float64(t.completed) / float64(t.total)))
	}

	switch {
	case t.total > 0 && t.completed == t.total:
		p.Status = StatusCompleted
		p.RecommendedAction = ActionReview
	case t.completed == 0 && t.inProgress == 0:
		p.Status = StatusNotStarted
		p.RecommendedAction = ActionBegin
	default:
		p.Status = StatusInProgress
		p.RecommendedAction = ActionContinue
	}
	p.ActionLabel = p.RecommendedAction.Label()
	return p
}

// CourseProgress progress of userID in the course
func (a *Aggregator) CourseProgress(course *Course, userID string) CourseProgress {
	var t tally
	a.walk(&t, course, userID)
	return t.progress()
}

// CategoryProgress progress of userID across every course of the category.
//
// Counts are summed at video level so the percentage is rounded exactly once.
func (a *Aggregator) CategoryProgress(category *Category, courses []*Course, userID string) CategoryProgress {
	var t tally
	for _, c := range courses {
		a.walk(&t, c, userID)
	}
	return CategoryProgress{
		CourseProgress:       t.progress(),
		Category:             category,
		CourseCount:          len(courses),
		TotalDurationSeconds: t.duration,
		FormattedDuration:    FormatDuration(t.duration),
	}
}

// FirstIncompleteVideo first video not completed by userID, or the first video when all are done.
// Returns nil for a course without videos.
func (a *Aggregator) FirstIncompleteVideo(course *Course, userID string) *Video {
	var first *Video
	for _, m := range course.Modules {
		for _, v := range m.Videos {
			if first == nil {
				first = v
			}
			if a.VideoStatus(v, userID) != VideoCompleted {
				return v
			}
		}
	}
	return first
}

// RankCategories orders by completion percent descending then name ascending, limit <= 0 keeps all
func RankCategories(items []*CategoryProgress, limit int) []*CategoryProgress {
	ranked := make([]*CategoryProgress, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompletionPercent != ranked[j].CompletionPercent {
			return ranked[i].CompletionPercent > ranked[j].CompletionPercent
		}
		return categoryName(ranked[i]) < categoryName(ranked[j])
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func categoryName(cp *CategoryProgress) string {
	if cp.Category == nil {
		return ""
	}
	return cp.Category.Name
}
