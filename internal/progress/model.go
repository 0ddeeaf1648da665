package progress

import (
	"sort"
	"time"
)

// RecordStatus persisted watch state of a video
type RecordStatus string

// persisted states
const (
	StatusNotStarted RecordStatus = "not_started"
	StatusInProgress RecordStatus = "in_progress"
	StatusCompleted  RecordStatus = "completed"
)

// Valid reports whether s is a known status
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// VideoStatus status shown for a single video, a started video is displayed as available
type VideoStatus string

// display states
const (
	VideoNotStarted VideoStatus = "not_started"
	VideoAvailable  VideoStatus = "available"
	VideoCompleted  VideoStatus = "completed"
)

// Action recommended next step for a course or category
type Action string

// actions
const (
	ActionBegin    Action = "Begin"
	ActionContinue Action = "Continue"
	ActionReview   Action = "Review"
)

var actionLabels = map[Action]string{
	ActionBegin:    "Começar",
	ActionContinue: "Continuar",
	ActionReview:   "Revisar",
}

// Label display label of the action
func (a Action) Label() string {
	return actionLabels[a]
}

// Record per (user, video) watch state
type Record struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	VideoID         string       `json:"videoId"`
	Status          RecordStatus `json:"status"`
	ProgressSeconds int          `json:"progressSeconds"`
	CompletedAt     *time.Time   `json:"completedAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// Video atomic watchable unit
type Video struct {
	ID       string    `json:"id"`
	ModuleID string    `json:"moduleId"`
	Title    string    `json:"title"`
	Duration int       `json:"duration"` // seconds
	Order    int       `json:"order"`
	URL      string    `json:"url,omitempty"`
	Progress []*Record `json:"-"`
}

// Module ordered group of videos
type Module struct {
	ID       string   `json:"id"`
	CourseID string   `json:"courseId"`
	Title    string   `json:"title"`
	Order    int      `json:"order"`
	Videos   []*Video `json:"videos"`
}

// Course ordered group of modules
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Status      string    `json:"status"`
	CategoryID  *string   `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	Modules     []*Module `json:"modules"`
}

// Category grouping of courses
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Color     string `json:"color,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

// CourseProgress roll-up of one course for one user
type CourseProgress struct {
	TotalVideos       int          `json:"totalVideos"`
	CompletedVideos   int          `json:"completedVideos"`
	InProgressVideos  int          `json:"inProgressVideos"`
	CompletionPercent int          `json:"completionPercent"`
	Status            RecordStatus `json:"status"`
	RecommendedAction Action       `json:"recommendedAction"`
	ActionLabel       string       `json:"actionLabel"`
}

// CategoryProgress roll-up of every course in a category for one user
type CategoryProgress struct {
	CourseProgress
	Category             *Category `json:"category"`
	CourseCount          int       `json:"courseCount"`
	TotalDurationSeconds int       `json:"totalDurationSeconds"`
	FormattedDuration    string    `json:"formattedDuration"`
}

// SortContent orders modules and their videos by ordering key
func (c *Course) SortContent() {
	sort.SliceStable(c.Modules, func(i, j int) bool {
		return c.Modules[i].Order < c.Modules[j].Order
	})
	for _, m := range c.Modules {
		sort.SliceStable(m.Videos, func(i, j int) bool {
			return m.Videos[i].Order < m.Videos[j].Order
		})
	}
}
