package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/pot-code/learnhub/internal/progress"
)

// ErrCourseNotFound no published course with the given id
var ErrCourseNotFound = errors.New("course not found")

// DefaultCourseLimit page size when none is given
const DefaultCourseLimit = 10

// CourseType listing mode of courses
type CourseType string

// listing modes
const (
	CourseLatest   CourseType = "latest"
	CourseCategory CourseType = "category"
	CourseProgress CourseType = "progress"
)

// QueryError invalid or missing listing parameter
type QueryError struct {
	Param  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

// CourseFilter store side course selection
type CourseFilter struct {
	CategorySlug string
	// WithProgressOf only courses where this user has at least one progress record
	WithProgressOf string
	// UserID progress records attached to the videos belong to this user
	UserID string
	// Limit zero means no limit
	Limit int
}

// CourseQuery listing request
type CourseQuery struct {
	Type     CourseType
	Category string
	UserID   string
	Limit    int
}

// CourseView course annotated with the caller's progress
type CourseView struct {
	*progress.Course
	Progress *progress.CourseProgress `json:"progress,omitempty"`
}

// CourseDetail course page payload
type CourseDetail struct {
	CourseView
	ContinueVideo *progress.Video                 `json:"continueVideo"`
	VideoStatus   map[string]progress.VideoStatus `json:"videoStatus,omitempty"`
}

// CatalogRepository query surface over published content
type CatalogRepository interface {
	// ListPublishedCourses newest first, videos carry only the progress of filter.UserID
	ListPublishedCourses(ctx context.Context, filter *CourseFilter) ([]*progress.Course, error)
	// FindCourse returns nil when missing or unpublished
	FindCourse(ctx context.Context, id, userID string) (*progress.Course, error)
	ListCategories(ctx context.Context) ([]*progress.Category, error)
	ListCategoriesByCompany(ctx context.Context, companyID string) ([]*progress.Category, error)
}

type CatalogUseCase interface {
	ListCourses(ctx context.Context, query *CourseQuery) ([]*CourseView, error)
	GetCourse(ctx context.Context, id, userID string) (*CourseDetail, error)
	ListCategories(ctx context.Context, companyID string) ([]*progress.Category, error)
}
