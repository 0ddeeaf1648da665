package catalog

import (
	"context"

	"github.com/pot-code/learnhub/internal/progress"
	"go.elastic.co/apm"
)

// CatalogUseCaseImpl ...
type CatalogUseCaseImpl struct {
	CatalogRepository CatalogRepository
	Aggregator        *progress.Aggregator
}

var _ CatalogUseCase = &CatalogUseCaseImpl{}

// NewCatalogUseCase ...
func NewCatalogUseCase(CatalogRepository CatalogRepository, Aggregator *progress.Aggregator) *CatalogUseCaseImpl {
	return &CatalogUseCaseImpl{
		CatalogRepository: CatalogRepository,
		Aggregator:        Aggregator,
	}
}

func (q *CourseQuery) filter() (*CourseFilter, error) {
	f := &CourseFilter{UserID: q.UserID, Limit: q.Limit}
	if f.Limit <= 0 {
		f.Limit = DefaultCourseLimit
	}
	switch q.Type {
	case "", CourseLatest:
	case CourseCategory:
		if q.Category == "" {
			return nil, &QueryError{Param: "category", Reason: "required when type is category"}
		}
		f.CategorySlug = q.Category
	case CourseProgress:
		if q.UserID == "" {
			return nil, &QueryError{Param: "userId", Reason: "required when type is progress"}
		}
		f.WithProgressOf = q.UserID
	default:
		return nil, &QueryError{Param: "type", Reason: "must be one of latest, category, progress"}
	}
	return f, nil
}

// ListCourses published courses in the requested mode, annotated when a user is given
func (cu *CatalogUseCaseImpl) ListCourses(ctx context.Context, query *CourseQuery) ([]*CourseView, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CatalogUseCaseImpl.ListCourses", "service")
	defer apmSpan.End()

	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	courses, err := cu.CatalogRepository.ListPublishedCourses(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]*CourseView, 0, len(courses))
	for _, c := range courses {
		c.SortContent()
		view := &CourseView{Course: c}
		if query.UserID != "" {
			cp := cu.Aggregator.CourseProgress(c, query.UserID)
			view.Progress = &cp
		}
		result = append(result, view)
	}
	return result, nil
}

// GetCourse course with per-video status and the video to continue from
func (cu *CatalogUseCaseImpl) GetCourse(ctx context.Context, id, userID string) (*CourseDetail, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CatalogUseCaseImpl.GetCourse", "service")
	defer apmSpan.End()

	c, err := cu.CatalogRepository.FindCourse(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	c.SortContent()

	detail := &CourseDetail{
		CourseView:    CourseView{Course: c},
		ContinueVideo: cu.Aggregator.FirstIncompleteVideo(c, userID),
	}
	if userID != "" {
		cp := cu.Aggregator.CourseProgress(c, userID)
		detail.Progress = &cp
		detail.VideoStatus = make(map[string]progress.VideoStatus)
		for _, m := range c.Modules {
			for _, v := range m.Videos {
				detail.VideoStatus[v.ID] = cu.Aggregator.VideoStatus(v, userID)
			}
		}
	}
	return detail, nil
}

func (cu *CatalogUseCaseImpl) ListCategories(ctx context.Context, companyID string) ([]*progress.Category, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "CatalogUseCaseImpl.ListCategories", "service")
	defer apmSpan.End()

	if companyID == "" {
		return nil, &QueryError{Param: "companyId", Reason: "required"}
	}
	return cu.CatalogRepository.ListCategoriesByCompany(ctx, companyID)
}
