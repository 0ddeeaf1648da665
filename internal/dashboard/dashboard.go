package dashboard

import (
	"context"
	"io"

	"github.com/pot-code/learnhub/internal/catalog"
	"github.com/pot-code/learnhub/internal/progress"
	"go.elastic.co/apm"
)

type DashboardUseCase interface {
	// CategoryProgress ranked roll-up of every category holding published courses, limit <= 0 keeps all
	CategoryProgress(ctx context.Context, userID string, limit int) ([]*progress.CategoryProgress, error)
	// ExportWorkbook writes the ranking as an xlsx workbook
	ExportWorkbook(ctx context.Context, userID string, w io.Writer) error
}

// DashboardUseCaseImpl ...
type DashboardUseCaseImpl struct {
	CatalogRepository catalog.CatalogRepository
	Aggregator        *progress.Aggregator
}

var _ DashboardUseCase = &DashboardUseCaseImpl{}

// NewDashboardUseCase ...
func NewDashboardUseCase(CatalogRepository catalog.CatalogRepository, Aggregator *progress.Aggregator) *DashboardUseCaseImpl {
	return &DashboardUseCaseImpl{
		CatalogRepository: CatalogRepository,
		Aggregator:        Aggregator,
	}
}

func (du *DashboardUseCaseImpl) CategoryProgress(ctx context.Context, userID string, limit int) ([]*progress.CategoryProgress, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "DashboardUseCaseImpl.CategoryProgress", "service")
	defer apmSpan.End()

	categories, err := du.CatalogRepository.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := du.CatalogRepository.ListPublishedCourses(ctx, &catalog.CourseFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*progress.Course)
	for _, c := range courses {
		if c.CategoryID != nil {
			byCategory[*c.CategoryID] = append(byCategory[*c.CategoryID], c)
		}
	}

	items := make([]*progress.CategoryProgress, 0, len(byCategory))
	for _, cat := range categories {
		members := byCategory[cat.ID]
		if len(members) == 0 {
			continue
		}
		cp := du.Aggregator.CategoryProgress(cat, members, userID)
		items = append(items, &cp)
	}
	return progress.RankCategories(items, limit), nil
}
