package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pot-code/learnhub/internal/catalog"
	"github.com/pot-code/learnhub/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func course(id, categoryID string, videos ...*progress.Video) *progress.Course {
	c := &progress.Course{ID: id, Status: "published", CreatedAt: time.Now()}
	if categoryID != "" {
		c.CategoryID = strPtr(categoryID)
	}
	c.Modules = []*progress.Module{{ID: id + "-m", Videos: videos}}
	return c
}

func video(id string, duration int, status progress.RecordStatus) *progress.Video {
	v := &progress.Video{ID: id, Duration: duration}
	if status != "" {
		v.Progress = []*progress.Record{{UserID: "u1", VideoID: id, Status: status}}
	}
	return v
}

func fixture() *catalog.Fixture {
	return &catalog.Fixture{
		Categories: []*progress.Category{
			{ID: "a", Name: "Backend"},
			{ID: "b", Name: "Analytics"},
			{ID: "c", Name: "Cloud"},
			{ID: "empty", Name: "Empty"},
		},
		Courses: []*progress.Course{
			course("c1", "a", video("v1", 3600, progress.StatusCompleted), video("v2", 1800, "")),
			course("c2", "a", video("v3", 600, progress.StatusCompleted), video("v4", 600, progress.StatusCompleted)),
			course("c3", "b", video("v5", 60, progress.StatusCompleted), video("v6", 60, "")),
			course("c4", "c", video("v7", 60, "")),
			course("c5", "", video("v8", 60, progress.StatusCompleted)),
		},
	}
}

type staticRepository struct {
	*catalog.MemoryRepository
	courses []*progress.Course
	err     error
}

func (r *staticRepository) ListPublishedCourses(ctx context.Context, filter *catalog.CourseFilter) ([]*progress.Course, error) {
	return r.courses, r.err
}

func newUseCase() *DashboardUseCaseImpl {
	f := fixture()
	repo := &staticRepository{MemoryRepository: catalog.NewMemoryRepository(f), courses: f.Courses}
	return NewDashboardUseCase(repo, progress.NewAggregator(zap.NewNop()))
}

func TestCategoryProgress_Ranking(t *testing.T) {
	items, err := newUseCase().CategoryProgress(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, items, 3, "categories without courses are skipped")

	assert.Equal(t, "Backend", items[0].Category.Name)
	assert.Equal(t, 75, items[0].CompletionPercent)
	assert.Equal(t, 2, items[0].CourseCount)
	assert.Equal(t, "1h50min", items[0].FormattedDuration)

	assert.Equal(t, "Analytics", items[1].Category.Name)
	assert.Equal(t, 50, items[1].CompletionPercent)
	assert.Equal(t, "Cloud", items[2].Category.Name)
	assert.Equal(t, progress.StatusNotStarted, items[2].Status)
}

func TestCategoryProgress_Limit(t *testing.T) {
	items, err := newUseCase().CategoryProgress(context.Background(), "u1", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Backend", items[0].Category.Name)
}

func TestCategoryProgress_StoreError(t *testing.T) {
	uc := newUseCase()
	uc.CatalogRepository.(*staticRepository).err = errors.New("connection reset")

	_, err := uc.CategoryProgress(context.Background(), "u1", 0)
	assert.EqualError(t, err, "connection reset")
}

func TestExportWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newUseCase().ExportWorkbook(context.Background(), "u1", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Categoria", rows[0][0])
	assert.Equal(t, []string{"Backend", "2", "4", "3", "0", "75", "1h50min", "in_progress", "Continuar"}, rows[1])
}
