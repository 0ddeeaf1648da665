package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
	"github.com/pot-code/learnhub/internal/progress"
)

const publishedStatus = "published"

// CatalogSQL CatalogRepository on a relational store
//
// courses are selected first, then the module/video/progress tree of the selection is loaded in one query
type CatalogSQL struct {
	Conn driver.ITransactionalDB
}

var _ CatalogRepository = &CatalogSQL{}

func NewCatalogRepository(Conn driver.ITransactionalDB) *CatalogSQL {
	return &CatalogSQL{Conn}
}

func (repo *CatalogSQL) ListPublishedCourses(ctx context.Context, filter *CourseFilter) ([]*progress.Course, error) {
	query := `
SELECT
    c.id
FROM
    courses c`
	var (
		where = []string{"c.status = $1"}
		args  = []interface{}{publishedStatus}
	)
	if filter.CategorySlug != "" {
		query += `
    JOIN categories cat ON cat.id = c.category_id`
		args = append(args, filter.CategorySlug)
		where = append(where, fmt.Sprintf("cat.slug = $%d", len(args)))
	}
	if filter.WithProgressOf != "" {
		args = append(args, filter.WithProgressOf)
		where = append(where, fmt.Sprintf(`EXISTS (
    SELECT 1 FROM progress_videos pv
        JOIN videos v ON v.id = pv.video_id
        JOIN modules m ON m.id = v.module_id
    WHERE m.course_id = c.id AND pv.user_id = $%d)`, len(args)))
	}
	query += "\nWHERE " + strings.Join(where, " AND ") + "\nORDER BY c.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf("\nLIMIT $%d", len(args))
	}

	ids, err := repo.queryIDs(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return repo.loadTree(ctx, ids, filter.UserID)
}

func (repo *CatalogSQL) FindCourse(ctx context.Context, id, userID string) (*progress.Course, error) {
	ids, err := repo.queryIDs(ctx, `
SELECT c.id FROM courses c WHERE c.id = $1 AND c.status = $2
	`, id, publishedStatus)
	if err != nil {
		return nil, err
	}
	courses, err := repo.loadTree(ctx, ids, userID)
	if err != nil || len(courses) == 0 {
		return nil, err
	}
	return courses[0], nil
}

func (repo *CatalogSQL) ListCategories(ctx context.Context) ([]*progress.Category, error) {
	return repo.queryCategories(ctx, `
SELECT id, name, slug, color, company_id FROM categories ORDER BY name
	`)
}

func (repo *CatalogSQL) ListCategoriesByCompany(ctx context.Context, companyID string) ([]*progress.Category, error) {
	return repo.queryCategories(ctx, `
SELECT id, name, slug, color, company_id FROM categories WHERE company_id = $1 ORDER BY name
	`, companyID)
}

func (repo *CatalogSQL) queryIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query courses")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan course id")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "query courses")
}

type treeRow struct {
	courseID, courseTitle, courseStatus string
	description, thumbnail, categoryID  *string
	createdAt                           time.Time
	moduleID, moduleTitle               *string
	moduleOrder                         *int
	videoID, videoTitle, videoURL       *string
	videoDuration, videoOrder           *int
	recordID, recordStatus              *string
	recordSeconds                       *int
	recordCompletedAt, recordUpdatedAt  *time.Time
}

// loadTree returns the courses in the order of ids
func (repo *CatalogSQL) loadTree(ctx context.Context, ids []string, userID string) ([]*progress.Course, error) {
	if len(ids) == 0 {
		return []*progress.Course{}, nil
	}

	args := make([]interface{}, 0, len(ids)+1)
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	progressJoin := "1 = 0"
	if userID != "" {
		args = append(args, userID)
		progressJoin = fmt.Sprintf("pv.user_id = $%d", len(args))
	}

	rows, err := repo.Conn.QueryContext(ctx, `
SELECT
    c.id, c.title, c.status, c.description, c.thumbnail, c.category_id, c.created_at,
    m.id, m.title, m."order",
    v.id, v.title, v.url, v.duration, v."order",
    pv.id, pv.status, pv.progress_seconds, pv.completed_at, pv.updated_at
FROM
    courses c
    LEFT JOIN modules m ON m.course_id = c.id
    LEFT JOIN videos v ON v.module_id = m.id
    LEFT JOIN progress_videos pv ON pv.video_id = v.id AND `+progressJoin+`
WHERE
    c.id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query course tree")
	}
	defer rows.Close()

	var (
		courses = make(map[string]*progress.Course, len(ids))
		modules = make(map[string]*progress.Module)
		videos  = make(map[string]*progress.Video)
	)
	for rows.Next() {
		var r treeRow
		err := rows.Scan(
			&r.courseID, &r.courseTitle, &r.courseStatus, &r.description, &r.thumbnail, &r.categoryID, &r.createdAt,
			&r.moduleID, &r.moduleTitle, &r.moduleOrder,
			&r.videoID, &r.videoTitle, &r.videoURL, &r.videoDuration, &r.videoOrder,
			&r.recordID, &r.recordStatus, &r.recordSeconds, &r.recordCompletedAt, &r.recordUpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan course tree")
		}
		mergeTreeRow(&r, userID, courses, modules, videos)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query course tree")
	}

	result := make([]*progress.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := courses[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func mergeTreeRow(r *treeRow, userID string,
	courses map[string]*progress.Course,
	modules map[string]*progress.Module,
	videos map[string]*progress.Video,
) {
	c, ok := courses[r.courseID]
	if !ok {
		c = &progress.Course{
			ID:          r.courseID,
			Title:       r.courseTitle,
			Status:      r.courseStatus,
			Description: deref(r.description),
			Thumbnail:   deref(r.thumbnail),
			CategoryID:  r.categoryID,
			CreatedAt:   r.createdAt,
			Modules:     []*progress.Module{},
		}
		courses[r.courseID] = c
	}
	if r.moduleID == nil {
		return
	}

	m, ok := modules[*r.moduleID]
	if !ok {
		m = &progress.Module{
			ID:       *r.moduleID,
			CourseID: c.ID,
			Title:    deref(r.moduleTitle),
			Order:    derefInt(r.moduleOrder),
			Videos:   []*progress.Video{},
		}
		modules[m.ID] = m
		c.Modules = append(c.Modules, m)
	}
	if r.videoID == nil {
		return
	}

	v, ok := videos[*r.videoID]
	if !ok {
		v = &progress.Video{
			ID:       *r.videoID,
			ModuleID: m.ID,
			Title:    deref(r.videoTitle),
			URL:      deref(r.videoURL),
			Duration: derefInt(r.videoDuration),
			Order:    derefInt(r.videoOrder),
		}
		videos[v.ID] = v
		m.Videos = append(m.Videos, v)
	}
	if r.recordID == nil {
		return
	}

	record := &progress.Record{
		ID:              *r.recordID,
		UserID:          userID,
		VideoID:         v.ID,
		Status:          progress.RecordStatus(deref(r.recordStatus)),
		ProgressSeconds: derefInt(r.recordSeconds),
		CompletedAt:     r.recordCompletedAt,
	}
	if r.recordUpdatedAt != nil {
		record.UpdatedAt = *r.recordUpdatedAt
	}
	v.Progress = append(v.Progress, record)
}

func (repo *CatalogSQL) queryCategories(ctx context.Context, query string, args ...interface{}) ([]*progress.Category, error) {
	rows, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query categories")
	}
	defer rows.Close()

	result := []*progress.Category{}
	for rows.Next() {
		item := new(progress.Category)
		var color, companyID *string
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &color, &companyID); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		item.Color = deref(color)
		item.CompanyID = deref(companyID)
		result = append(result, item)
	}
	return result, errors.Wrap(rows.Err(), "query categories")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
