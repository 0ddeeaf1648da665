package catalog

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/progress"
)

// Fixture seed content of a MemoryRepository
type Fixture struct {
	Categories []*progress.Category `json:"categories"`
	Courses    []*progress.Course   `json:"courses"`
	Progress   []*progress.Record   `json:"progress"`
}

// MemoryRepository CatalogRepository over fixture data, every read returns fresh copies
type MemoryRepository struct {
	mu      sync.RWMutex
	fixture *Fixture
}

var _ CatalogRepository = &MemoryRepository{}

// NewMemoryRepository ...
func NewMemoryRepository(fixture *Fixture) *MemoryRepository {
	if fixture == nil {
		fixture = &Fixture{}
	}
	return &MemoryRepository{fixture: fixture}
}

// LoadFixture read a JSON fixture file
func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	f := new(Fixture)
	if err := json.Unmarshal(b, f); err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", path)
	}
	return f, nil
}

func (mr *MemoryRepository) ListPublishedCourses(ctx context.Context, filter *CourseFilter) ([]*progress.Course, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	var categoryID string
	if filter.CategorySlug != "" {
		for _, cat := range mr.fixture.Categories {
			if cat.Slug == filter.CategorySlug {
				categoryID = cat.ID
			}
		}
		if categoryID == "" {
			return []*progress.Course{}, nil
		}
	}

	var selected []*progress.Course
	for _, c := range mr.fixture.Courses {
		if c.Status != publishedStatus {
			continue
		}
		if categoryID != "" && (c.CategoryID == nil || *c.CategoryID != categoryID) {
			continue
		}
		if filter.WithProgressOf != "" && !mr.hasProgress(c, filter.WithProgressOf) {
			continue
		}
		selected = append(selected, c)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].CreatedAt.After(selected[j].CreatedAt)
	})
	if filter.Limit > 0 && len(selected) > filter.Limit {
		selected = selected[:filter.Limit]
	}

	result := make([]*progress.Course, 0, len(selected))
	for _, c := range selected {
		result = append(result, mr.copyCourse(c, filter.UserID))
	}
	return result, nil
}

func (mr *MemoryRepository) FindCourse(ctx context.Context, id, userID string) (*progress.Course, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	for _, c := range mr.fixture.Courses {
		if c.ID == id && c.Status == publishedStatus {
			return mr.copyCourse(c, userID), nil
		}
	}
	return nil, nil
}

func (mr *MemoryRepository) ListCategories(ctx context.Context) ([]*progress.Category, error) {
	return mr.categories(func(*progress.Category) bool { return true }), nil
}

func (mr *MemoryRepository) ListCategoriesByCompany(ctx context.Context, companyID string) ([]*progress.Category, error) {
	return mr.categories(func(c *progress.Category) bool { return c.CompanyID == companyID }), nil
}

func (mr *MemoryRepository) categories(keep func(*progress.Category) bool) []*progress.Category {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	result := []*progress.Category{}
	for _, c := range mr.fixture.Categories {
		if keep(c) {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (mr *MemoryRepository) hasProgress(c *progress.Course, userID string) bool {
	for _, m := range c.Modules {
		for _, v := range m.Videos {
			for _, r := range mr.fixture.Progress {
				if r.UserID == userID && r.VideoID == v.ID {
					return true
				}
			}
		}
	}
	return false
}

func (mr *MemoryRepository) copyCourse(c *progress.Course, userID string) *progress.Course {
	cc := *c
	cc.Modules = make([]*progress.Module, 0, len(c.Modules))
	for _, m := range c.Modules {
		mc := *m
		mc.CourseID = c.ID
		mc.Videos = make([]*progress.Video, 0, len(m.Videos))
		for _, v := range m.Videos {
			vc := *v
			vc.ModuleID = m.ID
			vc.Progress = nil
			if userID != "" {
				for _, r := range mr.fixture.Progress {
					if r.UserID == userID && r.VideoID == v.ID {
						rc := *r
						vc.Progress = append(vc.Progress, &rc)
					}
				}
			}
			mc.Videos = append(mc.Videos, &vc)
		}
		cc.Modules = append(cc.Modules, &mc)
	}
	return &cc
}
