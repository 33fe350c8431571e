package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// RecommendedCourse is the summary projection returned by Recommend.
type RecommendedCourse struct {
	ID              uuid.UUID         `json:"id"`
	Poster          types.Media       `json:"poster"`
	Likes           int64             `json:"likes"`
	EnrollmentCount int64             `json:"enrollmentCount"`
	Price           float64           `json:"price"`
	Level           types.CourseLevel `json:"level"`
	Language        *types.Language   `json:"language"`
}

type RecommendationPage struct {
	Items      []*RecommendedCourse `json:"items"`
	TotalPages int                  `json:"totalPages"`
	TotalCount int64                `json:"totalCount"`
}

type RecommendationService interface {
	Recommend(ctx context.Context, courseID uuid.UUID, page, pageSize int) (*RecommendationPage, error)
}

// RecommendOptions tunes matching. The zero value matches on every category
// of the source course and keeps the source course in its own results.
type RecommendOptions struct {
	FirstCategoryOnly bool
	ExcludeSource     bool
}

type recommendationService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	cache rediscache.Cache
	opts  RecommendOptions
}

func NewRecommendationService(db *gorm.DB, log *logger.Logger, rs repos.Set, cache rediscache.Cache, opts RecommendOptions) RecommendationService {
	return &recommendationService{
		db:    db,
		log:   log.With("service", "RecommendationService"),
		repos: rs,
		cache: cache,
		opts:  opts,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, courseID uuid.UUID, page, pageSize int) (*RecommendationPage, error) {
	if err := requireID(courseID, "courseId"); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)
	key := fmt.Sprintf("%s:%t:%t:%d:%d", courseID, rs.opts.FirstCategoryOnly, rs.opts.ExcludeSource, page, pageSize)

	var cached RecommendationPage
	if hit, err := rs.cache.GetJSON(ctx, cacheNamespaceRecommend, key, &cached); err != nil {
		rs.log.Warn("recommendation cache read failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	dbc := dbctx.New(ctx)
	course, err := rs.repos.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, wrap("get course", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}

	categoryIDs, err := rs.repos.Links.Refs(dbc, joins.CourseCategories, courseID)
	if err != nil {
		return nil, wrap("load course categories", err)
	}
	found, err := rs.repos.Categories.GetByIDs(dbc, categoryIDs)
	if err != nil {
		return nil, wrap("load categories", err)
	}
	categories := pick(categoryIDs, indexByID(found, func(c *types.Category) uuid.UUID { return c.ID }))
	if len(categories) == 0 {
		return nil, apierr.NotFound("no category details")
	}
	if rs.opts.FirstCategoryOnly {
		categories = categories[:1]
	}

	q := repos.CourseMatchQuery{
		CategoryIDs: make([]uuid.UUID, 0, len(categories)),
		Tags:        []string{},
		Offset:      (page - 1) * pageSize,
		Limit:       pageSize,
	}
	if rs.opts.ExcludeSource {
		q.Exclude = courseID
	}
	for _, c := range categories {
		q.CategoryIDs = append(q.CategoryIDs, c.ID)
		q.Tags = mergeStrings(q.Tags, c.Tags)
	}
	matches, total, err := rs.repos.Courses.Matching(dbc, q)
	if err != nil {
		return nil, wrap("match courses", err)
	}

	languageIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if m.LanguageID != nil {
			languageIDs = append(languageIDs, *m.LanguageID)
		}
	}
	languages, err := rs.repos.Languages.GetByIDs(dbc, languageIDs)
	if err != nil {
		return nil, wrap("load languages", err)
	}
	languageByID := indexByID(languages, func(l *types.Language) uuid.UUID { return l.ID })

	out := &RecommendationPage{
		Items:      make([]*RecommendedCourse, 0, len(matches)),
		TotalPages: totalPages(total, pageSize),
		TotalCount: total,
	}
	for _, m := range matches {
		item := &RecommendedCourse{
			ID:              m.ID,
			Poster:          m.Poster,
			Likes:           m.Likes,
			EnrollmentCount: m.EnrollmentCount,
			Price:           m.Price,
			Level:           m.Level,
		}
		if m.LanguageID != nil {
			item.Language = languageByID[*m.LanguageID]
		}
		out.Items = append(out.Items, item)
	}
	if err := rs.cache.SetJSON(ctx, cacheNamespaceRecommend, key, out); err != nil {
		rs.log.Warn("recommendation cache write failed", "error", err)
	}
	return out, nil
}
