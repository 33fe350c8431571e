package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// AuthorSummary is the reduced author projection attached to course views.
type AuthorSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// CourseView is a course joined with its lessons, exercises, categories,
// language and author. Detail arrays are never nil.
type CourseView struct {
	types.Course
	Tags            []string          `json:"tags"`
	Lessons         []uuid.UUID       `json:"lessons"`
	Exercises       []uuid.UUID       `json:"exercises"`
	Categories      []uuid.UUID       `json:"categories"`
	Recommendations []uuid.UUID       `json:"recommendations"`
	LessonDetails   []*types.Lesson   `json:"lessonDetails"`
	ExerciseDetails []*types.Exercise `json:"exerciseDetails"`
	CategoryDetails []*types.Category `json:"categoryDetails"`
	LanguageDetails *types.Language   `json:"languageDetails"`
	AuthorDetails   *AuthorSummary    `json:"authorDetails"`
}

type CoursePage struct {
	Items      []*CourseView `json:"items"`
	TotalPages int           `json:"totalPages"`
	TotalCount int64         `json:"totalCount"`
}

type CreateCourseInput struct {
	AuthorID      uuid.UUID
	Title         string
	Description   string
	LanguageID    uuid.UUID
	Level         string
	Price         *float64
	Duration      string
	Prerequisites []string
	Resources     []types.CourseResource
	Categories    []uuid.UUID
	Tags          []string
}

// UpdateCourseInput carries one parsed multipart update. Nil pointers and nil
// slices leave the field untouched.
type UpdateCourseInput struct {
	AuthorID        uuid.UUID
	Title           *string
	Description     *string
	Price           *float64
	Level           *string
	LanguageID      *uuid.UUID
	Duration        *string
	Exercises       []uuid.UUID
	Prerequisites   []string
	Categories      []uuid.UUID
	Recommendations []uuid.UUID
	Tags            []string
	Poster          []byte
}

type CatalogService interface {
	ListCourses(ctx context.Context, page, pageSize int) (*CoursePage, error)
	// GetCourseDetail returns nil without error for an unknown course.
	GetCourseDetail(ctx context.Context, courseID uuid.UUID, page, pageSize int) (*CourseView, error)
	CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, in UpdateCourseInput) (*CourseView, error)
	LinkLesson(dbc dbctx.Context, courseID, lessonID uuid.UUID) error
	LinkExercise(dbc dbctx.Context, courseID, exerciseID uuid.UUID) error
	Invalidate(ctx context.Context)
}

type catalogService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	media MediaService
	cache rediscache.Cache
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, rs repos.Set, media MediaService, cache rediscache.Cache) CatalogService {
	return &catalogService{
		db:    db,
		log:   log.With("service", "CatalogService"),
		repos: rs,
		media: media,
		cache: cache,
	}
}

func (cs *catalogService) ListCourses(ctx context.Context, page, pageSize int) (*CoursePage, error) {
	page, pageSize = normalizePage(page, pageSize)
	key := fmt.Sprintf("list:%d:%d", page, pageSize)

	var cached CoursePage
	if hit, err := cs.cache.GetJSON(ctx, cacheNamespaceCatalog, key, &cached); err != nil {
		cs.log.Warn("catalog cache read failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	dbc := dbctx.New(ctx)
	rows, total, err := cs.repos.Courses.List(dbc, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, wrap("list courses", err)
	}
	items, err := cs.assemble(dbc, rows)
	if err != nil {
		return nil, err
	}
	out := &CoursePage{Items: items, TotalPages: totalPages(total, pageSize), TotalCount: total}
	if err := cs.cache.SetJSON(ctx, cacheNamespaceCatalog, key, out); err != nil {
		cs.log.Warn("catalog cache write failed", "error", err)
	}
	return out, nil
}

func (cs *catalogService) GetCourseDetail(ctx context.Context, courseID uuid.UUID, page, pageSize int) (*CourseView, error) {
	if err := requireID(courseID, "courseId"); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)
	// The window applies to the single matched course, so any page past the
	// first is empty.
	if (page-1)*pageSize > 0 {
		return nil, nil
	}
	key := "detail:" + courseID.String()
	var cached CourseView
	if hit, err := cs.cache.GetJSON(ctx, cacheNamespaceCatalog, key, &cached); err != nil {
		cs.log.Warn("catalog cache read failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	dbc := dbctx.New(ctx)
	c, err := cs.repos.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, wrap("get course", err)
	}
	if c == nil {
		return nil, nil
	}
	items, err := cs.assemble(dbc, []*types.Course{c})
	if err != nil {
		return nil, err
	}
	if err := cs.cache.SetJSON(ctx, cacheNamespaceCatalog, key, items[0]); err != nil {
		cs.log.Warn("catalog cache write failed", "error", err)
	}
	return items[0], nil
}

// assemble joins a page of courses. Each relation is fetched with one batched
// query; independent queries run concurrently.
func (cs *catalogService) assemble(dbc dbctx.Context, courses []*types.Course) ([]*CourseView, error) {
	out := make([]*CourseView, 0, len(courses))
	if len(courses) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(courses))
	authorIDs := make([]uuid.UUID, 0, len(courses))
	languageIDs := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
		authorIDs = append(authorIDs, c.AuthorID)
		if c.LanguageID != nil {
			languageIDs = append(languageIDs, *c.LanguageID)
		}
	}

	var (
		lessonRefs, exerciseRefs, categoryRefs, recRefs map[uuid.UUID][]uuid.UUID
		tags                                            map[uuid.UUID][]string
		authors                                         []*types.User
		languages                                       []*types.Language
	)
	g, gctx := errgroup.WithContext(dbc.Ctx)
	inner := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	g.Go(func() (err error) {
		lessonRefs, err = cs.repos.Links.RefsByOwners(inner, joins.CourseLessons, ids)
		return wrap("load course lessons", err)
	})
	g.Go(func() (err error) {
		exerciseRefs, err = cs.repos.Links.RefsByOwners(inner, joins.CourseExercises, ids)
		return wrap("load course exercises", err)
	})
	g.Go(func() (err error) {
		categoryRefs, err = cs.repos.Links.RefsByOwners(inner, joins.CourseCategories, ids)
		return wrap("load course categories", err)
	})
	g.Go(func() (err error) {
		recRefs, err = cs.repos.Links.RefsByOwners(inner, joins.CourseRecommendations, ids)
		return wrap("load course recommendations", err)
	})
	g.Go(func() (err error) {
		tags, err = cs.repos.CourseTags.ByCourses(inner, ids)
		return wrap("load course tags", err)
	})
	g.Go(func() (err error) {
		authors, err = cs.repos.Users.GetByIDs(inner, authorIDs)
		return wrap("load authors", err)
	})
	g.Go(func() (err error) {
		languages, err = cs.repos.Languages.GetByIDs(inner, languageIDs)
		return wrap("load languages", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		lessons    []*types.Lesson
		exercises  []*types.Exercise
		categories []*types.Category
	)
	g, gctx = errgroup.WithContext(dbc.Ctx)
	inner = dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	g.Go(func() (err error) {
		lessons, err = cs.repos.Lessons.GetByIDs(inner, flatten(lessonRefs))
		return wrap("load lessons", err)
	})
	g.Go(func() (err error) {
		exercises, err = cs.repos.Exercises.GetByIDs(inner, flatten(exerciseRefs))
		return wrap("load exercises", err)
	})
	g.Go(func() (err error) {
		categories, err = cs.repos.Categories.GetByIDs(inner, flatten(categoryRefs))
		return wrap("load categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lessonByID := indexByID(lessons, func(l *types.Lesson) uuid.UUID { return l.ID })
	exerciseByID := indexByID(exercises, func(e *types.Exercise) uuid.UUID { return e.ID })
	categoryByID := indexByID(categories, func(c *types.Category) uuid.UUID { return c.ID })
	authorByID := indexByID(authors, func(u *types.User) uuid.UUID { return u.ID })
	languageByID := indexByID(languages, func(l *types.Language) uuid.UUID { return l.ID })

	for _, c := range courses {
		v := &CourseView{
			Course:          *c,
			Tags:            nonNilStrings(tags[c.ID]),
			Lessons:         nonNilIDs(lessonRefs[c.ID]),
			Exercises:       nonNilIDs(exerciseRefs[c.ID]),
			Categories:      nonNilIDs(categoryRefs[c.ID]),
			Recommendations: nonNilIDs(recRefs[c.ID]),
			LessonDetails:   pick(lessonRefs[c.ID], lessonByID),
			ExerciseDetails: pick(exerciseRefs[c.ID], exerciseByID),
			CategoryDetails: pick(categoryRefs[c.ID], categoryByID),
		}
		if c.LanguageID != nil {
			v.LanguageDetails = languageByID[*c.LanguageID]
		}
		if a := authorByID[c.AuthorID]; a != nil {
			v.AuthorDetails = &AuthorSummary{ID: a.ID, Name: a.Name, Email: a.Email}
		}
		out = append(out, v)
	}
	return out, nil
}

func (cs *catalogService) CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	title, err := requireText(in.Title, "title")
	if err != nil {
		return nil, err
	}
	description, err := requireText(in.Description, "description")
	if err != nil {
		return nil, err
	}
	if in.AuthorID == uuid.Nil {
		return nil, apierr.Missing("author is required")
	}
	if in.LanguageID == uuid.Nil {
		return nil, apierr.Missing("language is required")
	}
	if strings.TrimSpace(in.Level) == "" {
		return nil, apierr.Missing("level is required")
	}
	if in.Prerequisites == nil {
		return nil, apierr.Missing("prerequisites is required")
	}
	if in.Price == nil {
		return nil, apierr.Missing("price is required")
	}
	level := types.CourseLevel(strings.ToLower(strings.TrimSpace(in.Level)))
	if !level.Valid() {
		return nil, apierr.Invalid("level must be one of beginner, intermediate, advanced")
	}
	if *in.Price < 0 {
		return nil, apierr.Invalid("price must not be negative")
	}

	course := &types.Course{
		Title:         title,
		Description:   description,
		AuthorID:      in.AuthorID,
		Price:         *in.Price,
		Level:         level,
		LanguageID:    &in.LanguageID,
		Duration:      strings.TrimSpace(in.Duration),
		Prerequisites: datatypes.JSONSlice[string](dedupeStrings(in.Prerequisites)),
		Resources:     datatypes.JSONSlice[types.CourseResource](in.Resources),
	}
	err = inTx(dbctx.New(ctx), cs.db, func(dbc dbctx.Context) error {
		author, err := cs.repos.Users.GetByID(dbc, in.AuthorID)
		if err != nil {
			return wrap("get author", err)
		}
		if author == nil {
			return apierr.NotFound("author not found")
		}
		lang, err := cs.repos.Languages.GetByID(dbc, in.LanguageID)
		if err != nil {
			return wrap("get language", err)
		}
		if lang == nil {
			return apierr.NotFound("language not found")
		}
		taken, err := cs.repos.Courses.TitleTaken(dbc, title, uuid.Nil)
		if err != nil {
			return wrap("check course title", err)
		}
		if taken {
			return apierr.Duplicated("course title already exists")
		}
		if err := cs.repos.Courses.Create(dbc, course); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Duplicated("course title already exists")
			}
			return wrap("create course", err)
		}
		if err := cs.repos.Links.Append(dbc, joins.CourseCategories, course.ID, in.Categories...); err != nil {
			return wrap("link course categories", err)
		}
		return wrap("add course tags", cs.repos.CourseTags.Add(dbc, course.ID, in.Tags...))
	})
	if err != nil {
		return nil, err
	}
	cs.Invalidate(ctx)
	return course, nil
}

func (cs *catalogService) UpdateCourse(ctx context.Context, courseID uuid.UUID, in UpdateCourseInput) (*CourseView, error) {
	if err := requireID(courseID, "courseId"); err != nil {
		return nil, err
	}
	if in.AuthorID == uuid.Nil {
		return nil, apierr.Missing("author is required")
	}
	updates := map[string]any{}
	if in.Title != nil {
		t, err := requireText(*in.Title, "title")
		if err != nil {
			return nil, err
		}
		updates["title"] = t
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apierr.Invalid("price must not be negative")
		}
		updates["price"] = *in.Price
	}
	if in.Level != nil {
		level := types.CourseLevel(strings.ToLower(strings.TrimSpace(*in.Level)))
		if !level.Valid() {
			return nil, apierr.Invalid("level must be one of beginner, intermediate, advanced")
		}
		updates["level"] = level
	}
	if in.Duration != nil {
		updates["duration"] = strings.TrimSpace(*in.Duration)
	}

	dbc := dbctx.New(ctx)
	course, err := cs.repos.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, wrap("get course", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}

	var poster types.Media
	if len(in.Poster) > 0 {
		poster, err = cs.media.UploadPoster(ctx, courseID, in.Poster)
		if err != nil {
			return nil, err
		}
		updates["poster_url"] = poster.URL
		updates["poster_key"] = poster.Key
	}

	err = inTx(dbc, cs.db, func(dbc dbctx.Context) error {
		author, err := cs.repos.Users.GetByID(dbc, in.AuthorID)
		if err != nil {
			return wrap("get author", err)
		}
		if author == nil {
			return apierr.NotFound("author not found")
		}
		if author.ID != course.AuthorID {
			return apierr.NotPermit("only the course author can update it")
		}
		if t, ok := updates["title"].(string); ok {
			taken, err := cs.repos.Courses.TitleTaken(dbc, t, courseID)
			if err != nil {
				return wrap("check course title", err)
			}
			if taken {
				return apierr.Duplicated("course title already exists")
			}
		}
		if in.LanguageID != nil {
			lang, err := cs.repos.Languages.GetByID(dbc, *in.LanguageID)
			if err != nil {
				return wrap("get language", err)
			}
			if lang == nil {
				return apierr.NotFound("language not found")
			}
			updates["language_id"] = *in.LanguageID
		}
		if in.Prerequisites != nil {
			updates["prerequisites"] = datatypes.JSONSlice[string](mergeStrings(course.Prerequisites, in.Prerequisites))
		}
		if err := cs.repos.Courses.UpdateFields(dbc, courseID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Duplicated("course title already exists")
			}
			return wrap("update course", err)
		}
		if in.Exercises != nil {
			if err := cs.repos.Links.Replace(dbc, joins.CourseExercises, courseID, in.Exercises); err != nil {
				return wrap("replace course exercises", err)
			}
		}
		if err := cs.repos.Links.Append(dbc, joins.CourseCategories, courseID, in.Categories...); err != nil {
			return wrap("link course categories", err)
		}
		if err := cs.repos.Links.Append(dbc, joins.CourseRecommendations, courseID, withoutID(in.Recommendations, courseID)...); err != nil {
			return wrap("link course recommendations", err)
		}
		return wrap("add course tags", cs.repos.CourseTags.Add(dbc, courseID, in.Tags...))
	})
	if err != nil {
		if !poster.IsZero() {
			cs.media.Delete(ctx, gcp.BucketCategoryPoster, poster)
		}
		return nil, err
	}
	if !poster.IsZero() && course.Poster.Key != poster.Key {
		cs.media.Delete(ctx, gcp.BucketCategoryPoster, course.Poster)
	}
	cs.Invalidate(ctx)

	updated, err := cs.repos.Courses.GetByID(dbctx.New(ctx), courseID)
	if err != nil {
		return nil, wrap("reload course", err)
	}
	items, err := cs.assemble(dbctx.New(ctx), []*types.Course{updated})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (cs *catalogService) LinkLesson(dbc dbctx.Context, courseID, lessonID uuid.UUID) error {
	return wrap("link course lesson", cs.repos.Links.Append(dbc, joins.CourseLessons, courseID, lessonID))
}

func (cs *catalogService) LinkExercise(dbc dbctx.Context, courseID, exerciseID uuid.UUID) error {
	return wrap("link course exercise", cs.repos.Links.Append(dbc, joins.CourseExercises, courseID, exerciseID))
}

func (cs *catalogService) Invalidate(ctx context.Context) {
	invalidateCatalog(ctx, cs.cache, cs.log)
}

func flatten(m map[uuid.UUID][]uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	out := []uuid.UUID{}
	for _, ids := range m {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func indexByID[T any](rows []*T, id func(*T) uuid.UUID) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(rows))
	for _, r := range rows {
		if r != nil {
			out[id(r)] = r
		}
	}
	return out
}

// pick returns the rows for refs in ref order, dropping refs with no row.
func pick[T any](refs []uuid.UUID, byID map[uuid.UUID]*T) []*T {
	out := make([]*T, 0, len(refs))
	for _, id := range refs {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func withoutID(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
