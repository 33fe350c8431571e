package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// LessonView is a lesson with its contents inlined in link order. A content
// slot whose row is gone is nil.
type LessonView struct {
	types.Lesson
	LessonContent []*types.LessonContent `json:"lessonContent"`
	Exercises     []uuid.UUID            `json:"exercises"`
}

type AddLessonInput struct {
	CourseID uuid.UUID
	Title    string
	Contents []string
}

type UpdateLessonInput struct {
	Title     string
	Content   string
	ContentID *uuid.UUID
}

type LessonService interface {
	GetAllLessons(ctx context.Context, courseID uuid.UUID) ([]*LessonView, error)
	GetLesson(ctx context.Context, courseID, lessonID uuid.UUID) (*LessonView, error)
	AddLesson(ctx context.Context, in AddLessonInput) (*LessonView, error)
	AddLessonAtIndex(ctx context.Context, index int, in AddLessonInput) (*LessonView, error)
	UpdateLesson(ctx context.Context, lessonID uuid.UUID, in UpdateLessonInput) (*LessonView, error)
	UpdateLessonContent(ctx context.Context, contentID uuid.UUID, body string) (*types.LessonContent, error)
	DeleteLessonContent(ctx context.Context, contentID uuid.UUID) error
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
}

type lessonService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Set
	catalog CatalogService
}

func NewLessonService(db *gorm.DB, log *logger.Logger, rs repos.Set, catalog CatalogService) LessonService {
	return &lessonService{
		db:      db,
		log:     log.With("service", "LessonService"),
		repos:   rs,
		catalog: catalog,
	}
}

func (ls *lessonService) requireCourse(dbc dbctx.Context, courseID uuid.UUID) error {
	if err := requireID(courseID, "courseId"); err != nil {
		return err
	}
	c, err := ls.repos.Courses.GetByID(dbc, courseID)
	if err != nil {
		return wrap("get course", err)
	}
	if c == nil {
		return apierr.NotFound("course not found")
	}
	return nil
}

func (ls *lessonService) GetAllLessons(ctx context.Context, courseID uuid.UUID) ([]*LessonView, error) {
	dbc := dbctx.New(ctx)
	if err := ls.requireCourse(dbc, courseID); err != nil {
		return nil, err
	}
	refs, err := ls.repos.Links.Refs(dbc, joins.CourseLessons, courseID)
	if err != nil {
		return nil, wrap("load course lessons", err)
	}
	return ls.views(dbc, refs)
}

func (ls *lessonService) GetLesson(ctx context.Context, courseID, lessonID uuid.UUID) (*LessonView, error) {
	dbc := dbctx.New(ctx)
	if err := requireID(lessonID, "lessonId"); err != nil {
		return nil, err
	}
	if err := ls.requireCourse(dbc, courseID); err != nil {
		return nil, err
	}
	linked, err := ls.repos.Links.Has(dbc, joins.CourseLessons, courseID, lessonID)
	if err != nil {
		return nil, wrap("check course lesson", err)
	}
	if !linked {
		return nil, apierr.NotFound("lesson not found in course")
	}
	views, err := ls.views(dbc, []uuid.UUID{lessonID})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apierr.NotFound("lesson not found")
	}
	return views[0], nil
}

// views expands lesson ids in order. Ids with no lesson row are dropped.
func (ls *lessonService) views(dbc dbctx.Context, ids []uuid.UUID) ([]*LessonView, error) {
	out := make([]*LessonView, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	lessons, err := ls.repos.Lessons.GetByIDs(dbc, ids)
	if err != nil {
		return nil, wrap("load lessons", err)
	}
	contents, err := ls.repos.LessonContents.Resolve(dbc, ids)
	if err != nil {
		return nil, wrap("resolve lesson contents", err)
	}
	exercises, err := ls.repos.Links.RefsByOwners(dbc, joins.LessonExercises, ids)
	if err != nil {
		return nil, wrap("load lesson exercises", err)
	}
	byID := indexByID(lessons, func(l *types.Lesson) uuid.UUID { return l.ID })
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			continue
		}
		v := &LessonView{
			Lesson:        *l,
			LessonContent: contents[id],
			Exercises:     nonNilIDs(exercises[id]),
		}
		if v.LessonContent == nil {
			v.LessonContent = []*types.LessonContent{}
		}
		out = append(out, v)
	}
	return out, nil
}

func (ls *lessonService) AddLesson(ctx context.Context, in AddLessonInput) (*LessonView, error) {
	return ls.add(ctx, -1, in)
}

func (ls *lessonService) AddLessonAtIndex(ctx context.Context, index int, in AddLessonInput) (*LessonView, error) {
	if index < 0 {
		return nil, apierr.Invalid("index out of range")
	}
	return ls.add(ctx, index, in)
}

// add appends when index is negative, otherwise inserts at index.
func (ls *lessonService) add(ctx context.Context, index int, in AddLessonInput) (*LessonView, error) {
	title, err := requireText(in.Title, "title")
	if err != nil {
		return nil, err
	}
	if in.CourseID == uuid.Nil {
		return nil, apierr.Missing("courseId is required")
	}

	lesson := &types.Lesson{Title: title}
	err = inTx(dbctx.New(ctx), ls.db, func(dbc dbctx.Context) error {
		if err := ls.requireCourse(dbc, in.CourseID); err != nil {
			return err
		}
		if index >= 0 {
			n, err := ls.repos.Links.Count(dbc, joins.CourseLessons, in.CourseID)
			if err != nil {
				return wrap("count course lessons", err)
			}
			if int64(index) > n {
				return apierr.Invalid("index out of range")
			}
		}
		if err := ls.repos.Lessons.Create(dbc, lesson); err != nil {
			return wrap("create lesson", err)
		}
		rows := make([]*types.LessonContent, 0, len(in.Contents))
		for _, body := range in.Contents {
			rows = append(rows, &types.LessonContent{Body: body})
		}
		created, err := ls.repos.LessonContents.Create(dbc, rows)
		if err != nil {
			return wrap("create lesson contents", err)
		}
		contentIDs := make([]uuid.UUID, 0, len(created))
		for _, c := range created {
			contentIDs = append(contentIDs, c.ID)
		}
		if err := ls.repos.Links.Append(dbc, joins.LessonContents, lesson.ID, contentIDs...); err != nil {
			return wrap("link lesson contents", err)
		}
		if index < 0 {
			return ls.catalog.LinkLesson(dbc, in.CourseID, lesson.ID)
		}
		return wrap("insert course lesson", ls.repos.Links.InsertAt(dbc, joins.CourseLessons, in.CourseID, lesson.ID, index))
	})
	if err != nil {
		return nil, err
	}
	ls.catalog.Invalidate(ctx)
	return ls.single(ctx, lesson.ID)
}

func (ls *lessonService) single(ctx context.Context, lessonID uuid.UUID) (*LessonView, error) {
	views, err := ls.views(dbctx.New(ctx), []uuid.UUID{lessonID})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apierr.NotFound("lesson not found")
	}
	return views[0], nil
}

func (ls *lessonService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, in UpdateLessonInput) (*LessonView, error) {
	if err := requireID(lessonID, "lessonId"); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	err := inTx(dbctx.New(ctx), ls.db, func(dbc dbctx.Context) error {
		lesson, err := ls.repos.Lessons.GetByID(dbc, lessonID)
		if err != nil {
			return wrap("get lesson", err)
		}
		if lesson == nil {
			return apierr.NotFound("lesson not found")
		}

		var contentID uuid.UUID
		if in.ContentID != nil && *in.ContentID != uuid.Nil {
			updated, err := ls.repos.LessonContents.UpdateBody(dbc, *in.ContentID, in.Content)
			if err != nil {
				return wrap("update lesson content", err)
			}
			if updated {
				contentID = *in.ContentID
			}
		}
		if contentID == uuid.Nil && in.Content != "" {
			created, err := ls.repos.LessonContents.Create(dbc, []*types.LessonContent{{Body: in.Content}})
			if err != nil {
				return wrap("create lesson content", err)
			}
			contentID = created[0].ID
		}
		if contentID != uuid.Nil {
			if err := ls.repos.Links.Append(dbc, joins.LessonContents, lessonID, contentID); err != nil {
				return wrap("link lesson content", err)
			}
		}
		if title != "" {
			return wrap("update lesson title", ls.repos.Lessons.UpdateTitle(dbc, lessonID, title))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ls.catalog.Invalidate(ctx)
	return ls.single(ctx, lessonID)
}

func (ls *lessonService) UpdateLessonContent(ctx context.Context, contentID uuid.UUID, body string) (*types.LessonContent, error) {
	if err := requireID(contentID, "lessonContentId"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, apierr.Missing("content is required")
	}
	dbc := dbctx.New(ctx)
	ok, err := ls.repos.LessonContents.UpdateBody(dbc, contentID, body)
	if err != nil {
		return nil, wrap("update lesson content", err)
	}
	if !ok {
		return nil, apierr.NotFound("lesson content not found")
	}
	c, err := ls.repos.LessonContents.GetByID(dbc, contentID)
	if err != nil {
		return nil, wrap("reload lesson content", err)
	}
	return c, nil
}

func (ls *lessonService) DeleteLessonContent(ctx context.Context, contentID uuid.UUID) error {
	if err := requireID(contentID, "lessonContentId"); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	n, err := ls.repos.LessonContents.Delete(dbc, contentID)
	if err != nil {
		return wrap("delete lesson content", err)
	}
	if n == 0 {
		return apierr.NotFound("lesson content not found")
	}
	if _, err := ls.repos.Links.RemoveRef(dbc, joins.LessonContents, contentID); err != nil {
		return wrap("unlink lesson content", err)
	}
	return nil
}

// DeleteLesson cascades as a sequence of independent writes. There is no
// enclosing transaction; a failure part way leaves the earlier steps applied.
func (ls *lessonService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	if err := requireID(lessonID, "lessonId"); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	lesson, err := ls.repos.Lessons.GetByID(dbc, lessonID)
	if err != nil {
		return wrap("get lesson", err)
	}
	if lesson == nil {
		return apierr.NotFound("lesson not found")
	}

	contentIDs, err := ls.repos.Links.Refs(dbc, joins.LessonContents, lessonID)
	if err != nil {
		return wrap("load lesson contents", err)
	}
	if _, err := ls.repos.LessonContents.Delete(dbc, contentIDs...); err != nil {
		return wrap("delete lesson contents", err)
	}

	exerciseIDs, err := ls.repos.Exercises.IDsFromLesson(dbc, lessonID)
	if err != nil {
		return wrap("load lesson exercises", err)
	}
	if len(exerciseIDs) > 0 {
		if _, err := ls.repos.Exercises.Delete(dbc, exerciseIDs...); err != nil {
			return wrap("delete lesson exercises", err)
		}
		if _, err := ls.repos.Links.RemoveRef(dbc, joins.LessonExercises, exerciseIDs...); err != nil {
			return wrap("unlink lesson exercises", err)
		}
		if _, err := ls.repos.Links.RemoveRef(dbc, joins.CourseExercises, exerciseIDs...); err != nil {
			return wrap("unlink course exercises", err)
		}
	}

	if _, err := ls.repos.Lessons.Delete(dbc, lessonID); err != nil {
		return wrap("delete lesson", err)
	}
	if err := ls.repos.Links.RemoveOwner(dbc, joins.LessonContents, lessonID); err != nil {
		return wrap("drop lesson content links", err)
	}
	if err := ls.repos.Links.RemoveOwner(dbc, joins.LessonExercises, lessonID); err != nil {
		return wrap("drop lesson exercise links", err)
	}

	if _, err := ls.repos.Links.RemoveRef(dbc, joins.CourseLessons, lessonID); err != nil {
		return wrap("pull lesson from courses", err)
	}
	ls.catalog.Invalidate(ctx)
	ls.log.Info("lesson deleted", "lesson_id", lessonID, "contents", len(contentIDs), "exercises", len(exerciseIDs))
	return nil
}
