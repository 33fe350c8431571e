package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/domain/learning"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type ExerciseInput struct {
	Title         string
	Question      string
	Options       []string
	CorrectAnswer *int
	Explanation   string
	FromLesson    *uuid.UUID
	CourseID      *uuid.UUID
}

// ExercisePatch is a partial update; nil fields are left alone.
type ExercisePatch struct {
	Title         *string
	Question      *string
	Options       []string
	CorrectAnswer *int
	Explanation   *string
	FromLesson    *uuid.UUID
	CourseID      *uuid.UUID
}

type ExerciseService interface {
	AddExercise(ctx context.Context, in ExerciseInput) (*types.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID uuid.UUID, patch ExercisePatch) (*types.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID uuid.UUID) error
}

type exerciseService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Set
	catalog CatalogService
}

func NewExerciseService(db *gorm.DB, log *logger.Logger, rs repos.Set, catalog CatalogService) ExerciseService {
	return &exerciseService{
		db:      db,
		log:     log.With("service", "ExerciseService"),
		repos:   rs,
		catalog: catalog,
	}
}

func (es *exerciseService) AddExercise(ctx context.Context, in ExerciseInput) (*types.Exercise, error) {
	title, err := requireText(in.Title, "title")
	if err != nil {
		return nil, err
	}
	question, err := requireText(in.Question, "question")
	if err != nil {
		return nil, err
	}
	explanation, err := requireText(in.Explanation, "explanation")
	if err != nil {
		return nil, err
	}
	if len(in.Options) == 0 {
		return nil, apierr.Missing("options is required")
	}
	if in.CorrectAnswer == nil {
		return nil, apierr.Missing("correctAnswer is required")
	}
	if !learning.ValidAnswerIndex(*in.CorrectAnswer, in.Options) {
		return nil, apierr.Invalid("correctAnswer must index into options")
	}

	ex := &types.Exercise{
		Title:         title,
		Question:      question,
		Options:       datatypes.JSONSlice[string](in.Options),
		CorrectAnswer: *in.CorrectAnswer,
		Explanation:   explanation,
	}
	if in.FromLesson != nil && *in.FromLesson != uuid.Nil {
		ex.FromLessonID = in.FromLesson
	}
	err = inTx(dbctx.New(ctx), es.db, func(dbc dbctx.Context) error {
		if err := es.checkOwners(dbc, ex.FromLessonID, in.CourseID); err != nil {
			return err
		}
		if err := es.repos.Exercises.Create(dbc, ex); err != nil {
			return wrap("create exercise", err)
		}
		return es.linkOwners(dbc, ex.ID, ex.FromLessonID, in.CourseID)
	})
	if err != nil {
		return nil, err
	}
	es.catalog.Invalidate(ctx)
	return ex, nil
}

func (es *exerciseService) UpdateExercise(ctx context.Context, exerciseID uuid.UUID, patch ExercisePatch) (*types.Exercise, error) {
	if err := requireID(exerciseID, "exerciseId"); err != nil {
		return nil, err
	}
	var out *types.Exercise
	err := inTx(dbctx.New(ctx), es.db, func(dbc dbctx.Context) error {
		ex, err := es.repos.Exercises.GetByID(dbc, exerciseID)
		if err != nil {
			return wrap("get exercise", err)
		}
		if ex == nil {
			return apierr.NotFound("exercise not found")
		}
		updates := map[string]any{}
		if patch.Title != nil {
			t, err := requireText(*patch.Title, "title")
			if err != nil {
				return err
			}
			updates["title"] = t
		}
		if patch.Question != nil {
			q, err := requireText(*patch.Question, "question")
			if err != nil {
				return err
			}
			updates["question"] = q
		}
		if patch.Explanation != nil {
			updates["explanation"] = strings.TrimSpace(*patch.Explanation)
		}
		options := []string(ex.Options)
		if patch.Options != nil {
			if len(patch.Options) == 0 {
				return apierr.Invalid("options must not be empty")
			}
			options = patch.Options
			updates["options"] = datatypes.JSONSlice[string](patch.Options)
		}
		correct := ex.CorrectAnswer
		if patch.CorrectAnswer != nil {
			correct = *patch.CorrectAnswer
			updates["correct_answer"] = correct
		}
		if (patch.Options != nil || patch.CorrectAnswer != nil) && !learning.ValidAnswerIndex(correct, options) {
			return apierr.Invalid("correctAnswer must index into options")
		}
		var fromLesson *uuid.UUID
		if patch.FromLesson != nil && *patch.FromLesson != uuid.Nil {
			fromLesson = patch.FromLesson
			updates["from_lesson_id"] = *patch.FromLesson
		}
		if err := es.checkOwners(dbc, fromLesson, patch.CourseID); err != nil {
			return err
		}
		if err := es.repos.Exercises.UpdateFields(dbc, exerciseID, updates); err != nil {
			return wrap("update exercise", err)
		}
		if err := es.linkOwners(dbc, exerciseID, fromLesson, patch.CourseID); err != nil {
			return err
		}
		out, err = es.repos.Exercises.GetByID(dbc, exerciseID)
		return wrap("reload exercise", err)
	})
	if err != nil {
		return nil, err
	}
	es.catalog.Invalidate(ctx)
	return out, nil
}

// DeleteExercise pulls the exercise from its lesson and every course, then
// deletes it. The writes are not wrapped in a transaction.
func (es *exerciseService) DeleteExercise(ctx context.Context, exerciseID uuid.UUID) error {
	if err := requireID(exerciseID, "exerciseId"); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	ex, err := es.repos.Exercises.GetByID(dbc, exerciseID)
	if err != nil {
		return wrap("get exercise", err)
	}
	if ex == nil {
		return apierr.NotFound("exercise not found")
	}
	if _, err := es.repos.Links.RemoveRef(dbc, joins.LessonExercises, exerciseID); err != nil {
		return wrap("pull exercise from lesson", err)
	}
	if _, err := es.repos.Links.RemoveRef(dbc, joins.CourseExercises, exerciseID); err != nil {
		return wrap("pull exercise from courses", err)
	}
	if _, err := es.repos.Exercises.Delete(dbc, exerciseID); err != nil {
		return wrap("delete exercise", err)
	}
	es.catalog.Invalidate(ctx)
	return nil
}

func (es *exerciseService) checkOwners(dbc dbctx.Context, lessonID, courseID *uuid.UUID) error {
	if lessonID != nil && *lessonID != uuid.Nil {
		l, err := es.repos.Lessons.GetByID(dbc, *lessonID)
		if err != nil {
			return wrap("get lesson", err)
		}
		if l == nil {
			return apierr.NotFound("lesson not found")
		}
	}
	if courseID != nil && *courseID != uuid.Nil {
		c, err := es.repos.Courses.GetByID(dbc, *courseID)
		if err != nil {
			return wrap("get course", err)
		}
		if c == nil {
			return apierr.NotFound("course not found")
		}
	}
	return nil
}

func (es *exerciseService) linkOwners(dbc dbctx.Context, exerciseID uuid.UUID, lessonID, courseID *uuid.UUID) error {
	if lessonID != nil && *lessonID != uuid.Nil {
		if err := es.repos.Links.Append(dbc, joins.LessonExercises, *lessonID, exerciseID); err != nil {
			return wrap("link lesson exercise", err)
		}
	}
	if courseID != nil && *courseID != uuid.Nil {
		return es.catalog.LinkExercise(dbc, *courseID, exerciseID)
	}
	return nil
}
