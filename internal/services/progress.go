package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// CourseProgress is one user's completion record for a course.
// CompletedLessonIDs lists only lessons the course still contains, in course
// order, so it always agrees with CompletionPercentage.
type CourseProgress struct {
	CourseID             uuid.UUID   `json:"courseId"`
	CompletionPercentage float64     `json:"completionPercentage"`
	CompletedLessonIDs   []uuid.UUID `json:"completedLessonIds"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

type UserProgress struct {
	CoursesCompleted   []*CourseProgress             `json:"coursesCompleted"`
	ExercisesCompleted []*types.UserExerciseProgress `json:"exercisesCompleted"`
	LastActive         *time.Time                    `json:"lastActive"`
}

type AnswerInput struct {
	UserID              uuid.UUID
	ExerciseID          uuid.UUID
	SelectedOptionIndex int
	AnswerTimeMs        int64
}

type AnswerResult struct {
	IsCorrect bool `json:"isCorrect"`
	Attempt   int  `json:"attempt"`
}

type ProgressService interface {
	RecordLessonCompletion(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*CourseProgress, error)
	RecordAnswer(ctx context.Context, in AnswerInput) (*AnswerResult, error)
	GetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*CourseProgress, error)
	GetUserProgress(ctx context.Context, userID uuid.UUID) (*UserProgress, error)
}

// maxAnswerAttempts bounds retries after a concurrent submit took the same
// attempt number.
const maxAnswerAttempts = 3

type progressService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Set
	catalog CatalogService
	now     func() time.Time
}

// NewProgressService takes the catalog so answers can drop cached course
// views that embed exercise answer counts.
func NewProgressService(db *gorm.DB, log *logger.Logger, rs repos.Set, catalog CatalogService) ProgressService {
	return &progressService{
		db:      db,
		log:     log.With("service", "ProgressService"),
		repos:   rs,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (ps *progressService) RecordLessonCompletion(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*CourseProgress, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	if err := requireID(courseID, "courseId"); err != nil {
		return nil, err
	}
	if err := requireID(lessonID, "completedLessonId"); err != nil {
		return nil, err
	}

	var out *CourseProgress
	err := inTx(dbctx.New(ctx), ps.db, func(dbc dbctx.Context) error {
		course, err := ps.repos.Courses.GetByID(dbc, courseID)
		if err != nil {
			return wrap("get course", err)
		}
		if course == nil {
			return apierr.NotFound("course not found")
		}
		lessons, err := ps.repos.Links.Refs(dbc, joins.CourseLessons, courseID)
		if err != nil {
			return wrap("load course lessons", err)
		}
		if !containsID(lessons, lessonID) {
			return apierr.NotFound("lesson not in course")
		}
		user, err := ps.repos.Users.GetByID(dbc, userID)
		if err != nil {
			return wrap("get user", err)
		}
		if user == nil {
			return apierr.NotFound("user not found")
		}

		if _, err := ps.repos.CompletedLessons.Add(dbc, userID, courseID, lessonID); err != nil {
			return wrap("add completed lesson", err)
		}
		done, err := ps.repos.CompletedLessons.CountInCourse(dbc, userID, courseID)
		if err != nil {
			return wrap("count completed lessons", err)
		}
		pct := completionPercentage(done, len(lessons))
		row, err := ps.repos.CourseProgress.Upsert(dbc, userID, courseID, pct)
		if err != nil {
			return wrap("upsert course progress", err)
		}
		if err := ps.repos.Users.TouchLastActive(dbc, userID, ps.now()); err != nil {
			return wrap("touch last active", err)
		}
		completed, err := ps.repos.CompletedLessons.LessonIDs(dbc, userID, courseID)
		if err != nil {
			return wrap("load completed lessons", err)
		}
		out = &CourseProgress{
			CourseID:             courseID,
			CompletionPercentage: row.CompletionPercentage,
			CompletedLessonIDs:   inCourseOrder(completed, lessons),
			UpdatedAt:            row.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *progressService) RecordAnswer(ctx context.Context, in AnswerInput) (*AnswerResult, error) {
	if err := requireID(in.UserID, "userId"); err != nil {
		return nil, err
	}
	if err := requireID(in.ExerciseID, "exerciseId"); err != nil {
		return nil, err
	}
	if in.AnswerTimeMs < 0 {
		return nil, apierr.Invalid("answerTime must not be negative")
	}

	for try := 1; try <= maxAnswerAttempts; try++ {
		res, err := ps.recordAnswerOnce(ctx, in)
		if err == nil {
			ps.catalog.Invalidate(ctx)
			return res, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		ps.log.Warn("answer attempt collided; retrying", "user_id", in.UserID, "exercise_id", in.ExerciseID, "try", try)
	}
	return nil, apierr.Duplicated("answer submitted concurrently, please retry")
}

func (ps *progressService) recordAnswerOnce(ctx context.Context, in AnswerInput) (*AnswerResult, error) {
	var out *AnswerResult
	err := inTx(dbctx.New(ctx), ps.db, func(dbc dbctx.Context) error {
		ex, err := ps.repos.Exercises.GetByID(dbc, in.ExerciseID)
		if err != nil {
			return wrap("get exercise", err)
		}
		if ex == nil {
			return apierr.NotFound("exercise not found")
		}
		user, err := ps.repos.Users.GetByID(dbc, in.UserID)
		if err != nil {
			return wrap("get user", err)
		}
		if user == nil {
			return apierr.NotFound("user not found")
		}

		last, err := ps.repos.UserResponses.MaxAttempt(dbc, in.UserID, in.ExerciseID)
		if err != nil {
			return wrap("load last attempt", err)
		}
		resp := &types.UserResponse{
			UserID:              in.UserID,
			ExerciseID:          in.ExerciseID,
			Attempt:             last + 1,
			SelectedOptionIndex: in.SelectedOptionIndex,
			IsCorrect:           in.SelectedOptionIndex == ex.CorrectAnswer,
			AnswerTimeMs:        in.AnswerTimeMs,
		}
		if err := ps.repos.UserResponses.Create(dbc, resp); err != nil {
			return wrap("create user response", err)
		}
		if err := ps.repos.Exercises.IncrementAnswerCount(dbc, in.ExerciseID); err != nil {
			return wrap("increment answer count", err)
		}
		if err := ps.repos.ExerciseProgress.Increment(dbc, in.UserID, in.ExerciseID); err != nil {
			return wrap("increment exercise progress", err)
		}
		if err := ps.repos.Users.TouchLastActive(dbc, in.UserID, ps.now()); err != nil {
			return wrap("touch last active", err)
		}
		out = &AnswerResult{IsCorrect: resp.IsCorrect, Attempt: resp.Attempt}
		return nil
	})
	return out, err
}

func (ps *progressService) GetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*CourseProgress, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	if err := requireID(courseID, "courseId"); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	row, err := ps.repos.CourseProgress.Get(dbc, userID, courseID)
	if err != nil {
		return nil, wrap("get course progress", err)
	}
	if row == nil {
		return nil, apierr.NotFound("course progress not found")
	}
	completed, err := ps.repos.CompletedLessons.LessonIDs(dbc, userID, courseID)
	if err != nil {
		return nil, wrap("load completed lessons", err)
	}
	lessons, err := ps.repos.Links.Refs(dbc, joins.CourseLessons, courseID)
	if err != nil {
		return nil, wrap("load course lessons", err)
	}
	return &CourseProgress{
		CourseID:             courseID,
		CompletionPercentage: row.CompletionPercentage,
		CompletedLessonIDs:   inCourseOrder(completed, lessons),
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func (ps *progressService) GetUserProgress(ctx context.Context, userID uuid.UUID) (*UserProgress, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	user, err := ps.repos.Users.GetByID(dbc, userID)
	if err != nil {
		return nil, wrap("get user", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user not found")
	}
	rows, err := ps.repos.CourseProgress.ListByUser(dbc, userID)
	if err != nil {
		return nil, wrap("list course progress", err)
	}
	completed, err := ps.repos.CompletedLessons.ByUser(dbc, userID)
	if err != nil {
		return nil, wrap("list completed lessons", err)
	}
	courseIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		courseIDs = append(courseIDs, r.CourseID)
	}
	lessons, err := ps.repos.Links.RefsByOwners(dbc, joins.CourseLessons, courseIDs)
	if err != nil {
		return nil, wrap("load course lessons", err)
	}
	exercises, err := ps.repos.ExerciseProgress.ListByUser(dbc, userID)
	if err != nil {
		return nil, wrap("list exercise progress", err)
	}

	out := &UserProgress{
		CoursesCompleted:   make([]*CourseProgress, 0, len(rows)),
		ExercisesCompleted: exercises,
		LastActive:         user.LastActive,
	}
	if out.ExercisesCompleted == nil {
		out.ExercisesCompleted = []*types.UserExerciseProgress{}
	}
	for _, r := range rows {
		out.CoursesCompleted = append(out.CoursesCompleted, &CourseProgress{
			CourseID:             r.CourseID,
			CompletionPercentage: r.CompletionPercentage,
			CompletedLessonIDs:   inCourseOrder(completed[r.CourseID], lessons[r.CourseID]),
			UpdatedAt:            r.UpdatedAt,
		})
	}
	return out, nil
}

// completionPercentage is 100*done/total, clamped to [0,100].
func completionPercentage(done int64, total int) float64 {
	if total <= 0 || done <= 0 {
		return 0
	}
	pct := float64(done) * 100 / float64(total)
	if pct > 100 {
		return 100
	}
	return pct
}

// inCourseOrder returns the completed lesson ids the course still lists, in
// course order. Completions of lessons since removed from the course are
// dropped, matching the percentage denominator.
func inCourseOrder(completed, courseLessons []uuid.UUID) []uuid.UUID {
	done := make(map[uuid.UUID]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(completed))
	for _, id := range courseLessons {
		if _, ok := done[id]; ok {
			out = append(out, id)
			delete(done, id)
		}
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
