package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestRecordLessonCompletionIsIdempotent(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	l1 := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "one")
	l2 := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "two")

	got, err := env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, l1.ID)
	if err != nil {
		t.Fatalf("complete l1: %v", err)
	}
	if got.CompletionPercentage != 50 || len(got.CompletedLessonIDs) != 1 || got.CompletedLessonIDs[0] != l1.ID {
		t.Fatalf("after l1: got=%+v", got)
	}

	got, err = env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, l2.ID)
	if err != nil {
		t.Fatalf("complete l2: %v", err)
	}
	if got.CompletionPercentage != 100 {
		t.Fatalf("after l2: pct=%v", got.CompletionPercentage)
	}

	again, err := env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, l1.ID)
	if err != nil {
		t.Fatalf("complete l1 again: %v", err)
	}
	if again.CompletionPercentage != 100 {
		t.Fatalf("repeat changed pct: %v", again.CompletionPercentage)
	}
	if len(again.CompletedLessonIDs) != 2 || again.CompletedLessonIDs[0] != l1.ID || again.CompletedLessonIDs[1] != l2.ID {
		t.Fatalf("repeat changed completed set: %v", again.CompletedLessonIDs)
	}

	stored, err := env.progress.GetCourseProgress(env.ctx, u.ID, c.ID)
	if err != nil {
		t.Fatalf("GetCourseProgress: %v", err)
	}
	if stored.CompletionPercentage != 100 || len(stored.CompletedLessonIDs) != 2 {
		t.Fatalf("stored progress: %+v", stored)
	}
}

func TestRecordLessonCompletionPercentageBound(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	lessons := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		lessons = append(lessons, testutil.SeedLesson(t, env.ctx, env.db, c.ID).ID)
	}
	for k, id := range lessons {
		got, err := env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, id)
		if err != nil {
			t.Fatalf("complete %d: %v", k, err)
		}
		want := 100 * float64(k+1) / 3
		if got.CompletionPercentage != want || got.CompletionPercentage < 0 || got.CompletionPercentage > 100 {
			t.Fatalf("after %d lessons: got=%v want=%v", k+1, got.CompletionPercentage, want)
		}
	}
}

func TestRecordLessonCompletionRejectsForeignLesson(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, u.ID, "")
	other := testutil.SeedLesson(t, env.ctx, env.db, uuid.Nil)

	_, err := env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, other.ID)
	if !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if _, err := env.progress.RecordLessonCompletion(env.ctx, uuid.Nil, c.ID, other.ID); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("want invalid for nil user, got %v", err)
	}
}

func TestRecordAnswerAttemptsIncrease(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	ex := testutil.SeedExercise(t, env.ctx, env.db, nil, []string{"A", "B", "C"}, 1)

	first, err := env.progress.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID, SelectedOptionIndex: 1, AnswerTimeMs: 1200})
	if err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if !first.IsCorrect || first.Attempt != 1 {
		t.Fatalf("first: got=%+v", first)
	}
	second, err := env.progress.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID, SelectedOptionIndex: 0, AnswerTimeMs: 800})
	if err != nil {
		t.Fatalf("second answer: %v", err)
	}
	if second.IsCorrect || second.Attempt != 2 {
		t.Fatalf("second: got=%+v", second)
	}
	third, err := env.progress.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID, SelectedOptionIndex: 1})
	if err != nil {
		t.Fatalf("third answer: %v", err)
	}
	if third.Attempt != 3 {
		t.Fatalf("third: got=%+v", third)
	}

	stored, err := env.repos.Exercises.GetByID(dbctx.New(env.ctx), ex.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.AnswerCount != 3 {
		t.Fatalf("answerCount: got=%d want=3", stored.AnswerCount)
	}

	up, err := env.progress.GetUserProgress(env.ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	if len(up.ExercisesCompleted) != 1 || up.ExercisesCompleted[0].CompletionCount != 3 {
		t.Fatalf("exercise progress: %+v", up.ExercisesCompleted)
	}
	if up.LastActive == nil {
		t.Fatalf("lastActive not stamped")
	}
}

func TestRecordAnswerValidation(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	ex := testutil.SeedExercise(t, env.ctx, env.db, nil, []string{"A", "B"}, 0)

	if _, err := env.progress.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID, AnswerTimeMs: -1}); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("negative time: got %v", err)
	}
	if _, err := env.progress.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: uuid.New()}); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown exercise: got %v", err)
	}
}

func TestCompletionPercentageClamps(t *testing.T) {
	if got := completionPercentage(0, 4); got != 0 {
		t.Fatalf("0/4: got=%v", got)
	}
	if got := completionPercentage(3, 0); got != 0 {
		t.Fatalf("3/0: got=%v", got)
	}
	if got := completionPercentage(5, 4); got != 100 {
		t.Fatalf("5/4: got=%v", got)
	}
}

func TestInCourseOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	got := inCourseOrder([]uuid.UUID{c, b, a, b}, []uuid.UUID{a, b})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("inCourseOrder: got=%v", got)
	}
}

func TestCompletedLessonsFollowCourseLessons(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, u.ID, "")
	l1 := testutil.SeedLesson(t, env.ctx, env.db, c.ID)
	l2 := testutil.SeedLesson(t, env.ctx, env.db, c.ID)
	l3 := testutil.SeedLesson(t, env.ctx, env.db, c.ID)
	for _, l := range []uuid.UUID{l1.ID, l2.ID, l3.ID} {
		if _, err := env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, l); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}
	if err := env.repos.Links.Remove(dbctx.New(env.ctx), joins.CourseLessons, c.ID, l3.ID); err != nil {
		t.Fatalf("remove lesson: %v", err)
	}

	got, err := env.progress.RecordLessonCompletion(env.ctx, u.ID, c.ID, l1.ID)
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if got.CompletionPercentage != 100 || len(got.CompletedLessonIDs) != 2 || got.CompletedLessonIDs[0] != l1.ID || got.CompletedLessonIDs[1] != l2.ID {
		t.Fatalf("after removal: %+v", got)
	}
	stored, err := env.progress.GetCourseProgress(env.ctx, u.ID, c.ID)
	if err != nil {
		t.Fatalf("GetCourseProgress: %v", err)
	}
	if len(stored.CompletedLessonIDs) != 2 {
		t.Fatalf("stored ids: %v", stored.CompletedLessonIDs)
	}
	up, err := env.progress.GetUserProgress(env.ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	if len(up.CoursesCompleted) != 1 || len(up.CoursesCompleted[0].CompletedLessonIDs) != 2 {
		t.Fatalf("user progress ids: %+v", up.CoursesCompleted)
	}
}

// staleAttempts under-reports the latest attempt for its first reads, the
// way a concurrent submit that commits between read and insert would.
type staleAttempts struct {
	repos.UserResponseRepo
	stale int
}

func (s *staleAttempts) MaxAttempt(dbc dbctx.Context, userID, exerciseID uuid.UUID) (int, error) {
	n, err := s.UserResponseRepo.MaxAttempt(dbc, userID, exerciseID)
	if err != nil || s.stale == 0 || n == 0 {
		return n, err
	}
	s.stale--
	return n - 1, nil
}

type countingCatalog struct {
	CatalogService
	invalidated int
}

func (c *countingCatalog) Invalidate(ctx context.Context) {
	c.invalidated++
	c.CatalogService.Invalidate(ctx)
}

func TestRecordAnswerRetriesAfterAttemptCollision(t *testing.T) {
	env := newEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	ex := testutil.SeedExercise(t, env.ctx, env.db, nil, []string{"A", "B"}, 1)
	if _, err := env.progress.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID, SelectedOptionIndex: 0}); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	stale := &staleAttempts{UserResponseRepo: env.repos.UserResponses, stale: 1}
	rs := env.repos
	rs.UserResponses = stale
	catalog := &countingCatalog{CatalogService: env.catalog}
	svc := NewProgressService(env.db, testutil.Logger(t), rs, catalog)

	res, err := svc.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID, SelectedOptionIndex: 1})
	if err != nil {
		t.Fatalf("answer after collision: %v", err)
	}
	if res.Attempt != 2 || !res.IsCorrect || stale.stale != 0 {
		t.Fatalf("answer after collision: res=%+v stale=%d", res, stale.stale)
	}
	assertAnswerCounts(t, env, u.ID, ex.ID, 2)
	if catalog.invalidated != 1 {
		t.Fatalf("catalog invalidations: got=%d want=1", catalog.invalidated)
	}

	stale.stale = maxAnswerAttempts
	if _, err := svc.RecordAnswer(env.ctx, AnswerInput{UserID: u.ID, ExerciseID: ex.ID}); !apierr.Is(err, apierr.ECDuplicated) {
		t.Fatalf("exhausted retries: got %v", err)
	}
	assertAnswerCounts(t, env, u.ID, ex.ID, 2)
	if catalog.invalidated != 1 {
		t.Fatalf("failed answer invalidated the catalog")
	}
}

func assertAnswerCounts(t *testing.T, env *testEnv, userID, exerciseID uuid.UUID, want int64) {
	t.Helper()
	dbc := dbctx.New(env.ctx)
	ex, err := env.repos.Exercises.GetByID(dbc, exerciseID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ex.AnswerCount != want {
		t.Fatalf("answerCount: got=%d want=%d", ex.AnswerCount, want)
	}
	p, err := env.repos.ExerciseProgress.Get(dbc, userID, exerciseID)
	if err != nil || p == nil {
		t.Fatalf("exercise progress: p=%v err=%v", p, err)
	}
	if p.CompletionCount != want {
		t.Fatalf("completionCount: got=%d want=%d", p.CompletionCount, want)
	}
	rows, err := env.repos.UserResponses.List(dbc, userID, exerciseID)
	if err != nil {
		t.Fatalf("List responses: %v", err)
	}
	if int64(len(rows)) != want {
		t.Fatalf("responses: got=%d want=%d", len(rows), want)
	}
}
