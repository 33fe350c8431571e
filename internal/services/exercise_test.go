package services

import (
	"testing"

	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestAddExerciseBoundsCorrectAnswer(t *testing.T) {
	env := newEnv(t)
	in := ExerciseInput{
		Title:         "sum",
		Question:      "1+1?",
		Options:       []string{"1", "2"},
		CorrectAnswer: intPtr(2),
		Explanation:   "arithmetic",
	}
	if _, err := env.exercise.AddExercise(env.ctx, in); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("index == len: got %v", err)
	}
	in.CorrectAnswer = intPtr(-1)
	if _, err := env.exercise.AddExercise(env.ctx, in); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("negative index: got %v", err)
	}
	in.CorrectAnswer = nil
	if _, err := env.exercise.AddExercise(env.ctx, in); !apierr.Is(err, apierr.ECMissing) {
		t.Fatalf("missing index: got %v", err)
	}
	in.CorrectAnswer = intPtr(1)
	ex, err := env.exercise.AddExercise(env.ctx, in)
	if err != nil {
		t.Fatalf("valid exercise: %v", err)
	}
	if ex.CorrectAnswer != 1 {
		t.Fatalf("correctAnswer: got=%d", ex.CorrectAnswer)
	}
}

func TestAddExerciseLinksOwners(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	l := testutil.SeedLesson(t, env.ctx, env.db, c.ID)

	ex, err := env.exercise.AddExercise(env.ctx, ExerciseInput{
		Title:         "q",
		Question:      "?",
		Options:       []string{"a", "b"},
		CorrectAnswer: intPtr(0),
		Explanation:   "e",
		FromLesson:    testutil.PtrUUID(l.ID),
		CourseID:      testutil.PtrUUID(c.ID),
	})
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	dbc := dbctx.New(env.ctx)
	if ok, err := env.repos.Links.Has(dbc, joins.LessonExercises, l.ID, ex.ID); err != nil || !ok {
		t.Fatalf("lesson link: %v %v", ok, err)
	}
	if ok, err := env.repos.Links.Has(dbc, joins.CourseExercises, c.ID, ex.ID); err != nil || !ok {
		t.Fatalf("course link: %v %v", ok, err)
	}

	if err := env.exercise.DeleteExercise(env.ctx, ex.ID); err != nil {
		t.Fatalf("DeleteExercise: %v", err)
	}
	if ok, _ := env.repos.Links.Has(dbc, joins.LessonExercises, l.ID, ex.ID); ok {
		t.Fatalf("lesson link survived delete")
	}
	if ok, _ := env.repos.Links.Has(dbc, joins.CourseExercises, c.ID, ex.ID); ok {
		t.Fatalf("course link survived delete")
	}
	if err := env.exercise.DeleteExercise(env.ctx, ex.ID); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestUpdateExerciseChecksMergedOptions(t *testing.T) {
	env := newEnv(t)
	ex := testutil.SeedExercise(t, env.ctx, env.db, nil, []string{"a", "b", "c"}, 2)

	if _, err := env.exercise.UpdateExercise(env.ctx, ex.ID, ExercisePatch{Options: []string{"x", "y"}}); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("shrinking options below stored answer: got %v", err)
	}
	got, err := env.exercise.UpdateExercise(env.ctx, ex.ID, ExercisePatch{Options: []string{"x", "y"}, CorrectAnswer: intPtr(1), Title: strPtr("renamed")})
	if err != nil {
		t.Fatalf("UpdateExercise: %v", err)
	}
	if got.CorrectAnswer != 1 || len(got.Options) != 2 || got.Title != "renamed" {
		t.Fatalf("updated exercise: %+v", got)
	}
}
