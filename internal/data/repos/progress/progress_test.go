package progress

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestCompletedLessonCountTracksCourseMembership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCompletedLessonRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "")
	c := testutil.SeedCourse(t, ctx, tx, u.ID, "")
	l1 := testutil.SeedLesson(t, ctx, tx, c.ID)
	l2 := testutil.SeedLesson(t, ctx, tx, c.ID)

	for _, id := range []uuid.UUID{l1.ID, l2.ID, l1.ID} {
		if _, err := repo.Add(dbc, u.ID, c.ID, id); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	n, err := repo.CountInCourse(dbc, u.ID, c.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountInCourse: n=%d err=%v", n, err)
	}

	if _, err := joins.RemoveRef(tx, joins.CourseLessons, l2.ID); err != nil {
		t.Fatalf("RemoveRef: %v", err)
	}
	n, err = repo.CountInCourse(dbc, u.ID, c.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountInCourse after removal: n=%d err=%v", n, err)
	}
}

func TestCourseProgressUpsertOverwritesPercentage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseProgressRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "")
	courseID := uuid.New()

	if _, err := repo.Upsert(dbc, u.ID, courseID, 50); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	row, err := repo.Upsert(dbc, u.ID, courseID, 100)
	if err != nil || row == nil || row.CompletionPercentage != 100 {
		t.Fatalf("Upsert again: row=%+v err=%v", row, err)
	}
	rows, err := repo.ListByUser(dbc, u.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: len=%d err=%v", len(rows), err)
	}
}

func TestExerciseProgressIncrementIsUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewExerciseProgressRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "")
	exID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := repo.Increment(dbc, u.ID, exID); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
	row, err := repo.Get(dbc, u.ID, exID)
	if err != nil || row == nil || row.CompletionCount != 3 {
		t.Fatalf("Get: row=%+v err=%v", row, err)
	}
}
