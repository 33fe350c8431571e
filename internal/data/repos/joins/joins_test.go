package joins_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func equalIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAppendIsSetAddAndKeepsOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := joins.NewLinkRepo(db, testutil.Logger(t))

	course := uuid.New()
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()

	if err := repo.Append(dbc, joins.CourseLessons, course, l1, l2); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(dbc, joins.CourseLessons, course, l2, l3, l1); err != nil {
		t.Fatalf("Append again: %v", err)
	}
	got, err := repo.Refs(dbc, joins.CourseLessons, course)
	if err != nil {
		t.Fatalf("Refs: %v", err)
	}
	if !equalIDs(got, []uuid.UUID{l1, l2, l3}) {
		t.Fatalf("Refs: got=%v", got)
	}
}

func TestInsertAtShiftsLaterRefs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := joins.NewLinkRepo(db, testutil.Logger(t))

	course := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	if err := repo.Append(dbc, joins.CourseLessons, course, a, b); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.InsertAt(dbc, joins.CourseLessons, course, c, 1); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	got, _ := repo.Refs(dbc, joins.CourseLessons, course)
	if !equalIDs(got, []uuid.UUID{a, c, b}) {
		t.Fatalf("Refs after InsertAt: got=%v", got)
	}
	if err := repo.InsertAt(dbc, joins.CourseLessons, course, uuid.New(), 9); err == nil {
		t.Fatalf("InsertAt out of range: expected error")
	}
}

func TestRemoveRefPullsFromEveryOwner(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := joins.NewLinkRepo(db, testutil.Logger(t))

	c1, c2 := uuid.New(), uuid.New()
	ex := uuid.New()
	other := uuid.New()
	_ = repo.Append(dbc, joins.CourseExercises, c1, ex, other)
	_ = repo.Append(dbc, joins.CourseExercises, c2, ex)

	n, err := repo.RemoveRef(dbc, joins.CourseExercises, ex)
	if err != nil || n != 2 {
		t.Fatalf("RemoveRef: n=%d err=%v", n, err)
	}
	byOwner, err := repo.RefsByOwners(dbc, joins.CourseExercises, []uuid.UUID{c1, c2})
	if err != nil {
		t.Fatalf("RefsByOwners: %v", err)
	}
	if !equalIDs(byOwner[c1], []uuid.UUID{other}) || len(byOwner[c2]) != 0 {
		t.Fatalf("RefsByOwners: got=%v", byOwner)
	}
}
