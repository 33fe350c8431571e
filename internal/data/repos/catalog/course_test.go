package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestCourseRepoListPaginates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRepo(db, testutil.Logger(t))
	author := testutil.SeedUser(t, ctx, tx, "")
	for i := 0; i < 5; i++ {
		testutil.SeedCourse(t, ctx, tx, author.ID, "")
	}

	page, total, err := repo.List(dbc, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("List: total=%d len=%d", total, len(page))
	}
}

func TestCourseRepoMatchingUnionsCategoryAndTags(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRepo(db, testutil.Logger(t))
	tags := NewCourseTagRepo(db, testutil.Logger(t))
	author := testutil.SeedUser(t, ctx, tx, "")
	cat := testutil.SeedCategory(t, ctx, tx, "", "go")

	source := testutil.SeedCourse(t, ctx, tx, author.ID, "")
	byCategory := testutil.SeedCourse(t, ctx, tx, author.ID, "")
	byTag := testutil.SeedCourse(t, ctx, tx, author.ID, "")
	both := testutil.SeedCourse(t, ctx, tx, author.ID, "")
	testutil.SeedCourse(t, ctx, tx, author.ID, "")

	for _, id := range []uuid.UUID{source.ID, byCategory.ID, both.ID} {
		if err := joins.Append(tx, joins.CourseCategories, id, []uuid.UUID{cat.ID}); err != nil {
			t.Fatalf("link category: %v", err)
		}
	}
	if err := tags.Add(dbc, byTag.ID, "go", "go"); err != nil {
		t.Fatalf("Add tags: %v", err)
	}
	if err := tags.Add(dbc, both.ID, "go"); err != nil {
		t.Fatalf("Add tags: %v", err)
	}
	if err := repo.IncrementEnrollment(dbc, byTag.ID, 3); err != nil {
		t.Fatalf("IncrementEnrollment: %v", err)
	}

	rows, total, err := repo.Matching(dbc, MatchQuery{
		CategoryIDs: []uuid.UUID{cat.ID},
		Tags:        cat.Tags,
		Exclude:     source.ID,
		Limit:       10,
	})
	if err != nil {
		t.Fatalf("Matching: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("Matching: total=%d len=%d", total, len(rows))
	}
	if rows[0].ID != byTag.ID || rows[0].EnrollmentCount != 3 {
		t.Fatalf("Matching: expected most enrolled first, got %s (%d)", rows[0].ID, rows[0].EnrollmentCount)
	}
	for _, r := range rows {
		if r.ID == source.ID {
			t.Fatalf("Matching: source course must be excluded")
		}
	}

	_, total, err = repo.Matching(dbc, MatchQuery{CategoryIDs: []uuid.UUID{cat.ID}, Tags: cat.Tags, Limit: 10})
	if err != nil {
		t.Fatalf("Matching without exclusion: %v", err)
	}
	if total != 4 {
		t.Fatalf("Matching without exclusion: total=%d want=4", total)
	}
}

func TestCourseRepoTitleTaken(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRepo(db, testutil.Logger(t))
	author := testutil.SeedUser(t, ctx, tx, "")
	c := testutil.SeedCourse(t, ctx, tx, author.ID, "Intro to Go")

	taken, err := repo.TitleTaken(dbc, "Intro to Go", uuid.Nil)
	if err != nil || !taken {
		t.Fatalf("TitleTaken: taken=%v err=%v", taken, err)
	}
	taken, err = repo.TitleTaken(dbc, "Intro to Go", c.ID)
	if err != nil || taken {
		t.Fatalf("TitleTaken excluding self: taken=%v err=%v", taken, err)
	}
}
