package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestGetAllLessonsKeepsOrderAndNullSlots(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	l1 := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "a", "b", "c")
	l2 := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "d")

	dbc := dbctx.New(env.ctx)
	contentIDs, err := env.repos.Links.Refs(dbc, joins.LessonContents, l1.ID)
	if err != nil {
		t.Fatalf("Refs: %v", err)
	}
	// Drop the middle row but keep its link.
	if _, err := env.repos.LessonContents.Delete(dbc, contentIDs[1]); err != nil {
		t.Fatalf("delete content row: %v", err)
	}

	views, err := env.lessons.GetAllLessons(env.ctx, c.ID)
	if err != nil {
		t.Fatalf("GetAllLessons: %v", err)
	}
	if len(views) != 2 || views[0].ID != l1.ID || views[1].ID != l2.ID {
		t.Fatalf("lesson order: %+v", views)
	}
	slots := views[0].LessonContent
	if len(slots) != 3 {
		t.Fatalf("slots: got=%d want=3", len(slots))
	}
	if slots[0] == nil || slots[0].Body != "a" || slots[1] != nil || slots[2] == nil || slots[2].Body != "c" {
		t.Fatalf("slot contents: %+v", slots)
	}
}

func TestGetAllLessonsUnknownVersusEmpty(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")

	views, err := env.lessons.GetAllLessons(env.ctx, c.ID)
	if err != nil {
		t.Fatalf("empty course: %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Fatalf("empty course: got=%v", views)
	}
	if _, err := env.lessons.GetAllLessons(env.ctx, uuid.New()); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown course: got %v", err)
	}
}

func TestGetLessonRequiresMembership(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	in := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "x")
	out := testutil.SeedLesson(t, env.ctx, env.db, uuid.Nil, "y")

	got, err := env.lessons.GetLesson(env.ctx, c.ID, in.ID)
	if err != nil {
		t.Fatalf("GetLesson: %v", err)
	}
	if got.ID != in.ID || len(got.LessonContent) != 1 {
		t.Fatalf("GetLesson: %+v", got)
	}
	if _, err := env.lessons.GetLesson(env.ctx, c.ID, out.ID); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("foreign lesson: got %v", err)
	}
}

func TestAddLessonAtIndexShifts(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	first, err := env.lessons.AddLesson(env.ctx, AddLessonInput{CourseID: c.ID, Title: "first", Contents: []string{"one"}})
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	second, err := env.lessons.AddLesson(env.ctx, AddLessonInput{CourseID: c.ID, Title: "second"})
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	mid, err := env.lessons.AddLessonAtIndex(env.ctx, 1, AddLessonInput{CourseID: c.ID, Title: "middle", Contents: []string{"m1", "m2"}})
	if err != nil {
		t.Fatalf("AddLessonAtIndex: %v", err)
	}
	if len(mid.LessonContent) != 2 || mid.LessonContent[0].Body != "m1" {
		t.Fatalf("inserted lesson content: %+v", mid.LessonContent)
	}

	refs, err := env.repos.Links.Refs(dbctx.New(env.ctx), joins.CourseLessons, c.ID)
	if err != nil {
		t.Fatalf("Refs: %v", err)
	}
	if len(refs) != 3 || refs[0] != first.ID || refs[1] != mid.ID || refs[2] != second.ID {
		t.Fatalf("course order: %v", refs)
	}
	if _, err := env.lessons.AddLessonAtIndex(env.ctx, 9, AddLessonInput{CourseID: c.ID, Title: "far"}); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("index past end: got %v", err)
	}
}

func TestUpdateLessonCreatesOrEditsContent(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	l := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "old")

	added, err := env.lessons.UpdateLesson(env.ctx, l.ID, UpdateLessonInput{Title: "renamed", Content: "new"})
	if err != nil {
		t.Fatalf("UpdateLesson add: %v", err)
	}
	if added.Title != "renamed" || len(added.LessonContent) != 2 || added.LessonContent[1].Body != "new" {
		t.Fatalf("after add: %+v", added)
	}

	id := added.LessonContent[0].ID
	edited, err := env.lessons.UpdateLesson(env.ctx, l.ID, UpdateLessonInput{Content: "fixed", ContentID: &id})
	if err != nil {
		t.Fatalf("UpdateLesson edit: %v", err)
	}
	if len(edited.LessonContent) != 2 || edited.LessonContent[0].Body != "fixed" {
		t.Fatalf("after edit: %+v", edited.LessonContent)
	}
}

func TestDeleteLessonCascades(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	l := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "one", "two")
	keep := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "stay")
	ex := testutil.SeedExercise(t, env.ctx, env.db, testutil.PtrUUID(l.ID), []string{"A", "B"}, 0)

	dbc := dbctx.New(env.ctx)
	contentIDs, err := env.repos.Links.Refs(dbc, joins.LessonContents, l.ID)
	if err != nil || len(contentIDs) != 2 {
		t.Fatalf("content refs: %v %v", contentIDs, err)
	}

	if err := env.lessons.DeleteLesson(env.ctx, l.ID); err != nil {
		t.Fatalf("DeleteLesson: %v", err)
	}

	for _, id := range contentIDs {
		row, err := env.repos.LessonContents.GetByID(dbc, id)
		if err != nil {
			t.Fatalf("GetByID content: %v", err)
		}
		if row != nil {
			t.Fatalf("content %s survived", id)
		}
	}
	if row, err := env.repos.Exercises.GetByID(dbc, ex.ID); err != nil || row != nil {
		t.Fatalf("exercise survived: %v %v", row, err)
	}
	if row, err := env.repos.Lessons.GetByID(dbc, l.ID); err != nil || row != nil {
		t.Fatalf("lesson survived: %v %v", row, err)
	}
	refs, err := env.repos.Links.Refs(dbc, joins.CourseLessons, c.ID)
	if err != nil {
		t.Fatalf("Refs: %v", err)
	}
	if len(refs) != 1 || refs[0] != keep.ID {
		t.Fatalf("course lessons: %v", refs)
	}
	if err := env.lessons.DeleteLesson(env.ctx, l.ID); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestDeleteLessonContentUnlinks(t *testing.T) {
	env := newEnv(t)
	author := testutil.SeedUser(t, env.ctx, env.db, "")
	c := testutil.SeedCourse(t, env.ctx, env.db, author.ID, "")
	l := testutil.SeedLesson(t, env.ctx, env.db, c.ID, "one", "two")
	refs, err := env.repos.Links.Refs(dbctx.New(env.ctx), joins.LessonContents, l.ID)
	if err != nil {
		t.Fatalf("Refs: %v", err)
	}

	if err := env.lessons.DeleteLessonContent(env.ctx, refs[0]); err != nil {
		t.Fatalf("DeleteLessonContent: %v", err)
	}
	got, err := env.lessons.GetLesson(env.ctx, c.ID, l.ID)
	if err != nil {
		t.Fatalf("GetLesson: %v", err)
	}
	if len(got.LessonContent) != 1 || got.LessonContent[0].Body != "two" {
		t.Fatalf("remaining content: %+v", got.LessonContent)
	}
	if err := env.lessons.DeleteLessonContent(env.ctx, refs[0]); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}
