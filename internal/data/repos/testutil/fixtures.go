package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
)

func unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.User {
	tb.Helper()
	if name == "" {
		name = unique("user")
	}
	u := &types.User{
		Name:     name,
		Email:    name + "@example.test",
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, title string) *types.Course {
	tb.Helper()
	if title == "" {
		title = unique("course")
	}
	c := &types.Course{
		Title:       title,
		Description: "description",
		AuthorID:    authorID,
		Price:       10,
		Level:       types.LevelBeginner,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, tags ...string) *types.Category {
	tb.Helper()
	if title == "" {
		title = unique("category")
	}
	c := &types.Category{Title: title, Tags: tags}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedLanguage(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Language {
	tb.Helper()
	if name == "" {
		name = unique("language")
	}
	l := &types.Language{Name: name}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed language: %v", err)
	}
	return l
}

// SeedLesson creates a lesson with one content row per body and appends it to
// courseID when courseID is set.
func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, bodies ...string) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{Title: unique("lesson")}
	t := tx.WithContext(ctx)
	if err := t.Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	contentIDs := make([]uuid.UUID, 0, len(bodies))
	for _, b := range bodies {
		c := &types.LessonContent{Body: b}
		if err := t.Create(c).Error; err != nil {
			tb.Fatalf("seed lesson content: %v", err)
		}
		contentIDs = append(contentIDs, c.ID)
	}
	if err := joins.Append(t, joins.LessonContents, l.ID, contentIDs); err != nil {
		tb.Fatalf("seed lesson content links: %v", err)
	}
	if courseID != uuid.Nil {
		if err := joins.Append(t, joins.CourseLessons, courseID, []uuid.UUID{l.ID}); err != nil {
			tb.Fatalf("seed course lesson link: %v", err)
		}
	}
	return l
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, fromLesson *uuid.UUID, options []string, correct int) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{
		Title:         unique("exercise"),
		Question:      "question?",
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   "because",
		FromLessonID:  fromLesson,
	}
	t := tx.WithContext(ctx)
	if err := t.Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	if fromLesson != nil {
		if err := joins.Append(t, joins.LessonExercises, *fromLesson, []uuid.UUID{e.ID}); err != nil {
			tb.Fatalf("seed lesson exercise link: %v", err)
		}
	}
	return e
}

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, createdAt time.Time) *types.Post {
	tb.Helper()
	p := &types.Post{
		AuthorID:  authorID,
		Title:     unique("post"),
		Content:   "content",
		CreatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
