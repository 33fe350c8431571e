package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
)

func TestCategoryAddAndEdit(t *testing.T) {
	env := newEnv(t)
	cats := NewCategoryService(env.db, testutil.Logger(t), env.repos, env.catalog)

	web, err := cats.AddCategory(env.ctx, " web ", []string{"html", "css", "html"})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if web.Title != "web" || len(web.Tags) != 2 {
		t.Fatalf("category: %+v", web)
	}
	if _, err := cats.AddCategory(env.ctx, "web", nil); !apierr.Is(err, apierr.ECDuplicated) {
		t.Fatalf("duplicate: got %v", err)
	}
	if _, err := cats.AddCategory(env.ctx, "  ", nil); !apierr.Is(err, apierr.ECMissing) {
		t.Fatalf("blank title: got %v", err)
	}
	if _, err := cats.AddCategory(env.ctx, "data", nil); err != nil {
		t.Fatalf("AddCategory data: %v", err)
	}

	if _, err := cats.EditCategory(env.ctx, web.ID, EditCategoryInput{Title: strPtr("data")}); !apierr.Is(err, apierr.ECDuplicated) {
		t.Fatalf("rename onto taken title: got %v", err)
	}
	edited, err := cats.EditCategory(env.ctx, web.ID, EditCategoryInput{Title: strPtr("frontend"), Tags: []string{"js"}})
	if err != nil {
		t.Fatalf("EditCategory: %v", err)
	}
	if edited.Title != "frontend" || len(edited.Tags) != 1 || edited.Tags[0] != "js" {
		t.Fatalf("edited: %+v", edited)
	}
	if _, err := cats.EditCategory(env.ctx, uuid.New(), EditCategoryInput{}); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown category: got %v", err)
	}

	all, err := cats.ListCategories(env.ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListCategories: %d %v", len(all), err)
	}
}

func TestLanguageAddStoresFlag(t *testing.T) {
	env := newEnv(t)
	langs := NewLanguageService(testutil.Logger(t), env.repos, env.media)

	l, err := langs.AddLanguage(env.ctx, "English", &UploadFile{Name: "en.svg", Data: []byte("<svg/>")})
	if err != nil {
		t.Fatalf("AddLanguage: %v", err)
	}
	if l.Flag.Key == "" || env.bucket.count() != 1 {
		t.Fatalf("flag: %+v objects=%d", l.Flag, env.bucket.count())
	}
	if _, err := langs.AddLanguage(env.ctx, "English", nil); !apierr.Is(err, apierr.ECDuplicated) {
		t.Fatalf("duplicate: got %v", err)
	}
	if _, err := langs.AddLanguage(env.ctx, "French", nil); err != nil {
		t.Fatalf("AddLanguage without flag: %v", err)
	}
	all, err := langs.ListLanguages(env.ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListLanguages: %d %v", len(all), err)
	}
}
