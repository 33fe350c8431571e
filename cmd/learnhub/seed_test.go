package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/services"
)

func TestApplySeedIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	body := `
categories:
  - title: Programming
    tags: [go, go, sql]
  - title: Design
languages:
  - name: English
  - name: Tiếng Việt
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := loadSeedCatalog(path)
	if err != nil {
		t.Fatalf("loadSeedCatalog: %v", err)
	}
	if len(sc.Categories) != 2 || len(sc.Languages) != 2 || sc.dir != dir {
		t.Fatalf("parsed: %+v", sc)
	}

	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := repos.NewSet(db, log)
	media := services.NewMediaService(log, nil, nil)
	catalog := services.NewCatalogService(db, log, rs, media, rediscache.NewNop())
	categories := services.NewCategoryService(db, log, rs, catalog)
	languages := services.NewLanguageService(log, rs, media)
	ctx := context.Background()

	res, err := applySeed(ctx, log, categories, languages, sc)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if res.Created != 4 || res.Skipped != 0 {
		t.Fatalf("first apply: %+v", res)
	}
	res, err = applySeed(ctx, log, categories, languages, sc)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.Created != 0 || res.Skipped != 4 {
		t.Fatalf("second apply: %+v", res)
	}

	list, err := categories.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	for _, c := range list {
		if c.Title == "Programming" && len(c.Tags) != 2 {
			t.Fatalf("tags not deduped: %v", c.Tags)
		}
	}
}

func TestApplySeedMissingFlag(t *testing.T) {
	sc := seedCatalog{Languages: []seedLanguage{{Name: "French", Flag: "fr.png"}}, dir: t.TempDir()}
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := repos.NewSet(db, log)
	media := services.NewMediaService(log, nil, nil)
	catalog := services.NewCatalogService(db, log, rs, media, rediscache.NewNop())
	if _, err := applySeed(context.Background(), log, services.NewCategoryService(db, log, rs, catalog), services.NewLanguageService(log, rs, media), sc); err == nil {
		t.Fatalf("expected error for a missing flag file")
	}
}
