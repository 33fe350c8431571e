package commerce

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestPurchasedItemInsertRejectsDuplicate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPurchasedItemRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "")
	courseID := uuid.New()

	ok, err := repo.Insert(dbc, u.ID, types.ItemTypeCourse, courseID)
	if err != nil || !ok {
		t.Fatalf("Insert: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Insert(dbc, u.ID, types.ItemTypeCourse, courseID)
	if err != nil || ok {
		t.Fatalf("Insert duplicate: ok=%v err=%v", ok, err)
	}
	// Same id under another tag is a different entry.
	ok, err = repo.Insert(dbc, u.ID, types.ItemTypeVip, courseID)
	if err != nil || !ok {
		t.Fatalf("Insert vip: ok=%v err=%v", ok, err)
	}

	courses, err := repo.ListByUser(dbc, u.ID, types.ItemTypeCourse)
	if err != nil || len(courses) != 1 {
		t.Fatalf("ListByUser(Course): len=%d err=%v", len(courses), err)
	}
	all, err := repo.ListByUser(dbc, u.ID, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListByUser(all): len=%d err=%v", len(all), err)
	}
}
