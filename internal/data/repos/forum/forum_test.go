package forum

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestPostListNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPostRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := testutil.SeedPost(t, ctx, tx, u.ID, base)
	mid := testutil.SeedPost(t, ctx, tx, u.ID, base.Add(time.Hour))
	latest := testutil.SeedPost(t, ctx, tx, u.ID, base.Add(2*time.Hour))

	page, total, err := repo.List(dbc, 0, 2)
	if err != nil || total != 3 || len(page) != 2 {
		t.Fatalf("List: total=%d len=%d err=%v", total, len(page), err)
	}
	if page[0].ID != latest.ID || page[1].ID != mid.ID {
		t.Fatalf("List: unexpected order %s, %s", page[0].ID, page[1].ID)
	}
	page, _, err = repo.List(dbc, 2, 2)
	if err != nil || len(page) != 1 || page[0].ID != old.ID {
		t.Fatalf("List page 2: len=%d err=%v", len(page), err)
	}
}

func TestCommentDeleteByPost(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	comments := NewCommentRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "")
	p := testutil.SeedPost(t, ctx, tx, u.ID, time.Now().UTC())
	other := testutil.SeedPost(t, ctx, tx, u.ID, time.Now().UTC())

	for _, postID := range []uuid.UUID{p.ID, p.ID, other.ID} {
		if err := comments.Create(dbc, &types.Comment{PostID: postID, AuthorID: u.ID, Content: "hi"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	removed, err := comments.DeleteByPost(dbc, p.ID)
	if err != nil || len(removed) != 2 {
		t.Fatalf("DeleteByPost: len=%d err=%v", len(removed), err)
	}
	left, err := comments.ListByPost(dbc, other.ID)
	if err != nil || len(left) != 1 {
		t.Fatalf("ListByPost(other): len=%d err=%v", len(left), err)
	}
}
