package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
)

func TestFollowIsIdempotent(t *testing.T) {
	env := newEnv(t)
	users := NewUserService(env.db, testutil.Logger(t), env.repos, env.media)
	a := testutil.SeedUser(t, env.ctx, env.db, "")
	b := testutil.SeedUser(t, env.ctx, env.db, "")

	for i := 0; i < 2; i++ {
		if err := users.Follow(env.ctx, a.ID, b.ID); err != nil {
			t.Fatalf("Follow #%d: %v", i, err)
		}
	}
	pb, err := users.GetProfile(env.ctx, b.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if pb.Followers != 1 || pb.Followings != 0 {
		t.Fatalf("b counts: followers=%d followings=%d", pb.Followers, pb.Followings)
	}
	pa, err := users.GetProfile(env.ctx, a.ID)
	if err != nil || pa.Followings != 1 {
		t.Fatalf("a counts: %+v %v", pa, err)
	}

	for i := 0; i < 2; i++ {
		if err := users.Unfollow(env.ctx, a.ID, b.ID); err != nil {
			t.Fatalf("Unfollow #%d: %v", i, err)
		}
	}
	pb, err = users.GetProfile(env.ctx, b.ID)
	if err != nil || pb.Followers != 0 {
		t.Fatalf("after unfollow: %+v %v", pb, err)
	}
}

func TestFollowRejectsBadPairs(t *testing.T) {
	env := newEnv(t)
	users := NewUserService(env.db, testutil.Logger(t), env.repos, env.media)
	a := testutil.SeedUser(t, env.ctx, env.db, "")

	if err := users.Follow(env.ctx, a.ID, a.ID); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("self follow: got %v", err)
	}
	if err := users.Follow(env.ctx, a.ID, uuid.New()); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown followee: got %v", err)
	}
	if _, err := users.GetProfile(env.ctx, uuid.New()); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("unknown profile: got %v", err)
	}
}

func TestUpdateProfilePicReplacesOld(t *testing.T) {
	env := newEnv(t)
	users := NewUserService(env.db, testutil.Logger(t), env.repos, env.media)
	u := testutil.SeedUser(t, env.ctx, env.db, "")

	first, err := users.UpdateProfilePic(env.ctx, u.ID, pngBytes(t, 64, 48))
	if err != nil {
		t.Fatalf("UpdateProfilePic: %v", err)
	}
	second, err := users.UpdateProfilePic(env.ctx, u.ID, pngBytes(t, 32, 32))
	if err != nil {
		t.Fatalf("second UpdateProfilePic: %v", err)
	}
	if first.Key == second.Key || env.bucket.count() != 1 {
		t.Fatalf("old avatar kept: objects=%d", env.bucket.count())
	}
	p, err := users.GetProfile(env.ctx, u.ID)
	if err != nil || p.ProfilePic.Key != second.Key {
		t.Fatalf("stored pic: %+v %v", p, err)
	}
	if _, err := users.UpdateProfilePic(env.ctx, u.ID, []byte("not an image")); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("bad image: got %v", err)
	}
}
