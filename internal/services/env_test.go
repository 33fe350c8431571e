package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"gorm.io/gorm"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failOn  string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) path(category gcp.BucketCategory, key string) string {
	return string(category) + "/" + key
}

func (b *fakeBucket) UploadFile(dbc dbctx.Context, category gcp.BucketCategory, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failOn != "" && b.failOn == string(data) {
		return fmt.Errorf("upload refused")
	}
	b.objects[b.path(category, key)] = data
	return nil
}

func (b *fakeBucket) DeleteFile(dbc dbctx.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, b.path(category, key))
	b.deleted = append(b.deleted, b.path(category, key))
	return nil
}

func (b *fakeBucket) GetPublicURL(category gcp.BucketCategory, key string) string {
	return "https://cdn.example.test/" + b.path(category, key)
}

func (b *fakeBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type sentMail struct {
	to, subject, html string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, name, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	ctx    context.Context
	db     *gorm.DB
	repos  repos.Set
	bucket *fakeBucket
	mailer *fakeMailer

	media    MediaService
	catalog  CatalogService
	lessons  LessonService
	exercise ExerciseService
	progress ProgressService
	purchase PurchaseService
}

// newEnv wires services over a private database. Services open their own
// transactions, so the database is not wrapped in testutil.Tx.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := repos.NewSet(db, log)
	bucket := newFakeBucket()
	media := NewMediaService(log, bucket, nil)
	catalog := NewCatalogService(db, log, rs, media, rediscache.NewNop())
	return &testEnv{
		ctx:      context.Background(),
		db:       db,
		repos:    rs,
		bucket:   bucket,
		mailer:   &fakeMailer{},
		media:    media,
		catalog:  catalog,
		lessons:  NewLessonService(db, log, rs, catalog),
		exercise: NewExerciseService(db, log, rs, catalog),
		progress: NewProgressService(db, log, rs, catalog),
		purchase: NewPurchaseService(db, log, rs, catalog),
	}
}
