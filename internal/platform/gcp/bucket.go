package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// BucketCategory names the kind of media an object belongs to. Each category
// may live in its own bucket.
type BucketCategory string

const (
	BucketCategoryAvatar BucketCategory = "avatar"
	BucketCategoryPoster BucketCategory = "poster"
	BucketCategoryFlag   BucketCategory = "flag"
	BucketCategoryForum  BucketCategory = "forum"
)

var AllBucketCategories = []BucketCategory{
	BucketCategoryAvatar,
	BucketCategoryPoster,
	BucketCategoryFlag,
	BucketCategoryForum,
}

const (
	writeTimeout  = 2 * time.Minute
	deleteTimeout = 30 * time.Second
)

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error
	// DeleteFile treats a missing object as already deleted.
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	GetPublicURL(category BucketCategory, key string) string
}

type bucketService struct {
	log    *logger.Logger
	client *storage.Client
	cfg    ObjectStorageConfig
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	return NewBucketServiceWithConfig(log, cfg)
}

func NewBucketServiceWithConfig(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	client, err := openStorageClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage client: %w", err)
	}
	bs := &bucketService{log: log.With("service", "BucketService"), client: client, cfg: cfg}
	bs.log.Info("Media storage ready",
		"mode", cfg.Mode,
		"emulator_host", cfg.EmulatorHost,
		"buckets", cfg.describeBuckets(),
	)
	return bs, nil
}

func openStorageClient(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		// The storage client only discovers the emulator through this variable.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(credentialsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (cfg ObjectStorageConfig) describeBuckets() string {
	parts := make([]string, 0, len(cfg.Buckets))
	for cat, b := range cfg.Buckets {
		parts = append(parts, string(cat)+"="+b.Name)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (bs *bucketService) object(category BucketCategory, key string) (*storage.ObjectHandle, error) {
	b, ok := bs.cfg.Buckets[category]
	if !ok || b.Name == "" {
		return nil, fmt.Errorf("no bucket configured for %q media", category)
	}
	key = cleanKey(key)
	if key == "" {
		return nil, fmt.Errorf("empty object key")
	}
	return bs.client.Bucket(b.Name).Object(key), nil
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	obj, err := bs.object(category, key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, writeTimeout)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = ContentTypeForKey(key)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s/%s: %w", obj.BucketName(), obj.ObjectName(), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s/%s: %w", obj.BucketName(), obj.ObjectName(), err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	obj, err := bs.object(category, key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, deleteTimeout)
	defer cancel()
	err = obj.Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s/%s: %w", obj.BucketName(), obj.ObjectName(), err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(category BucketCategory, key string) string {
	b, ok := bs.cfg.Buckets[category]
	if !ok || b.Name == "" {
		return key
	}
	return bs.cfg.publicURL(b, key)
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}

// publicURL prefers the bucket's CDN, then the emulator media endpoint, then
// the configured public base, then storage.googleapis.com.
func (cfg ObjectStorageConfig) publicURL(b BucketConfig, key string) string {
	key = cleanKey(key)
	switch {
	case b.CDNDomain != "":
		return "https://" + b.CDNDomain + "/" + key
	case cfg.IsEmulatorMode():
		base := cfg.PublicBaseURL
		if base == "" {
			base = cfg.EmulatorHost
		}
		return base + "/storage/v1/b/" + url.PathEscape(b.Name) + "/o/" + url.PathEscape(key) + "?alt=media"
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL + "/" + b.Name + "/" + key
	default:
		return "https://storage.googleapis.com/" + b.Name + "/" + key
	}
}

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// ContentTypeForKey guesses a content type from the key's extension, ignoring
// any query string. Unknown extensions yield "".
func ContentTypeForKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if i := strings.IndexByte(k, '?'); i >= 0 {
		k = k[:i]
	}
	return contentTypes[path.Ext(k)]
}
