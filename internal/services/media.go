package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
	"github.com/yungbote/learnhub-backend/internal/platform/imaging"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// UploadFile is one file taken from a multipart request.
type UploadFile struct {
	Name string
	Data []byte
}

type MediaService interface {
	Enabled() bool
	Upload(ctx context.Context, category gcp.BucketCategory, prefix string, file UploadFile) (types.Media, error)
	UploadPoster(ctx context.Context, courseID uuid.UUID, raw []byte) (types.Media, error)
	UploadProfilePic(ctx context.Context, userID uuid.UUID, raw []byte) (types.Media, error)
	UploadInitialsAvatar(ctx context.Context, user *types.User) (types.Media, error)
	// Delete removes objects best-effort; failures are logged only.
	Delete(ctx context.Context, category gcp.BucketCategory, media ...types.Media)
}

type mediaService struct {
	log      *logger.Logger
	bucket   gcp.BucketService
	renderer *imaging.Renderer
}

// NewMediaService accepts a nil bucket, in which case uploads fail and
// deletes are no-ops.
func NewMediaService(log *logger.Logger, bucket gcp.BucketService, renderer *imaging.Renderer) MediaService {
	if renderer == nil {
		renderer = &imaging.Renderer{}
	}
	return &mediaService{
		log:      log.With("service", "MediaService"),
		bucket:   bucket,
		renderer: renderer,
	}
}

var errStorageUnavailable = errors.New("media storage unavailable")

func (ms *mediaService) Enabled() bool { return ms.bucket != nil }

func (ms *mediaService) put(ctx context.Context, category gcp.BucketCategory, key string, data []byte) (types.Media, error) {
	if ms.bucket == nil {
		return types.Media{}, apierr.Unknown(errStorageUnavailable)
	}
	if err := ms.bucket.UploadFile(dbctx.New(ctx), category, key, bytes.NewReader(data)); err != nil {
		return types.Media{}, fmt.Errorf("upload %s object: %w", category, err)
	}
	return types.Media{URL: ms.bucket.GetPublicURL(category, key), Key: key}, nil
}

// objectKey versions keys by time so a CDN never serves a replaced object.
func objectKey(prefix string, owner uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s/%d%s", prefix, owner.String(), time.Now().UnixNano(), ext)
}

func (ms *mediaService) Upload(ctx context.Context, category gcp.BucketCategory, prefix string, file UploadFile) (types.Media, error) {
	if len(file.Data) == 0 {
		return types.Media{}, apierr.Missing("file is empty")
	}
	ext := strings.ToLower(path.Ext(file.Name))
	return ms.put(ctx, category, objectKey(prefix, uuid.New(), ext), file.Data)
}

func (ms *mediaService) UploadPoster(ctx context.Context, courseID uuid.UUID, raw []byte) (types.Media, error) {
	buf, err := imaging.Thumbnail(raw, imaging.PosterSize)
	if err != nil {
		return types.Media{}, apierr.Invalid("poster is not a supported image")
	}
	return ms.put(ctx, gcp.BucketCategoryPoster, objectKey("course_poster", courseID, ".png"), buf.Bytes())
}

func (ms *mediaService) UploadProfilePic(ctx context.Context, userID uuid.UUID, raw []byte) (types.Media, error) {
	buf, err := imaging.Circle(raw, imaging.AvatarSize)
	if err != nil {
		return types.Media{}, apierr.Invalid("profile picture is not a supported image")
	}
	return ms.put(ctx, gcp.BucketCategoryAvatar, objectKey("user_avatar", userID, ".png"), buf.Bytes())
}

func (ms *mediaService) UploadInitialsAvatar(ctx context.Context, user *types.User) (types.Media, error) {
	if user == nil || user.ID == uuid.Nil {
		return types.Media{}, fmt.Errorf("user required")
	}
	buf, err := ms.renderer.Initials(user.Name, user.ID.String())
	if err != nil {
		return types.Media{}, fmt.Errorf("render initials avatar: %w", err)
	}
	return ms.put(ctx, gcp.BucketCategoryAvatar, objectKey("user_avatar", user.ID, ".png"), buf.Bytes())
}

func (ms *mediaService) Delete(ctx context.Context, category gcp.BucketCategory, media ...types.Media) {
	if ms.bucket == nil {
		return
	}
	for _, m := range media {
		key := strings.TrimSpace(m.Key)
		if key == "" {
			continue
		}
		if err := ms.bucket.DeleteFile(dbctx.New(ctx), category, key); err != nil {
			ms.log.Warn("failed to delete old object (ignored)", "category", string(category), "key", key, "error", err)
		}
	}
}
