package app

import (
	"errors"
	"fmt"
	"strings"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
	"github.com/yungbote/learnhub-backend/internal/platform/imaging"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/sendgrid"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type Clients struct {
	Cache    rediscache.Cache
	Bucket   gcp.BucketService
	Renderer *imaging.Renderer
	Mailer   services.Mailer
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var cache rediscache.Cache
	if strings.TrimSpace(cfg.Cache.Addr) == "" {
		log.Info("REDIS_ADDR not set; catalog cache disabled")
		cache = rediscache.NewNop()
	} else {
		c, err := rediscache.NewCache(log, cfg.Cache)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	}

	// Gcs
	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		if !errors.Is(err, gcp.ErrStorageNotConfigured) {
			_ = cache.Close()
			return Clients{}, fmt.Errorf("init bucket client: %w", err)
		}
		log.Warn("no media bucket configured; uploads are disabled")
	}

	// Avatars
	renderer, err := imaging.NewRenderer(cfg.AvatarFont)
	if err != nil {
		log.Warn("avatar font unavailable; using the built-in face", "font", cfg.AvatarFont, "error", err)
		renderer, _ = imaging.NewRenderer("")
	}

	// SendGrid
	var mailer services.Mailer
	sg, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("SendGrid disabled; emails are logged only", "reason", err)
		mailer = services.NewLogMailer(log)
	} else {
		mailer = services.NewSendgridMailer(sg)
	}

	return Clients{
		Cache:    cache,
		Bucket:   bucket,
		Renderer: renderer,
		Mailer:   mailer,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
