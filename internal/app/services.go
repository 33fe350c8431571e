package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type Services struct {
	Media      services.MediaService
	Mail       services.MailService
	Auth       services.AuthService
	User       services.UserService
	Catalog    services.CatalogService
	Recommend  services.RecommendationService
	Lesson     services.LessonService
	Exercise   services.ExerciseService
	Progress   services.ProgressService
	Analytics  services.AnalyticsService
	Purchase   services.PurchaseService
	Categories services.CategoryService
	Languages  services.LanguageService
	Forum      services.ForumService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, rs repos.Set, clients Clients) Services {
	log.Info("Wiring services...")

	media := services.NewMediaService(log, clients.Bucket, clients.Renderer)
	mail := services.NewMailService(log, clients.Mailer)
	catalog := services.NewCatalogService(db, log, rs, media, clients.Cache)

	recommend := services.RecommendOptions{
		FirstCategoryOnly: cfg.RecommendFirstCategoryOnly,
		ExcludeSource:     cfg.RecommendExcludeSource,
	}
	return Services{
		Media: media,
		Mail:  mail,
		Auth: services.NewAuthService(db, log, rs, media, mail, services.AuthConfig{
			JWTSecretKey: cfg.JWTSecretKey,
			AccessTTL:    cfg.AccessTokenTTL,
			ResetLink:    cfg.ResetLink,
		}),
		User:       services.NewUserService(db, log, rs, media),
		Catalog:    catalog,
		Recommend:  services.NewRecommendationService(db, log, rs, clients.Cache, recommend),
		Lesson:     services.NewLessonService(db, log, rs, catalog),
		Exercise:   services.NewExerciseService(db, log, rs, catalog),
		Progress:   services.NewProgressService(db, log, rs, catalog),
		Analytics:  services.NewAnalyticsService(db, log, rs),
		Purchase:   services.NewPurchaseService(db, log, rs, catalog),
		Categories: services.NewCategoryService(db, log, rs, catalog),
		Languages:  services.NewLanguageService(log, rs, media),
		Forum:      services.NewForumService(db, log, rs, media),
	}
}
