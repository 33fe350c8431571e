package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		EmailHandler:     handlers.Email,
		UserHandler:      handlers.User,
		CourseHandler:    handlers.Course,
		VipHandler:       handlers.Vip,
		ProgressHandler:  handlers.Progress,
		LessonHandler:    handlers.Lesson,
		ExerciseHandler:  handlers.Exercise,
		AnalyticsHandler: handlers.Analytics,
		CategoryHandler:  handlers.Category,
		ForumHandler:     handlers.Forum,
	})
}
