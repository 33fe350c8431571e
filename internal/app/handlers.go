package app

import (
	httpH "github.com/yungbote/learnhub-backend/internal/http/handlers"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Email     *httpH.EmailHandler
	User      *httpH.UserHandler
	Course    *httpH.CourseHandler
	Vip       *httpH.VipHandler
	Progress  *httpH.ProgressHandler
	Lesson    *httpH.LessonHandler
	Exercise  *httpH.ExerciseHandler
	Analytics *httpH.AnalyticsHandler
	Category  *httpH.CategoryHandler
	Forum     *httpH.ForumHandler
}

func wireHandlers(log *logger.Logger, s Services, ping httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(ping),
		Auth:      httpH.NewAuthHandler(log, s.Auth),
		Email:     httpH.NewEmailHandler(log, s.Auth),
		User:      httpH.NewUserHandler(log, s.User, s.Progress),
		Course:    httpH.NewCourseHandler(log, s.Catalog, s.Recommend, s.Progress, s.Purchase),
		Vip:       httpH.NewVipHandler(log, s.Purchase),
		Progress:  httpH.NewProgressHandler(log, s.Progress),
		Lesson:    httpH.NewLessonHandler(log, s.Lesson),
		Exercise:  httpH.NewExerciseHandler(log, s.Exercise, s.Progress),
		Analytics: httpH.NewAnalyticsHandler(log, s.Analytics),
		Category:  httpH.NewCategoryHandler(log, s.Categories, s.Languages),
		Forum:     httpH.NewForumHandler(log, s.Forum),
	}
}
