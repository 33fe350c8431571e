package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/learnhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnhub-backend/internal/http/middleware"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler      *httpH.AuthHandler
	EmailHandler     *httpH.EmailHandler
	UserHandler      *httpH.UserHandler
	CourseHandler    *httpH.CourseHandler
	VipHandler       *httpH.VipHandler
	ProgressHandler  *httpH.ProgressHandler
	LessonHandler    *httpH.LessonHandler
	ExerciseHandler  *httpH.ExerciseHandler
	AnalyticsHandler *httpH.AnalyticsHandler
	CategoryHandler  *httpH.CategoryHandler
	ForumHandler     *httpH.ForumHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIdentity())
	r.Use(httpMW.AccessLog(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	auth := func(h ...gin.HandlerFunc) []gin.HandlerFunc { return h }
	verified := func(h ...gin.HandlerFunc) []gin.HandlerFunc { return h }
	if cfg.AuthMiddleware != nil {
		auth = func(h ...gin.HandlerFunc) []gin.HandlerFunc {
			return append([]gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth()}, h...)
		}
		verified = func(h ...gin.HandlerFunc) []gin.HandlerFunc {
			return append([]gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireVerified()}, h...)
		}
	}

	// Auth
	if h := cfg.AuthHandler; h != nil {
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", auth(h.Logout)...)
	}

	// Email
	if h := cfg.EmailHandler; h != nil {
		api.POST("/email/send-email-verification", h.SendEmailVerification)
		api.POST("/email/verify-email", h.VerifyEmail)
		api.POST("/email/send-reset-password", h.SendResetPassword)
		api.POST("/email/update-password", h.UpdatePassword)
	}

	// Users
	if h := cfg.UserHandler; h != nil {
		api.GET("/users/profile/:userId", h.GetProfile)
		api.PATCH("/users/profile-pic", auth(h.UpdateProfilePic)...)
		api.GET("/users/:userId/progress", auth(h.GetProgress)...)
		api.POST("/users/:userId/follow", auth(h.Follow)...)
		api.DELETE("/users/:userId/follow", auth(h.Unfollow)...)
	}

	// Course
	if h := cfg.CourseHandler; h != nil {
		api.GET("/course", h.ListCourses)
		api.POST("/course", auth(h.CreateCourse)...)
		api.GET("/course/recommendation/:courseId", auth(h.Recommend)...)
		api.PATCH("/course/update-course-progress/:courseId", auth(h.UpdateCourseProgress)...)
		api.POST("/course/purchase", verified(h.PurchaseCourse)...)
		api.GET("/course/purchase/:userId", auth(h.ListPurchases)...)
		api.GET("/course/:courseId", h.GetCourse)
		api.PATCH("/course/:courseId", auth(h.UpdateCourse)...)
	}

	// VIP
	if h := cfg.VipHandler; h != nil {
		api.POST("/vip/purchase", verified(h.PurchaseVip)...)
		api.GET("/vip/plans", h.ListPlans)
	}

	// Progress
	if h := cfg.ProgressHandler; h != nil {
		api.GET("/progress/:courseId", auth(h.GetCourseProgress)...)
	}

	// Lesson
	if h := cfg.LessonHandler; h != nil {
		api.GET("/lesson/:courseId", h.GetAllLessons)
		api.GET("/lesson/:courseId/:lessonId", h.GetLesson)
		api.POST("/lesson", auth(h.AddLesson)...)
		api.POST("/lesson/at/:index", auth(h.AddLessonAtIndex)...)
		api.PATCH("/lesson/content/:lessonContentId", auth(h.UpdateLessonContent)...)
		api.PATCH("/lesson/:lessonId", auth(h.UpdateLesson)...)
		api.DELETE("/lesson/content/:lessonContentId", auth(h.DeleteLessonContent)...)
		api.DELETE("/lesson/:lessonId", auth(h.DeleteLesson)...)
	}

	// Exercise
	if h := cfg.ExerciseHandler; h != nil {
		api.POST("/exercise", auth(h.AddExercise)...)
		api.POST("/exercise/answer", auth(h.Answer)...)
		api.PATCH("/exercise/:exerciseId", auth(h.UpdateExercise)...)
		api.DELETE("/exercise/:exerciseId", auth(h.DeleteExercise)...)
	}

	// User analytics
	if h := cfg.AnalyticsHandler; h != nil {
		api.GET("/user-analytics/daily", auth(h.GetDaily)...)
		api.GET("/user-analytics/monthly", auth(h.GetMonthly)...)
		api.GET("/user-analytics/data", auth(h.GetRange)...)
		api.PATCH("/user-analytics/:userId", auth(h.Upsert)...)
		api.DELETE("/user-analytics/delete/:id", auth(h.Delete)...)
	}

	// Category and language
	if h := cfg.CategoryHandler; h != nil {
		api.GET("/category", h.ListCategories)
		api.POST("/category", auth(h.AddCategory)...)
		api.PATCH("/category/:categoryId", auth(h.EditCategory)...)
		api.GET("/language", h.ListLanguages)
		api.POST("/language", auth(h.AddLanguage)...)
	}

	// Forum
	if h := cfg.ForumHandler; h != nil {
		api.GET("/forum/posts", h.ListPosts)
		api.POST("/forum/posts", auth(h.CreatePost)...)
		api.GET("/forum/posts/:postId", h.GetPost)
		api.PATCH("/forum/posts/:postId", auth(h.UpdatePost)...)
		api.DELETE("/forum/posts/:postId", auth(h.DeletePost)...)
		api.POST("/forum/comments", auth(h.CreateComment)...)
		api.GET("/forum/comments/:postId", h.ListComments)
		api.PATCH("/forum/comments/:commentId", auth(h.UpdateComment)...)
		api.DELETE("/forum/comments/:commentId", auth(h.DeleteComment)...)
	}

	return r
}
