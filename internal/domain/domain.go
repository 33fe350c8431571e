package domain

import (
	"github.com/yungbote/learnhub-backend/internal/domain/analytics"
	"github.com/yungbote/learnhub-backend/internal/domain/auth"
	"github.com/yungbote/learnhub-backend/internal/domain/catalog"
	"github.com/yungbote/learnhub-backend/internal/domain/commerce"
	"github.com/yungbote/learnhub-backend/internal/domain/forum"
	"github.com/yungbote/learnhub-backend/internal/domain/learning"
	"github.com/yungbote/learnhub-backend/internal/domain/media"
	"github.com/yungbote/learnhub-backend/internal/domain/progress"
	"github.com/yungbote/learnhub-backend/internal/domain/user"
)

type Media = media.Media

type User = user.User
type UserFollow = user.UserFollow

type UserToken = auth.UserToken
type VerificationEmail = auth.VerificationEmail
type ResetPassword = auth.ResetPassword

const EmailTokenTTL = auth.EmailTokenTTL

type Course = catalog.Course
type CourseLevel = catalog.Level
type CourseResource = catalog.Resource
type CourseTag = catalog.CourseTag
type CourseLesson = catalog.CourseLesson
type CourseExercise = catalog.CourseExercise
type CourseCategory = catalog.CourseCategory
type CourseRecommendation = catalog.CourseRecommendation
type Category = catalog.Category
type Language = catalog.Language

const (
	LevelBeginner     = catalog.LevelBeginner
	LevelIntermediate = catalog.LevelIntermediate
	LevelAdvanced     = catalog.LevelAdvanced
)

type Lesson = learning.Lesson
type LessonContent = learning.LessonContent
type LessonContentLink = learning.LessonContentLink
type LessonExercise = learning.LessonExercise
type Exercise = learning.Exercise
type UserResponse = learning.UserResponse

type UserCourseProgress = progress.UserCourseProgress
type UserCompletedLesson = progress.UserCompletedLesson
type UserExerciseProgress = progress.UserExerciseProgress

type UserAnalytics = analytics.UserAnalytics
type AnalyticsCounters = analytics.Counters

type PurchasedItem = commerce.PurchasedItem
type PurchasedItemType = commerce.ItemType
type VipPlan = commerce.VipPlan

const (
	ItemTypeCourse = commerce.ItemTypeCourse
	ItemTypeVip    = commerce.ItemTypeVip
)

type Post = forum.Post
type Comment = forum.Comment

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&UserFollow{},
		&UserToken{},
		&VerificationEmail{},
		&ResetPassword{},

		&Category{},
		&Language{},
		&Course{},
		&CourseTag{},
		&CourseLesson{},
		&CourseExercise{},
		&CourseCategory{},
		&CourseRecommendation{},

		&Lesson{},
		&LessonContent{},
		&LessonContentLink{},
		&LessonExercise{},
		&Exercise{},
		&UserResponse{},

		&UserCourseProgress{},
		&UserCompletedLesson{},
		&UserExerciseProgress{},

		&UserAnalytics{},

		&VipPlan{},
		&PurchasedItem{},

		&Post{},
		&Comment{},
	}
}
