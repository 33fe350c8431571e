package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos/analytics"
	"github.com/yungbote/learnhub-backend/internal/data/repos/auth"
	"github.com/yungbote/learnhub-backend/internal/data/repos/catalog"
	"github.com/yungbote/learnhub-backend/internal/data/repos/commerce"
	"github.com/yungbote/learnhub-backend/internal/data/repos/forum"
	"github.com/yungbote/learnhub-backend/internal/data/repos/joins"
	"github.com/yungbote/learnhub-backend/internal/data/repos/learning"
	"github.com/yungbote/learnhub-backend/internal/data/repos/progress"
	"github.com/yungbote/learnhub-backend/internal/data/repos/user"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type FollowRepo = user.FollowRepo

type UserTokenRepo = auth.UserTokenRepo
type VerificationEmailRepo = auth.VerificationEmailRepo
type ResetPasswordRepo = auth.ResetPasswordRepo

type CourseRepo = catalog.CourseRepo
type CourseMatchQuery = catalog.MatchQuery
type CourseTagRepo = catalog.CourseTagRepo
type CategoryRepo = catalog.CategoryRepo
type LanguageRepo = catalog.LanguageRepo

type LinkRepo = joins.LinkRepo
type LinkTable = joins.Table

type LessonRepo = learning.LessonRepo
type LessonContentRepo = learning.LessonContentRepo
type ExerciseRepo = learning.ExerciseRepo
type UserResponseRepo = learning.UserResponseRepo

type CourseProgressRepo = progress.CourseProgressRepo
type CompletedLessonRepo = progress.CompletedLessonRepo
type ExerciseProgressRepo = progress.ExerciseProgressRepo

type UserAnalyticsRepo = analytics.UserAnalyticsRepo

type PurchasedItemRepo = commerce.PurchasedItemRepo
type VipPlanRepo = commerce.VipPlanRepo

type PostRepo = forum.PostRepo
type CommentRepo = forum.CommentRepo

// Set is every repo, built once at startup.
type Set struct {
	Users             UserRepo
	Follows           FollowRepo
	UserTokens        UserTokenRepo
	VerificationEmail VerificationEmailRepo
	ResetPassword     ResetPasswordRepo
	Courses           CourseRepo
	CourseTags        CourseTagRepo
	Categories        CategoryRepo
	Languages         LanguageRepo
	Links             LinkRepo
	Lessons           LessonRepo
	LessonContents    LessonContentRepo
	Exercises         ExerciseRepo
	UserResponses     UserResponseRepo
	CourseProgress    CourseProgressRepo
	CompletedLessons  CompletedLessonRepo
	ExerciseProgress  ExerciseProgressRepo
	Analytics         UserAnalyticsRepo
	Purchases         PurchasedItemRepo
	VipPlans          VipPlanRepo
	Posts             PostRepo
	Comments          CommentRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Users:             user.NewUserRepo(db, log),
		Follows:           user.NewFollowRepo(db, log),
		UserTokens:        auth.NewUserTokenRepo(db, log),
		VerificationEmail: auth.NewVerificationEmailRepo(db, log),
		ResetPassword:     auth.NewResetPasswordRepo(db, log),
		Courses:           catalog.NewCourseRepo(db, log),
		CourseTags:        catalog.NewCourseTagRepo(db, log),
		Categories:        catalog.NewCategoryRepo(db, log),
		Languages:         catalog.NewLanguageRepo(db, log),
		Links:             joins.NewLinkRepo(db, log),
		Lessons:           learning.NewLessonRepo(db, log),
		LessonContents:    learning.NewLessonContentRepo(db, log),
		Exercises:         learning.NewExerciseRepo(db, log),
		UserResponses:     learning.NewUserResponseRepo(db, log),
		CourseProgress:    progress.NewCourseProgressRepo(db, log),
		CompletedLessons:  progress.NewCompletedLessonRepo(db, log),
		ExerciseProgress:  progress.NewExerciseProgressRepo(db, log),
		Analytics:         analytics.NewUserAnalyticsRepo(db, log),
		Purchases:         commerce.NewPurchasedItemRepo(db, log),
		VipPlans:          commerce.NewVipPlanRepo(db, log),
		Posts:             forum.NewPostRepo(db, log),
		Comments:          forum.NewCommentRepo(db, log),
	}
}
