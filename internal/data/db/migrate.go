package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates ordering indexes the struct tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_course_lesson_position ON course_lesson(course_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_lesson_content_link_position ON lesson_content_link(lesson_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_comment_post_created ON comment(post_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_analytics_user_date ON user_analytics(user_id, date)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
