package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, c *types.Course) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	TitleTaken(dbc dbctx.Context, title string, exclude uuid.UUID) (bool, error)
	List(dbc dbctx.Context, offset, limit int) ([]*types.Course, int64, error)
	Matching(dbc dbctx.Context, q MatchQuery) ([]*types.Course, int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	IncrementEnrollment(dbc dbctx.Context, id uuid.UUID, delta int64) error
}

// MatchQuery selects courses in any of CategoryIDs or carrying any of Tags.
type MatchQuery struct {
	CategoryIDs []uuid.UUID
	Tags        []string
	// Exclude drops one course from the match. uuid.Nil excludes nothing.
	Exclude     uuid.UUID
	Offset      int
	Limit       int
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, c *types.Course) error {
	return dbc.DB(r.db).Create(c).Error
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) TitleTaken(dbc dbctx.Context, title string, exclude uuid.UUID) (bool, error) {
	q := dbc.DB(r.db).Model(&types.Course{}).Where("title = ?", strings.TrimSpace(title))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *courseRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.Course, int64, error) {
	t := dbc.DB(r.db)
	var total int64
	if err := t.Model(&types.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Course
	if err := t.Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

const matchCond = "(id IN (SELECT course_id FROM course_category WHERE category_id IN ?) OR id IN (SELECT course_id FROM course_tag WHERE tag IN ?))"

func (r *courseRepo) Matching(dbc dbctx.Context, q MatchQuery) ([]*types.Course, int64, error) {
	base := func() *gorm.DB {
		cats, tags := q.CategoryIDs, q.Tags
		if cats == nil {
			cats = []uuid.UUID{}
		}
		if tags == nil {
			tags = []string{}
		}
		t := dbc.DB(r.db).Model(&types.Course{}).Where(matchCond, cats, tags)
		if q.Exclude != uuid.Nil {
			t = t.Where("id <> ?", q.Exclude)
		}
		return t
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Course
	if err := base().
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "enrollment_count"}, Desc: true},
			{Column: clause.Column{Name: "id"}},
		}}).
		Offset(q.Offset).Limit(q.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&types.Course{}).Where("id = ?", id).Updates(updates).Error
}

func (r *courseRepo) IncrementEnrollment(dbc dbctx.Context, id uuid.UUID, delta int64) error {
	return dbc.DB(r.db).Model(&types.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", delta)).Error
}

type CourseTagRepo interface {
	Add(dbc dbctx.Context, courseID uuid.UUID, tags ...string) error
	ByCourses(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}

type courseTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseTagRepo(db *gorm.DB, baseLog *logger.Logger) CourseTagRepo {
	return &courseTagRepo{db: db, log: baseLog.With("repo", "CourseTagRepo")}
}

func (r *courseTagRepo) Add(dbc dbctx.Context, courseID uuid.UUID, tags ...string) error {
	rows := make([]types.CourseTag, 0, len(tags))
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		rows = append(rows, types.CourseTag{CourseID: courseID, Tag: tag})
	}
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *courseTagRepo) ByCourses(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []types.CourseTag
	if err := dbc.DB(r.db).Where("course_id IN ?", courseIDs).Order("tag ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row.Tag)
	}
	return out, nil
}
