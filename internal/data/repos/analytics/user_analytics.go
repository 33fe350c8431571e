package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	domainanalytics "github.com/yungbote/learnhub-backend/internal/domain/analytics"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type UserAnalyticsRepo interface {
	// Upsert adds deltas to the (user, day) row in one statement, creating it
	// on first write. created reports whether the row did not exist before.
	Upsert(dbc dbctx.Context, userID uuid.UUID, day time.Time, deltas types.AnalyticsCounters) (row *types.UserAnalytics, created bool, err error)
	GetByDay(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.UserAnalytics, error)
	ListRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.UserAnalytics, error)
	SumMonth(dbc dbctx.Context, userID uuid.UUID, year, month int) (types.AnalyticsCounters, error)
	// Delete removes the record only when userID owns it.
	Delete(dbc dbctx.Context, userID, id uuid.UUID) (bool, error)
}

type userAnalyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) UserAnalyticsRepo {
	return &userAnalyticsRepo{db: db, log: baseLog.With("repo", "UserAnalyticsRepo")}
}

func accumulate() map[string]any {
	out := make(map[string]any, len(domainanalytics.CounterColumns)+1)
	for _, col := range domainanalytics.CounterColumns {
		out[col] = gorm.Expr(fmt.Sprintf("user_analytics.%s + excluded.%s", col, col))
	}
	return out
}

func (r *userAnalyticsRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, day time.Time, deltas types.AnalyticsCounters) (*types.UserAnalytics, bool, error) {
	day = domainanalytics.TruncateDay(day)
	existing, err := r.GetByDay(dbc, userID, day)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	row := &types.UserAnalytics{
		UserID:    userID,
		Date:      day,
		Month:     int(day.Month()),
		Year:      day.Year(),
		Counters:  deltas,
		CreatedAt: now,
		UpdatedAt: now,
	}
	set := accumulate()
	set["updated_at"] = now
	if err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(set),
	}).Create(row).Error; err != nil {
		return nil, false, err
	}

	saved, err := r.GetByDay(dbc, userID, day)
	if err != nil {
		return nil, false, err
	}
	return saved, existing == nil, nil
}

func (r *userAnalyticsRepo) GetByDay(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.UserAnalytics, error) {
	var row types.UserAnalytics
	if err := dbc.DB(r.db).
		Where("user_id = ? AND date = ?", userID, domainanalytics.TruncateDay(day)).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// ListRange returns rows with from <= date <= to, both truncated to days.
func (r *userAnalyticsRepo) ListRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.UserAnalytics, error) {
	var out []*types.UserAnalytics
	if err := dbc.DB(r.db).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, domainanalytics.TruncateDay(from), domainanalytics.TruncateDay(to)).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userAnalyticsRepo) SumMonth(dbc dbctx.Context, userID uuid.UUID, year, month int) (types.AnalyticsCounters, error) {
	cols := make([]string, 0, len(domainanalytics.CounterColumns))
	for _, col := range domainanalytics.CounterColumns {
		cols = append(cols, fmt.Sprintf("COALESCE(SUM(%s), 0) AS %s", col, col))
	}
	var sum types.AnalyticsCounters
	if err := dbc.DB(r.db).Model(&types.UserAnalytics{}).
		Select(strings.Join(cols, ", ")).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Scan(&sum).Error; err != nil {
		return types.AnalyticsCounters{}, err
	}
	return sum, nil
}

func (r *userAnalyticsRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&types.UserAnalytics{})
	return res.RowsAffected > 0, res.Error
}
