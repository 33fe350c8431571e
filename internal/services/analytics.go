package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/domain/analytics"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// RangeQuery selects the window for GetRange. Week needs StartDate, month
// needs Year and Month, year needs Year.
type RangeQuery struct {
	Period    string
	StartDate *time.Time
	Year      int
	Month     int
}

// RangeBucket sums the counters of one group. Key is the day of year for
// week, day of month for month, and month for year.
type RangeBucket struct {
	Key int `json:"_id"`
	types.AnalyticsCounters
}

type MonthlyTotals struct {
	UserID uuid.UUID `json:"userId"`
	Year   int       `json:"year"`
	Month  int       `json:"month"`
	types.AnalyticsCounters
}

type AnalyticsService interface {
	UpsertDaily(ctx context.Context, userID uuid.UUID, date time.Time, deltas types.AnalyticsCounters) (*types.UserAnalytics, bool, error)
	// GetDaily returns nil when the user has no record for that day.
	GetDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*types.UserAnalytics, error)
	GetMonthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyTotals, error)
	GetRange(ctx context.Context, userID uuid.UUID, q RangeQuery) ([]*RangeBucket, error)
	// Delete reports NotFound for records userID does not own.
	Delete(ctx context.Context, userID, recordID uuid.UUID) error
}

type analyticsService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, rs repos.Set) AnalyticsService {
	return &analyticsService{
		db:    db,
		log:   log.With("service", "AnalyticsService"),
		repos: rs,
	}
}

func (as *analyticsService) UpsertDaily(ctx context.Context, userID uuid.UUID, date time.Time, deltas types.AnalyticsCounters) (*types.UserAnalytics, bool, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, false, err
	}
	if date.IsZero() {
		return nil, false, apierr.Missing("date is required")
	}
	row, created, err := as.repos.Analytics.Upsert(dbctx.New(ctx), userID, date, deltas)
	if err != nil {
		return nil, false, wrap("upsert daily analytics", err)
	}
	return row, created, nil
}

func (as *analyticsService) GetDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*types.UserAnalytics, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apierr.Missing("date is required")
	}
	row, err := as.repos.Analytics.GetByDay(dbctx.New(ctx), userID, date)
	if err != nil {
		return nil, wrap("get daily analytics", err)
	}
	return row, nil
}

func (as *analyticsService) GetMonthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyTotals, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	if year <= 0 {
		return nil, apierr.Missing("year is required")
	}
	if month < 1 || month > 12 {
		return nil, apierr.Invalid("month must be between 1 and 12")
	}
	sum, err := as.repos.Analytics.SumMonth(dbctx.New(ctx), userID, year, month)
	if err != nil {
		return nil, wrap("sum monthly analytics", err)
	}
	return &MonthlyTotals{UserID: userID, Year: year, Month: month, AnalyticsCounters: sum}, nil
}

func (as *analyticsService) GetRange(ctx context.Context, userID uuid.UUID, q RangeQuery) ([]*RangeBucket, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	from, to, groupKey, err := rangeWindow(q)
	if err != nil {
		return nil, err
	}
	rows, err := as.repos.Analytics.ListRange(dbctx.New(ctx), userID, from, to)
	if err != nil {
		return nil, wrap("list analytics range", err)
	}
	return groupRows(rows, groupKey), nil
}

func (as *analyticsService) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	if err := requireID(recordID, "id"); err != nil {
		return err
	}
	ok, err := as.repos.Analytics.Delete(dbctx.New(ctx), userID, recordID)
	if err != nil {
		return wrap("delete analytics", err)
	}
	if !ok {
		return apierr.NotFound("analytics data not found")
	}
	return nil
}

// rangeWindow resolves the inclusive [from, to] day window and the grouping
// key for a period.
func rangeWindow(q RangeQuery) (time.Time, time.Time, func(time.Time) int, error) {
	switch strings.ToLower(strings.TrimSpace(q.Period)) {
	case PeriodWeek:
		if q.StartDate == nil || q.StartDate.IsZero() {
			return time.Time{}, time.Time{}, nil, apierr.Missing("startDate is required for weekly stats")
		}
		from := analytics.TruncateDay(*q.StartDate)
		return from, from.AddDate(0, 0, 6), func(t time.Time) int { return t.UTC().YearDay() }, nil
	case PeriodMonth:
		if q.Year <= 0 || q.Month == 0 {
			return time.Time{}, time.Time{}, nil, apierr.Missing("year and month are required for monthly stats")
		}
		if q.Month < 1 || q.Month > 12 {
			return time.Time{}, time.Time{}, nil, apierr.Invalid("month must be between 1 and 12")
		}
		from := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, -1), func(t time.Time) int { return t.UTC().Day() }, nil
	case PeriodYear:
		if q.Year <= 0 {
			return time.Time{}, time.Time{}, nil, apierr.Missing("year is required for yearly stats")
		}
		from := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(q.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return from, to, func(t time.Time) int { return int(t.UTC().Month()) }, nil
	default:
		return time.Time{}, time.Time{}, nil, apierr.Invalid(`invalid period, use "week", "month", or "year"`)
	}
}

func groupRows(rows []*types.UserAnalytics, key func(time.Time) int) []*RangeBucket {
	byKey := map[int]*RangeBucket{}
	for _, r := range rows {
		k := key(r.Date)
		b, ok := byKey[k]
		if !ok {
			b = &RangeBucket{Key: k}
			byKey[k] = b
		}
		b.Add(r.Counters)
	}
	out := make([]*RangeBucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
