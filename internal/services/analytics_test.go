package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
)

func newAnalytics(t *testing.T, env *testEnv) AnalyticsService {
	t.Helper()
	return NewAnalyticsService(env.db, testutil.Logger(t), env.repos)
}

func TestUpsertDailyAccumulates(t *testing.T) {
	env := newEnv(t)
	svc := newAnalytics(t, env)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	morning := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)

	first, created, err := svc.UpsertDaily(env.ctx, u.ID, morning, types.AnalyticsCounters{TotalTimeSpent: 5})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatalf("first upsert should create")
	}
	second, created, err := svc.UpsertDaily(env.ctx, u.ID, evening, types.AnalyticsCounters{TotalTimeSpent: 7, LessonsCompleted: 1})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatalf("second upsert should update")
	}
	if second.ID != first.ID {
		t.Fatalf("same day produced two records: %s vs %s", first.ID, second.ID)
	}
	if second.TotalTimeSpent != 12 || second.LessonsCompleted != 1 {
		t.Fatalf("counters: got=%+v", second.Counters)
	}
	if second.Month != 3 || second.Year != 2024 {
		t.Fatalf("derived month/year: got=%d/%d", second.Month, second.Year)
	}

	daily, err := svc.GetDaily(env.ctx, u.ID, evening)
	if err != nil {
		t.Fatalf("GetDaily: %v", err)
	}
	if daily == nil || daily.TotalTimeSpent != 12 {
		t.Fatalf("GetDaily: got=%+v", daily)
	}
}

func TestGetMonthlySumsDays(t *testing.T) {
	env := newEnv(t)
	svc := newAnalytics(t, env)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	for _, d := range []int{1, 15, 31} {
		if _, _, err := svc.UpsertDaily(env.ctx, u.ID, time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC), types.AnalyticsCounters{TotalTimeSpent: 10, CoursesCompleted: 1}); err != nil {
			t.Fatalf("upsert day %d: %v", d, err)
		}
	}
	if _, _, err := svc.UpsertDaily(env.ctx, u.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), types.AnalyticsCounters{TotalTimeSpent: 99}); err != nil {
		t.Fatalf("upsert february: %v", err)
	}

	got, err := svc.GetMonthly(env.ctx, u.ID, 2024, 1)
	if err != nil {
		t.Fatalf("GetMonthly: %v", err)
	}
	if got.TotalTimeSpent != 30 || got.CoursesCompleted != 3 {
		t.Fatalf("monthly totals: got=%+v", got.AnalyticsCounters)
	}
	if _, err := svc.GetMonthly(env.ctx, u.ID, 2024, 13); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("month 13: got %v", err)
	}
}

func TestGetRangeGroupsByPeriod(t *testing.T) {
	env := newEnv(t)
	svc := newAnalytics(t, env)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	days := []time.Time{
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range days {
		if _, _, err := svc.UpsertDaily(env.ctx, u.ID, d, types.AnalyticsCounters{TotalTimeSpent: 1}); err != nil {
			t.Fatalf("upsert %s: %v", d, err)
		}
	}

	week, err := svc.GetRange(env.ctx, u.ID, RangeQuery{Period: PeriodWeek, StartDate: testutil.PtrTime(days[0])})
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if len(week) != 2 || week[0].Key != days[0].YearDay() || week[1].Key != days[1].YearDay() {
		t.Fatalf("week buckets: %+v", week)
	}

	month, err := svc.GetRange(env.ctx, u.ID, RangeQuery{Period: PeriodMonth, Year: 2024, Month: 5})
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if len(month) != 3 || month[0].Key != 1 || month[2].Key != 9 {
		t.Fatalf("month buckets: %+v", month)
	}

	year, err := svc.GetRange(env.ctx, u.ID, RangeQuery{Period: PeriodYear, Year: 2024})
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	if len(year) != 2 || year[0].Key != 5 || year[0].TotalTimeSpent != 3 || year[1].Key != 7 {
		t.Fatalf("year buckets: %+v", year)
	}

	if _, err := svc.GetRange(env.ctx, u.ID, RangeQuery{Period: "decade", Year: 2024}); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("unknown period: got %v", err)
	}
	if _, err := svc.GetRange(env.ctx, u.ID, RangeQuery{Period: PeriodWeek}); !apierr.Is(err, apierr.ECMissing) {
		t.Fatalf("week without start: got %v", err)
	}
}

func TestDeleteAnalytics(t *testing.T) {
	env := newEnv(t)
	svc := newAnalytics(t, env)
	u := testutil.SeedUser(t, env.ctx, env.db, "")
	row, _, err := svc.UpsertDaily(env.ctx, u.ID, time.Now(), types.AnalyticsCounters{TotalTimeSpent: 1})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	other := testutil.SeedUser(t, env.ctx, env.db, "")
	if err := svc.Delete(env.ctx, other.ID, row.ID); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("delete by non-owner: got %v", err)
	}
	if err := svc.Delete(env.ctx, u.ID, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(env.ctx, u.ID, row.ID); !apierr.Is(err, apierr.ECNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
	if err := svc.Delete(env.ctx, u.ID, uuid.Nil); !apierr.Is(err, apierr.ECInvalid) {
		t.Fatalf("nil id: got %v", err)
	}
}
