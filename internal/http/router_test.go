package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/learnhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnhub-backend/internal/http/middleware"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type nopMailer struct{}

func (nopMailer) Send(ctx context.Context, to, name, subject, html string) error { return nil }

type harness struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := repos.NewSet(db, log)
	cache := rediscache.NewNop()

	media := services.NewMediaService(log, nil, nil)
	mail := services.NewMailService(log, nopMailer{})
	catalog := services.NewCatalogService(db, log, rs, media, cache)
	progress := services.NewProgressService(db, log, rs, catalog)
	purchase := services.NewPurchaseService(db, log, rs, catalog)
	auth := services.NewAuthService(db, log, rs, media, mail, services.AuthConfig{JWTSecretKey: "router-test"})

	engine := NewRouter(RouterConfig{
		Log:              log,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, auth),
		AuthHandler:      httpH.NewAuthHandler(log, auth),
		CourseHandler:    httpH.NewCourseHandler(log, catalog, services.NewRecommendationService(db, log, rs, cache, services.RecommendOptions{}), progress, purchase),
		AnalyticsHandler: httpH.NewAnalyticsHandler(log, services.NewAnalyticsService(db, log, rs)),
		HealthHandler:    httpH.NewHealthHandler(nil),
	})
	return &harness{t: t, db: db, engine: engine}
}

func (h *harness) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (h *harness) login(name string) (string, string) {
	h.t.Helper()
	rec, body := h.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": name, "email": name + "@example.test", "password": "pw-" + name,
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	userID := body["user"].(map[string]any)["id"].(string)

	rec, body = h.do(http.MethodPost, "/api/auth/login", "", map[string]any{"name": name, "password": "pw-" + name})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return body["token"].(string), userID
}

func ec(body map[string]any) int {
	v, _ := body["EC"].(float64)
	return int(v)
}

func TestHealthcheck(t *testing.T) {
	h := newHarness(t)
	rec, _ := h.do(http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegisterLoginLogout(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login("ada")
	require.NotEmpty(t, token)

	rec, body := h.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "ada", "email": "ada@example.test", "password": "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 2, ec(body))

	rec, body = h.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ec(body))
	assert.Equal(t, "success", body["EM"])

	rec, body = h.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 7, ec(body))
}

func TestAuthAndVerificationGuards(t *testing.T) {
	h := newHarness(t)
	token, userID := h.login("grace")

	rec, body := h.do(http.MethodPost, "/api/course/purchase", "", map[string]any{"userId": userID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 7, ec(body))

	rec, body = h.do(http.MethodPost, "/api/course/purchase", token, map[string]any{"userId": userID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 6, ec(body))
}

func TestCourseIdentifiersAndNotFound(t *testing.T) {
	h := newHarness(t)

	rec, body := h.do(http.MethodGet, "/api/course/not-an-id", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 4, ec(body))

	rec, body = h.do(http.MethodGet, "/api/course/6f1c1a58-3f43-4a4b-9b43-0c5f8f2a0d11", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 5, ec(body))

	rec, body = h.do(http.MethodGet, "/api/course", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ec(body))
	assert.Equal(t, float64(0), body["totalCount"])
}

func TestCreateAndListCourse(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login("linus")
	lang := testutil.SeedLanguage(t, context.Background(), h.db, "")

	req := map[string]any{
		"title":         "Intro to Go",
		"description":   "basics",
		"language":      lang.ID.String(),
		"level":         "Beginner",
		"price":         0,
		"prerequisites": []string{},
		"tags":          []string{"go"},
	}
	rec, body := h.do(http.MethodPost, "/api/course", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	courseID := body["course"].(map[string]any)["id"].(string)

	rec, body = h.do(http.MethodPost, "/api/course", token, req)
	assert.Equal(t, 2, ec(body), rec.Body.String())

	delete(req, "price")
	req["title"] = "Other"
	_, body = h.do(http.MethodPost, "/api/course", token, req)
	assert.Equal(t, 1, ec(body))

	rec, body = h.do(http.MethodGet, "/api/course/"+courseID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	course := body["course"].(map[string]any)
	assert.Equal(t, "Intro to Go", course["title"])
	assert.Equal(t, []any{"go"}, course["tags"])

	_, body = h.do(http.MethodGet, "/api/course?page=1&limit=5", "", nil)
	assert.Equal(t, float64(1), body["totalCount"])
}

func TestAnalyticsUpsertStatus(t *testing.T) {
	h := newHarness(t)
	token, userID := h.login("barbara")
	path := fmt.Sprintf("/api/user-analytics/%s", userID)

	rec, body := h.do(http.MethodPatch, path, token, map[string]any{"date": "2024-03-05", "totalTimeSpent": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 0, ec(body))

	rec, body = h.do(http.MethodPatch, path, token, map[string]any{"date": "2024-03-05", "totalTimeSpent": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(12), body["analytics"].(map[string]any)["totalTimeSpent"])

	rec, body = h.do(http.MethodGet, "/api/user-analytics/data?userId="+userID+"&period=decade", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 4, ec(body))
}

func TestAnalyticsRequiresSelf(t *testing.T) {
	h := newHarness(t)
	owner, ownerID := h.login("carol")
	intruder, _ := h.login("dave")
	path := fmt.Sprintf("/api/user-analytics/%s", ownerID)

	rec, body := h.do(http.MethodPatch, path, intruder, map[string]any{"date": "2024-03-05", "totalTimeSpent": 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 7, ec(body))

	rec, body = h.do(http.MethodGet, "/api/user-analytics/daily?userId="+ownerID+"&date=2024-03-05", intruder, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 7, ec(body))

	rec, body = h.do(http.MethodPatch, path, owner, map[string]any{"date": "2024-03-05", "totalTimeSpent": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	recordID := body["analytics"].(map[string]any)["id"].(string)

	rec, body = h.do(http.MethodDelete, "/api/user-analytics/delete/"+recordID, intruder, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 5, ec(body))

	rec, _ = h.do(http.MethodDelete, "/api/user-analytics/delete/"+recordID, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
