package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{log: log.With("handler", "AnalyticsHandler"), analytics: analytics}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.Invalid("Invalid " + key)
	}
	return v, nil
}

// selfFromQuery reads ?userId and requires it to be the caller.
func (h *AnalyticsHandler) selfFromQuery(c *gin.Context) (uuid.UUID, error) {
	userID, err := parseID(c.Query("userId"), "userid")
	if err != nil {
		return uuid.Nil, err
	}
	return userID, requireSelf(c, userID)
}

// GET /api/user-analytics/daily?userId&date
func (h *AnalyticsHandler) GetDaily(c *gin.Context) {
	userID, err := h.selfFromQuery(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	date, err := parseDate(c.Query("date"), "date")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	rec, err := h.analytics.GetDaily(c.Request.Context(), userID, date)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"analytics": rec})
}

// GET /api/user-analytics/monthly?userId&year&month
func (h *AnalyticsHandler) GetMonthly(c *gin.Context) {
	userID, err := h.selfFromQuery(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	year, err := queryInt(c, "year")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	month, err := queryInt(c, "month")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	totals, err := h.analytics.GetMonthly(c.Request.Context(), userID, year, month)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"analytics": totals})
}

// GET /api/user-analytics/data?userId&period&startDate&year&month
func (h *AnalyticsHandler) GetRange(c *gin.Context) {
	userID, err := h.selfFromQuery(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	q := services.RangeQuery{Period: c.Query("period")}
	if raw := c.Query("startDate"); raw != "" {
		start, err := parseDate(raw, "startDate")
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		q.StartDate = &start
	}
	if q.Year, err = queryInt(c, "year"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if q.Month, err = queryInt(c, "month"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	buckets, err := h.analytics.GetRange(c.Request.Context(), userID, q)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"analytics": buckets})
}

// PATCH /api/user-analytics/:userId
// Creates the day's record with 201, or adds the deltas to it with 200.
func (h *AnalyticsHandler) Upsert(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err == nil {
		err = requireSelf(c, userID)
	}
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req struct {
		Date string `json:"date"`
		types.AnalyticsCounters
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	rec, created, err := h.analytics.UpsertDaily(c.Request.Context(), userID, date, req.AnalyticsCounters)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if created {
		response.RespondCreated(c, gin.H{"analytics": rec})
		return
	}
	response.RespondOK(c, gin.H{"analytics": rec})
}

// DELETE /api/user-analytics/delete/:id
// Only the owner can delete; other callers see 404.
func (h *AnalyticsHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.analytics.Delete(c.Request.Context(), p.ID, id); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Analytics data deleted successfully"})
}
