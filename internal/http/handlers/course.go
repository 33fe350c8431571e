package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type CourseHandler struct {
	log       *logger.Logger
	catalog   services.CatalogService
	recommend services.RecommendationService
	progress  services.ProgressService
	purchase  services.PurchaseService
}

func NewCourseHandler(
	log *logger.Logger,
	catalog services.CatalogService,
	recommend services.RecommendationService,
	progress services.ProgressService,
	purchase services.PurchaseService,
) *CourseHandler {
	return &CourseHandler{
		log:       log.With("handler", "CourseHandler"),
		catalog:   catalog,
		recommend: recommend,
		progress:  progress,
		purchase:  purchase,
	}
}

// GET /api/course?page&limit
func (h *CourseHandler) ListCourses(c *gin.Context) {
	page, limit := pageParams(c)
	out, err := h.catalog.ListCourses(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"courses":    out.Items,
		"totalPages": out.TotalPages,
		"totalCount": out.TotalCount,
	})
}

// GET /api/course/:courseId?page&limit
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	page, limit := pageParams(c)
	course, err := h.catalog.GetCourseDetail(c.Request.Context(), courseID, page, limit)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if course == nil {
		response.NotFound(c, "Course not found")
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

type createCourseRequest struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Language      string                 `json:"language"`
	Level         string                 `json:"level"`
	Price         *float64               `json:"price"`
	Duration      string                 `json:"duration"`
	Prerequisites []string               `json:"prerequisites"`
	Resources     []types.CourseResource `json:"resources"`
	Categories    []string               `json:"categories"`
	Tags          []string               `json:"tags"`
}

// POST /api/course
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req createCourseRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		response.RespondError(c, h.log, apierr.Missing("language is required"))
		return
	}
	languageID, err := parseID(req.Language, "language")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	categories, err := parseIDs(req.Categories, "categories")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), services.CreateCourseInput{
		AuthorID:      p.ID,
		Title:         req.Title,
		Description:   req.Description,
		LanguageID:    languageID,
		Level:         req.Level,
		Price:         req.Price,
		Duration:      req.Duration,
		Prerequisites: req.Prerequisites,
		Resources:     req.Resources,
		Categories:    categories,
		Tags:          req.Tags,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// PATCH /api/course/:courseId (multipart)
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	in := services.UpdateCourseInput{
		AuthorID:      p.ID,
		Title:         formValue(form, "title"),
		Description:   formValue(form, "description"),
		Level:         formValue(form, "level"),
		Duration:      formValue(form, "duration"),
		Prerequisites: formList(form, "prerequisites"),
		Tags:          formList(form, "tags"),
	}
	if in.Price, err = formFloat(form, "price"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if in.LanguageID, err = parseOptionalID(formValue(form, "language"), "language"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if in.Exercises, err = parseIDs(formList(form, "exercises"), "exercises"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if in.Categories, err = parseIDs(formList(form, "categories"), "categories"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if in.Recommendations, err = parseIDs(formList(form, "recommendations"), "recommendations"); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	poster, err := formFile(form, "poster")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if poster != nil {
		in.Poster = poster.Data
	}

	course, err := h.catalog.UpdateCourse(c.Request.Context(), courseID, in)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /api/course/recommendation/:courseId?page&limit
func (h *CourseHandler) Recommend(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	page, limit := pageParams(c)
	out, err := h.recommend.Recommend(c.Request.Context(), courseID, page, limit)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"courses":    out.Items,
		"totalPages": out.TotalPages,
		"totalCount": out.TotalCount,
	})
}

// PATCH /api/course/update-course-progress/:courseId
func (h *CourseHandler) UpdateCourseProgress(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req struct {
		UserID            string `json:"userId"`
		CompletedLessonID string `json:"completedLessonId"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if req.UserID == "" || req.CompletedLessonID == "" {
		response.RespondError(c, h.log, apierr.Missing("userId and completedLessonId are required"))
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lessonID, err := parseID(req.CompletedLessonID, "completedLessonId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := requireSelf(c, userID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	progress, err := h.progress.RecordLessonCompletion(c.Request.Context(), userID, courseID, lessonID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Course progress updated successfully.", "progress": progress})
}

// POST /api/course/purchase
func (h *CourseHandler) PurchaseCourse(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId"`
		CourseID string `json:"courseId"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	courseID, err := parseID(req.CourseID, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := requireSelf(c, userID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.purchase.PurchaseCourse(c.Request.Context(), userID, courseID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Course purchased successfully"})
}

// GET /api/course/purchase/:userId[?type=Course|Vip]
func (h *CourseHandler) ListPurchases(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if itemType, ok := c.GetQuery("type"); ok {
		items, err := h.purchase.ListPurchasedItems(c.Request.Context(), userID, types.PurchasedItemType(itemType))
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{"items": items})
		return
	}
	courses, err := h.purchase.ListPurchases(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"purchasedCourses": courses})
}
