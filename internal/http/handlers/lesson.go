package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type LessonHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), lessons: lessons}
}

// GET /api/lesson/:courseId
func (h *LessonHandler) GetAllLessons(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lessons, err := h.lessons.GetAllLessons(c.Request.Context(), courseID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/lesson/:courseId/:lessonId
func (h *LessonHandler) GetLesson(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lessonID, err := pathID(c, "lessonId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lesson, err := h.lessons.GetLesson(c.Request.Context(), courseID, lessonID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

type addLessonRequest struct {
	CourseID      string   `json:"courseId"`
	Title         string   `json:"title"`
	LessonContent []string `json:"lessonContent"`
}

func (r addLessonRequest) input() (services.AddLessonInput, error) {
	courseID, err := parseID(r.CourseID, "courseId")
	if err != nil {
		return services.AddLessonInput{}, err
	}
	return services.AddLessonInput{CourseID: courseID, Title: r.Title, Contents: r.LessonContent}, nil
}

// POST /api/lesson
func (h *LessonHandler) AddLesson(c *gin.Context) {
	var req addLessonRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	in, err := req.input()
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lesson, err := h.lessons.AddLesson(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// POST /api/lesson/at/:index
func (h *LessonHandler) AddLessonAtIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, h.log, apierr.Invalid("Invalid index"))
		return
	}
	var req addLessonRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	in, err := req.input()
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lesson, err := h.lessons.AddLessonAtIndex(c.Request.Context(), index, in)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// PATCH /api/lesson/:lessonId
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	lessonID, err := pathID(c, "lessonId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req struct {
		Title           string  `json:"title"`
		LessonContent   string  `json:"lessonContent"`
		LessonContentID *string `json:"lessonContentId"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	contentID, err := parseOptionalID(req.LessonContentID, "lessonContentId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	lesson, err := h.lessons.UpdateLesson(c.Request.Context(), lessonID, services.UpdateLessonInput{
		Title:     req.Title,
		Content:   req.LessonContent,
		ContentID: contentID,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// PATCH /api/lesson/content/:lessonContentId
func (h *LessonHandler) UpdateLessonContent(c *gin.Context) {
	contentID, err := pathID(c, "lessonContentId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req struct {
		LessonContent string `json:"lessonContent"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	content, err := h.lessons.UpdateLessonContent(c.Request.Context(), contentID, req.LessonContent)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lessonContent": content})
}

// DELETE /api/lesson/content/:lessonContentId
func (h *LessonHandler) DeleteLessonContent(c *gin.Context) {
	contentID, err := pathID(c, "lessonContentId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.lessons.DeleteLessonContent(c.Request.Context(), contentID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lesson content deleted successfully."})
}

// DELETE /api/lesson/:lessonId
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, err := pathID(c, "lessonId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.lessons.DeleteLesson(c.Request.Context(), lessonID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lesson deleted successfully."})
}
