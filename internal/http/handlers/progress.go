package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress}
}

// GET /api/progress/:courseId
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
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
	out, err := h.progress.GetCourseProgress(c.Request.Context(), p.ID, courseID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}
