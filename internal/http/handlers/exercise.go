package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type ExerciseHandler struct {
	log       *logger.Logger
	exercises services.ExerciseService
	progress  services.ProgressService
}

func NewExerciseHandler(log *logger.Logger, exercises services.ExerciseService, progress services.ProgressService) *ExerciseHandler {
	return &ExerciseHandler{log: log.With("handler", "ExerciseHandler"), exercises: exercises, progress: progress}
}

type exerciseRequest struct {
	Title         *string  `json:"title"`
	Question      *string  `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Explanation   *string  `json:"explanation"`
	FromLesson    *string  `json:"fromLesson"`
	CourseID      *string  `json:"courseId"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// POST /api/exercise
func (h *ExerciseHandler) AddExercise(c *gin.Context) {
	var req exerciseRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	fromLesson, err := parseOptionalID(req.FromLesson, "fromLesson")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	courseID, err := parseOptionalID(req.CourseID, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	ex, err := h.exercises.AddExercise(c.Request.Context(), services.ExerciseInput{
		Title:         deref(req.Title),
		Question:      deref(req.Question),
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   deref(req.Explanation),
		FromLesson:    fromLesson,
		CourseID:      courseID,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Exercise created successfully.", "exercise": ex})
}

// PATCH /api/exercise/:exerciseId
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := pathID(c, "exerciseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req exerciseRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	fromLesson, err := parseOptionalID(req.FromLesson, "fromLesson")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	courseID, err := parseOptionalID(req.CourseID, "courseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	ex, err := h.exercises.UpdateExercise(c.Request.Context(), exerciseID, services.ExercisePatch{
		Title:         req.Title,
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		FromLesson:    fromLesson,
		CourseID:      courseID,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Exercise updated successfully.", "exercise": ex})
}

// DELETE /api/exercise/:exerciseId
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := pathID(c, "exerciseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.exercises.DeleteExercise(c.Request.Context(), exerciseID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Exercise deleted successfully."})
}

// POST /api/exercise/answer
func (h *ExerciseHandler) Answer(c *gin.Context) {
	var req struct {
		UserID              string `json:"userId"`
		ExerciseID          string `json:"exerciseId"`
		SelectedOptionIndex *int   `json:"selectedOptionIndex"`
		AnswerTime          int64  `json:"answerTime"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if req.SelectedOptionIndex == nil {
		response.RespondError(c, h.log, apierr.Missing("selectedOptionIndex is required"))
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	exerciseID, err := parseID(req.ExerciseID, "exerciseId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := requireSelf(c, userID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	res, err := h.progress.RecordAnswer(c.Request.Context(), services.AnswerInput{
		UserID:              userID,
		ExerciseID:          exerciseID,
		SelectedOptionIndex: *req.SelectedOptionIndex,
		AnswerTimeMs:        req.AnswerTime,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"isCorrect": res.IsCorrect, "attempt": res.Attempt})
}
