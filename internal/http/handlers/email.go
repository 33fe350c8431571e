package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type EmailHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewEmailHandler(log *logger.Logger, authService services.AuthService) *EmailHandler {
	return &EmailHandler{log: log.With("handler", "EmailHandler"), authService: authService}
}

// POST /api/email/send-email-verification
func (eh *EmailHandler) SendEmailVerification(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	if err := eh.authService.SendEmailVerification(c.Request.Context(), userID); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Verification code sent"})
}

// POST /api/email/verify-email
func (eh *EmailHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	if err := eh.authService.VerifyEmail(c.Request.Context(), userID, req.Token); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Email verified"})
}

// POST /api/email/send-reset-password
func (eh *EmailHandler) SendResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	if err := eh.authService.SendResetPassword(c.Request.Context(), req.Email); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Reset link sent"})
}

// POST /api/email/update-password
func (eh *EmailHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	if err := eh.authService.UpdatePassword(c.Request.Context(), userID, req.Token, req.Password); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Password updated"})
}
