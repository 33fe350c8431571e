package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	u, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": u})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":      res.User,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"expiresIn": int(ah.authService.AccessTTL().Seconds()),
	})
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	if err := ah.authService.Logout(c.Request.Context(), p.Token); err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	response.RespondOK(c, nil)
}
