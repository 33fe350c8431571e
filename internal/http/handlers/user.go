package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type UserHandler struct {
	log      *logger.Logger
	users    services.UserService
	progress services.ProgressService
}

func NewUserHandler(log *logger.Logger, users services.UserService, progress services.ProgressService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), users: users, progress: progress}
}

// GET /api/users/profile/:userId
func (uh *UserHandler) GetProfile(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	profile, err := uh.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": profile})
}

// GET /api/users/:userId/progress
func (uh *UserHandler) GetProgress(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	progress, err := uh.progress.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}

// POST /api/users/:userId/follow
func (uh *UserHandler) Follow(c *gin.Context) {
	uh.follow(c, true)
}

// DELETE /api/users/:userId/follow
func (uh *UserHandler) Unfollow(c *gin.Context) {
	uh.follow(c, false)
}

func (uh *UserHandler) follow(c *gin.Context, on bool) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	target, err := pathID(c, "userId")
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	if on {
		err = uh.users.Follow(c.Request.Context(), p.ID, target)
	} else {
		err = uh.users.Unfollow(c.Request.Context(), p.ID, target)
	}
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	response.RespondOK(c, nil)
}

// PATCH /api/users/profile-pic (multipart, field "profilePic")
func (uh *UserHandler) UpdateProfilePic(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	file, err := formFile(form, "profilePic")
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	if file == nil {
		response.RespondError(c, uh.log, apierr.Missing("profilePic file is required"))
		return
	}
	pic, err := uh.users.UpdateProfilePic(c.Request.Context(), p.ID, file.Data)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"profilePic": pic})
}
