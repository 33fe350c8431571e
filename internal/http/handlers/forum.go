package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type ForumHandler struct {
	log   *logger.Logger
	forum services.ForumService
}

func NewForumHandler(log *logger.Logger, forum services.ForumService) *ForumHandler {
	return &ForumHandler{log: log.With("handler", "ForumHandler"), forum: forum}
}

// forumBody is the common shape of post and comment writes. Multipart bodies
// may carry images[] and videos[] files; JSON bodies carry text only.
type forumBody struct {
	PostID  *string               `json:"postId"`
	Title   *string               `json:"title"`
	Content *string               `json:"content"`
	Images  []services.UploadFile `json:"-"`
	Videos  []services.UploadFile `json:"-"`
}

func readForumBody(c *gin.Context) (forumBody, error) {
	var b forumBody
	if !isMultipart(c) {
		return b, bindJSON(c, &b)
	}
	form, err := multipartForm(c)
	if err != nil {
		return b, err
	}
	b.PostID = formValue(form, "postId")
	b.Title = formValue(form, "title")
	b.Content = formValue(form, "content")
	if b.Images, err = formFiles(form, "images"); err != nil {
		return b, err
	}
	if b.Videos, err = formFiles(form, "videos"); err != nil {
		return b, err
	}
	return b, nil
}

// POST /api/forum/posts
func (h *ForumHandler) CreatePost(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	b, err := readForumBody(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	post, err := h.forum.CreatePost(c.Request.Context(), services.PostInput{
		AuthorID: p.ID,
		Title:    deref(b.Title),
		Content:  deref(b.Content),
		Images:   b.Images,
		Videos:   b.Videos,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"post": post})
}

// GET /api/forum/posts?page&limit
func (h *ForumHandler) ListPosts(c *gin.Context) {
	page, limit := pageParams(c)
	out, err := h.forum.ListPosts(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"posts": out.Posts, "pagination": out.Pagination})
}

// GET /api/forum/posts/:postId
func (h *ForumHandler) GetPost(c *gin.Context) {
	postID, err := pathID(c, "postId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	post, err := h.forum.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"post": post})
}

// PATCH /api/forum/posts/:postId
func (h *ForumHandler) UpdatePost(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	b, err := readForumBody(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	post, err := h.forum.UpdatePost(c.Request.Context(), p.ID, postID, services.PostPatch{
		Title:   b.Title,
		Content: b.Content,
		Images:  b.Images,
		Videos:  b.Videos,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"post": post})
}

// DELETE /api/forum/posts/:postId
func (h *ForumHandler) DeletePost(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.forum.DeletePost(c.Request.Context(), p.ID, postID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Post deleted"})
}

// POST /api/forum/comments
func (h *ForumHandler) CreateComment(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	b, err := readForumBody(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	postID, err := parseID(deref(b.PostID), "postId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	comment, err := h.forum.CreateComment(c.Request.Context(), services.CommentInput{
		PostID:   postID,
		AuthorID: p.ID,
		Content:  deref(b.Content),
		Images:   b.Images,
		Videos:   b.Videos,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": comment})
}

// GET /api/forum/comments/:postId
func (h *ForumHandler) ListComments(c *gin.Context) {
	postID, err := pathID(c, "postId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	comments, err := h.forum.ListComments(c.Request.Context(), postID)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": comments})
}

// PATCH /api/forum/comments/:commentId
func (h *ForumHandler) UpdateComment(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	b, err := readForumBody(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	comment, err := h.forum.UpdateComment(c.Request.Context(), p.ID, commentID, services.CommentPatch{
		Content: b.Content,
		Images:  b.Images,
		Videos:  b.Videos,
	})
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"comment": comment})
}

// DELETE /api/forum/comments/:commentId
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.forum.DeleteComment(c.Request.Context(), p.ID, commentID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Comment deleted"})
}
