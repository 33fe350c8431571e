package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type CategoryHandler struct {
	log        *logger.Logger
	categories services.CategoryService
	languages  services.LanguageService
}

func NewCategoryHandler(log *logger.Logger, categories services.CategoryService, languages services.LanguageService) *CategoryHandler {
	return &CategoryHandler{log: log.With("handler", "CategoryHandler"), categories: categories, languages: languages}
}

// GET /api/category
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	out, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"data": out})
}

// POST /api/category
func (h *CategoryHandler) AddCategory(c *gin.Context) {
	var req struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	cat, err := h.categories.AddCategory(c.Request.Context(), req.Title, req.Tags)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": cat})
}

// PATCH /api/category/:categoryId
func (h *CategoryHandler) EditCategory(c *gin.Context) {
	id, err := pathID(c, "categoryId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	var req services.EditCategoryInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	cat, err := h.categories.EditCategory(c.Request.Context(), id, req)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"data": cat})
}

// GET /api/language
func (h *CategoryHandler) ListLanguages(c *gin.Context) {
	out, err := h.languages.ListLanguages(c.Request.Context())
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"data": out})
}

// POST /api/language accepts JSON {name} or multipart name + flag.
func (h *CategoryHandler) AddLanguage(c *gin.Context) {
	var (
		name string
		flag *services.UploadFile
	)
	if isMultipart(c) {
		form, err := multipartForm(c)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		if v := formValue(form, "name"); v != nil {
			name = *v
		}
		if flag, err = formFile(form, "flag"); err != nil {
			response.RespondError(c, h.log, err)
			return
		}
	} else {
		var req struct {
			Name string `json:"name"`
		}
		if err := bindJSON(c, &req); err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		name = req.Name
	}
	lang, err := h.languages.AddLanguage(c.Request.Context(), name, flag)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": lang})
}
