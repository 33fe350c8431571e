package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type EditCategoryInput struct {
	Title *string  `json:"title"`
	Tags  []string `json:"tags"`
}

type CategoryService interface {
	AddCategory(ctx context.Context, title string, tags []string) (*types.Category, error)
	EditCategory(ctx context.Context, id uuid.UUID, in EditCategoryInput) (*types.Category, error)
	ListCategories(ctx context.Context) ([]*types.Category, error)
}

type categoryService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Set
	catalog CatalogService
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, rs repos.Set, catalog CatalogService) CategoryService {
	return &categoryService{
		db:      db,
		log:     log.With("service", "CategoryService"),
		repos:   rs,
		catalog: catalog,
	}
}

func (cs *categoryService) AddCategory(ctx context.Context, title string, tags []string) (*types.Category, error) {
	title, err := requireText(title, "Category title")
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	existing, err := cs.repos.Categories.GetByTitle(dbc, title)
	if err != nil {
		return nil, wrap("get category", err)
	}
	if existing != nil {
		return nil, apierr.Duplicated("Category title must be unique.")
	}
	c := &types.Category{Title: title, Tags: datatypes.JSONSlice[string](dedupeStrings(tags))}
	if err := cs.repos.Categories.Create(dbc, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Duplicated("Category title must be unique.")
		}
		return nil, wrap("create category", err)
	}
	return c, nil
}

func (cs *categoryService) EditCategory(ctx context.Context, id uuid.UUID, in EditCategoryInput) (*types.Category, error) {
	if err := requireID(id, "categoryId"); err != nil {
		return nil, err
	}
	var out *types.Category
	err := inTx(dbctx.New(ctx), cs.db, func(dbc dbctx.Context) error {
		c, err := cs.repos.Categories.GetByID(dbc, id)
		if err != nil {
			return wrap("get category", err)
		}
		if c == nil {
			return apierr.NotFound("category not found")
		}
		updates := map[string]any{}
		if in.Title != nil {
			title, err := requireText(*in.Title, "Category title")
			if err != nil {
				return err
			}
			if title != c.Title {
				taken, err := cs.repos.Categories.GetByTitle(dbc, title)
				if err != nil {
					return wrap("get category", err)
				}
				if taken != nil {
					return apierr.Duplicated("Category title must be unique.")
				}
				updates["title"] = title
			}
		}
		if in.Tags != nil {
			updates["tags"] = datatypes.JSONSlice[string](dedupeStrings(in.Tags))
		}
		if err := cs.repos.Categories.UpdateFields(dbc, id, updates); err != nil {
			return wrap("update category", err)
		}
		out, err = cs.repos.Categories.GetByID(dbc, id)
		return wrap("reload category", err)
	})
	if err != nil {
		return nil, err
	}
	cs.catalog.Invalidate(ctx)
	return out, nil
}

func (cs *categoryService) ListCategories(ctx context.Context) ([]*types.Category, error) {
	out, err := cs.repos.Categories.List(dbctx.New(ctx))
	if err != nil {
		return nil, wrap("list categories", err)
	}
	return out, nil
}

type LanguageService interface {
	// AddLanguage stores flag under the flag bucket when it is non-empty.
	AddLanguage(ctx context.Context, name string, flag *UploadFile) (*types.Language, error)
	ListLanguages(ctx context.Context) ([]*types.Language, error)
}

type languageService struct {
	log   *logger.Logger
	repos repos.Set
	media MediaService
}

func NewLanguageService(log *logger.Logger, rs repos.Set, media MediaService) LanguageService {
	return &languageService{
		log:   log.With("service", "LanguageService"),
		repos: rs,
		media: media,
	}
}

func (ls *languageService) AddLanguage(ctx context.Context, name string, flag *UploadFile) (*types.Language, error) {
	name, err := requireText(name, "Language name")
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	existing, err := ls.repos.Languages.GetByName(dbc, name)
	if err != nil {
		return nil, wrap("get language", err)
	}
	if existing != nil {
		return nil, apierr.Duplicated("Language name must be unique.")
	}

	l := &types.Language{Name: name}
	if flag != nil && len(flag.Data) > 0 {
		m, err := ls.media.Upload(ctx, gcp.BucketCategoryFlag, "language_flag", *flag)
		if err != nil {
			return nil, err
		}
		l.Flag = m
	}
	if err := ls.repos.Languages.Create(dbc, l); err != nil {
		ls.media.Delete(ctx, gcp.BucketCategoryFlag, l.Flag)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Duplicated("Language name must be unique.")
		}
		return nil, wrap("create language", err)
	}
	return l, nil
}

func (ls *languageService) ListLanguages(ctx context.Context) ([]*types.Language, error) {
	out, err := ls.repos.Languages.List(dbctx.New(ctx))
	if err != nil {
		return nil, wrap("list languages", err)
	}
	return out, nil
}
