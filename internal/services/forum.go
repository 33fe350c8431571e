package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const maxConcurrentUploads = 4

type PostInput struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
	Images   []UploadFile
	Videos   []UploadFile
}

// PostPatch leaves nil fields untouched. Non-empty media lists replace the
// stored ones.
type PostPatch struct {
	Title   *string
	Content *string
	Images  []UploadFile
	Videos  []UploadFile
}

type CommentInput struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	Content  string
	Images   []UploadFile
	Videos   []UploadFile
}

type CommentPatch struct {
	Content *string
	Images  []UploadFile
	Videos  []UploadFile
}

type Pagination struct {
	TotalPosts  int64 `json:"totalPosts"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

type PostPage struct {
	Posts      []*types.Post `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

type PostWithComments struct {
	*types.Post
	Comments []*types.Comment `json:"comments"`
}

type ForumService interface {
	CreatePost(ctx context.Context, in PostInput) (*types.Post, error)
	ListPosts(ctx context.Context, page, limit int) (*PostPage, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*PostWithComments, error)
	UpdatePost(ctx context.Context, actorID, postID uuid.UUID, patch PostPatch) (*types.Post, error)
	DeletePost(ctx context.Context, actorID, postID uuid.UUID) error

	CreateComment(ctx context.Context, in CommentInput) (*types.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*types.Comment, error)
	UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, patch CommentPatch) (*types.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
}

type forumService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	media MediaService
}

func NewForumService(db *gorm.DB, log *logger.Logger, rs repos.Set, media MediaService) ForumService {
	return &forumService{
		db:    db,
		log:   log.With("service", "ForumService"),
		repos: rs,
		media: media,
	}
}

type uploaded struct {
	images []types.Media
	videos []types.Media
}

func (u uploaded) all() []types.Media {
	return append(append([]types.Media{}, u.images...), u.videos...)
}

// upload stores every file concurrently and keeps input order. On failure the
// objects already stored are removed.
func (fs *forumService) upload(ctx context.Context, images, videos []UploadFile) (uploaded, error) {
	out := uploaded{
		images: make([]types.Media, len(images)),
		videos: make([]types.Media, len(videos)),
	}
	if len(images)+len(videos) == 0 {
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for i, f := range images {
		g.Go(func() error {
			m, err := fs.media.Upload(gctx, gcp.BucketCategoryForum, "forum_image", f)
			out.images[i] = m
			return err
		})
	}
	for i, f := range videos {
		g.Go(func() error {
			m, err := fs.media.Upload(gctx, gcp.BucketCategoryForum, "forum_video", f)
			out.videos[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fs.media.Delete(ctx, gcp.BucketCategoryForum, out.all()...)
		return uploaded{}, err
	}
	return out, nil
}

func (fs *forumService) requireAuthor(dbc dbctx.Context, authorID uuid.UUID) error {
	if err := requireID(authorID, "author"); err != nil {
		return err
	}
	u, err := fs.repos.Users.GetByID(dbc, authorID)
	if err != nil {
		return wrap("get author", err)
	}
	if u == nil {
		return apierr.NotFound("author not found")
	}
	return nil
}

func (fs *forumService) CreatePost(ctx context.Context, in PostInput) (*types.Post, error) {
	title, err := requireText(in.Title, "title")
	if err != nil {
		return nil, err
	}
	content, err := requireText(in.Content, "content")
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if err := fs.requireAuthor(dbc, in.AuthorID); err != nil {
		return nil, err
	}
	files, err := fs.upload(ctx, in.Images, in.Videos)
	if err != nil {
		return nil, err
	}
	p := &types.Post{
		AuthorID: in.AuthorID,
		Title:    title,
		Content:  content,
		Images:   datatypes.JSONSlice[types.Media](files.images),
		Videos:   datatypes.JSONSlice[types.Media](files.videos),
	}
	if err := fs.repos.Posts.Create(dbc, p); err != nil {
		fs.media.Delete(ctx, gcp.BucketCategoryForum, files.all()...)
		return nil, wrap("create post", err)
	}
	return p, nil
}

func (fs *forumService) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	page, limit = normalizePage(page, limit)
	posts, total, err := fs.repos.Posts.List(dbctx.New(ctx), (page-1)*limit, limit)
	if err != nil {
		return nil, wrap("list posts", err)
	}
	return &PostPage{
		Posts: posts,
		Pagination: Pagination{
			TotalPosts:  total,
			TotalPages:  totalPages(total, limit),
			CurrentPage: page,
			PageSize:    limit,
		},
	}, nil
}

func (fs *forumService) GetPost(ctx context.Context, postID uuid.UUID) (*PostWithComments, error) {
	if err := requireID(postID, "postId"); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	p, err := fs.repos.Posts.GetByID(dbc, postID)
	if err != nil {
		return nil, wrap("get post", err)
	}
	if p == nil {
		return nil, apierr.NotFound("Post not found")
	}
	comments, err := fs.repos.Comments.ListByPost(dbc, postID)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	return &PostWithComments{Post: p, Comments: comments}, nil
}

func (fs *forumService) UpdatePost(ctx context.Context, actorID, postID uuid.UUID, patch PostPatch) (*types.Post, error) {
	if err := requireID(postID, "postId"); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	p, err := fs.repos.Posts.GetByID(dbc, postID)
	if err != nil {
		return nil, wrap("get post", err)
	}
	if p == nil {
		return nil, apierr.NotFound("Post not found")
	}
	if p.AuthorID != actorID {
		return nil, apierr.NotPermit("only the author can edit this post")
	}

	updates := map[string]any{}
	if patch.Title != nil {
		title, err := requireText(*patch.Title, "title")
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if patch.Content != nil {
		content, err := requireText(*patch.Content, "content")
		if err != nil {
			return nil, err
		}
		updates["content"] = content
	}
	files, err := fs.upload(ctx, patch.Images, patch.Videos)
	if err != nil {
		return nil, err
	}
	var stale []types.Media
	if len(files.images) > 0 {
		updates["images"] = datatypes.JSONSlice[types.Media](files.images)
		stale = append(stale, p.Images...)
	}
	if len(files.videos) > 0 {
		updates["videos"] = datatypes.JSONSlice[types.Media](files.videos)
		stale = append(stale, p.Videos...)
	}
	if err := fs.repos.Posts.UpdateFields(dbc, postID, updates); err != nil {
		fs.media.Delete(ctx, gcp.BucketCategoryForum, files.all()...)
		return nil, wrap("update post", err)
	}
	fs.media.Delete(ctx, gcp.BucketCategoryForum, stale...)

	out, err := fs.repos.Posts.GetByID(dbc, postID)
	if err != nil {
		return nil, wrap("reload post", err)
	}
	return out, nil
}

// DeletePost removes the post, then its comments. The steps are not
// transactional; a failure after the first leaves orphaned comments.
func (fs *forumService) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	if err := requireID(postID, "postId"); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	p, err := fs.repos.Posts.GetByID(dbc, postID)
	if err != nil {
		return wrap("get post", err)
	}
	if p == nil {
		return apierr.NotFound("Post not found")
	}
	if p.AuthorID != actorID {
		return apierr.NotPermit("only the author can delete this post")
	}
	if _, err := fs.repos.Posts.Delete(dbc, postID); err != nil {
		return wrap("delete post", err)
	}
	comments, err := fs.repos.Comments.DeleteByPost(dbc, postID)
	if err != nil {
		return wrap("delete comments", err)
	}

	media := append(append([]types.Media{}, p.Images...), p.Videos...)
	for _, c := range comments {
		media = append(media, c.Images...)
		media = append(media, c.Videos...)
	}
	fs.media.Delete(ctx, gcp.BucketCategoryForum, media...)
	fs.log.Info("post deleted", "post_id", postID, "comments", len(comments))
	return nil
}

func (fs *forumService) CreateComment(ctx context.Context, in CommentInput) (*types.Comment, error) {
	if err := requireID(in.PostID, "postId"); err != nil {
		return nil, err
	}
	content, err := requireText(in.Content, "content")
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if err := fs.requireAuthor(dbc, in.AuthorID); err != nil {
		return nil, err
	}
	p, err := fs.repos.Posts.GetByID(dbc, in.PostID)
	if err != nil {
		return nil, wrap("get post", err)
	}
	if p == nil {
		return nil, apierr.NotFound("Post not found")
	}
	files, err := fs.upload(ctx, in.Images, in.Videos)
	if err != nil {
		return nil, err
	}
	c := &types.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  content,
		Images:   datatypes.JSONSlice[types.Media](files.images),
		Videos:   datatypes.JSONSlice[types.Media](files.videos),
	}
	if err := fs.repos.Comments.Create(dbc, c); err != nil {
		fs.media.Delete(ctx, gcp.BucketCategoryForum, files.all()...)
		return nil, wrap("create comment", err)
	}
	return c, nil
}

func (fs *forumService) ListComments(ctx context.Context, postID uuid.UUID) ([]*types.Comment, error) {
	if err := requireID(postID, "postId"); err != nil {
		return nil, err
	}
	out, err := fs.repos.Comments.ListByPost(dbctx.New(ctx), postID)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	return out, nil
}

func (fs *forumService) ownComment(dbc dbctx.Context, actorID, commentID uuid.UUID) (*types.Comment, error) {
	if err := requireID(commentID, "commentId"); err != nil {
		return nil, err
	}
	c, err := fs.repos.Comments.GetByID(dbc, commentID)
	if err != nil {
		return nil, wrap("get comment", err)
	}
	if c == nil {
		return nil, apierr.NotFound("Comment not found")
	}
	if c.AuthorID != actorID {
		return nil, apierr.NotPermit("only the author can change this comment")
	}
	return c, nil
}

func (fs *forumService) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, patch CommentPatch) (*types.Comment, error) {
	dbc := dbctx.New(ctx)
	c, err := fs.ownComment(dbc, actorID, commentID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.Content != nil {
		content, err := requireText(*patch.Content, "content")
		if err != nil {
			return nil, err
		}
		updates["content"] = content
	}
	files, err := fs.upload(ctx, patch.Images, patch.Videos)
	if err != nil {
		return nil, err
	}
	var stale []types.Media
	if len(files.images) > 0 {
		updates["images"] = datatypes.JSONSlice[types.Media](files.images)
		stale = append(stale, c.Images...)
	}
	if len(files.videos) > 0 {
		updates["videos"] = datatypes.JSONSlice[types.Media](files.videos)
		stale = append(stale, c.Videos...)
	}
	if err := fs.repos.Comments.UpdateFields(dbc, commentID, updates); err != nil {
		fs.media.Delete(ctx, gcp.BucketCategoryForum, files.all()...)
		return nil, wrap("update comment", err)
	}
	fs.media.Delete(ctx, gcp.BucketCategoryForum, stale...)

	out, err := fs.repos.Comments.GetByID(dbc, commentID)
	if err != nil {
		return nil, wrap("reload comment", err)
	}
	return out, nil
}

func (fs *forumService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	dbc := dbctx.New(ctx)
	c, err := fs.ownComment(dbc, actorID, commentID)
	if err != nil {
		return err
	}
	if _, err := fs.repos.Comments.Delete(dbc, commentID); err != nil {
		return wrap("delete comment", err)
	}
	fs.media.Delete(ctx, gcp.BucketCategoryForum, append(append([]types.Media{}, c.Images...), c.Videos...)...)
	return nil
}
