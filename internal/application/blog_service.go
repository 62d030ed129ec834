package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	blogDomain "github.com/outdoor-rental/service-rental/internal/domain/blog"
)

// CreatePostRequest is the admin body for publishing a post.
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
	Excerpt  string `json:"excerpt"`
	Image    string `json:"image"`
}

// BlogService implements blog use cases.
type BlogService struct {
	repo   blogDomain.PostRepository
	logger *zap.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo blogDomain.PostRepository, logger *zap.Logger) *BlogService {
	return &BlogService{repo: repo, logger: logger}
}

// ListPosts returns posts newest first, optionally restricted to category.
func (s *BlogService) ListPosts(ctx context.Context, category string) ([]*blogDomain.Post, error) {
	posts, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*blogDomain.Post{}
	}
	return posts, nil
}

// GetPost returns one post.
func (s *BlogService) GetPost(ctx context.Context, rawID string) (*blogDomain.Post, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.NewNotFoundError("Blog post", rawID)
	}
	return s.repo.FindByID(ctx, id)
}

// CreatePost publishes a post (admin).
func (s *BlogService) CreatePost(ctx context.Context, req CreatePostRequest) (*blogDomain.Post, error) {
	post, err := blogDomain.NewPost(req.Title, req.Content, req.Category, req.Excerpt, req.Image)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}
	s.logger.Info("blog post created", zap.String("post_id", post.ID.String()))
	return post, nil
}
