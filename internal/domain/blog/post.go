package blog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

const defaultAuthor = "Admin"

// Post is a published blog article.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Excerpt   string    `json:"excerpt"`
	Image     string    `json:"image"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost validates and creates a Post authored by the default author.
func NewPost(title, content, category, excerpt, image string) (*Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("content is required")
	}
	if strings.TrimSpace(category) == "" {
		return nil, domain.NewValidationError("category is required")
	}
	return &Post{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		Category:  strings.TrimSpace(category),
		Excerpt:   excerpt,
		Image:     image,
		Author:    defaultAuthor,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// PostRepository defines persistence operations for blog posts.
type PostRepository interface {
	// List returns posts newest first, optionally restricted to category.
	List(ctx context.Context, category string) ([]*Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	Save(ctx context.Context, p *Post) error
}
