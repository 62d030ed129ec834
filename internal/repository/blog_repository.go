package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	blogDomain "github.com/outdoor-rental/service-rental/internal/domain/blog"
)

// BlogPostModel is the GORM model for the blog_posts table.
type BlogPostModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"not null;size:255"`
	Content   string    `gorm:"type:text;not null"`
	Category  string    `gorm:"not null;size:100;index"`
	Excerpt   string    `gorm:"type:text"`
	Image     string    `gorm:"type:text"`
	Author    string    `gorm:"not null;size:100"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (BlogPostModel) TableName() string {
	return "blog_posts"
}

// GormBlogRepository is the GORM-based implementation of PostRepository.
type GormBlogRepository struct {
	db *gorm.DB
}

// NewGormBlogRepository creates a new GormBlogRepository.
func NewGormBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// List returns posts newest first, optionally restricted to category.
func (r *GormBlogRepository) List(ctx context.Context, category string) ([]*blogDomain.Post, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var models []BlogPostModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}

	posts := make([]*blogDomain.Post, len(models))
	for i := range models {
		posts[i] = toDomainPost(&models[i])
	}
	return posts, nil
}

// FindByID retrieves a post by ID.
func (r *GormBlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*blogDomain.Post, error) {
	var model BlogPostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Blog post", id.String())
		}
		return nil, fmt.Errorf("failed to find blog post: %w", err)
	}
	return toDomainPost(&model), nil
}

// Save persists a new post.
func (r *GormBlogRepository) Save(ctx context.Context, p *blogDomain.Post) error {
	model := &BlogPostModel{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Excerpt:   p.Excerpt,
		Image:     p.Image,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save blog post: %w", err)
	}
	return nil
}

func toDomainPost(m *BlogPostModel) *blogDomain.Post {
	return &blogDomain.Post{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Category:  m.Category,
		Excerpt:   m.Excerpt,
		Image:     m.Image,
		Author:    m.Author,
		CreatedAt: m.CreatedAt,
	}
}
