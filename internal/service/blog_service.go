package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "inkwell/internal/errors"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

const blogListCacheTTL = time.Minute

// BlogInput is the full set of fields for a new post.
type BlogInput struct {
	Title    string
	Content  string
	Category string
	Image    string
}

// BlogUpdate carries optional fields; empty means untouched.
type BlogUpdate struct {
	Title    string
	Content  string
	Category string
	Image    string
}

// BlogService handles blog operations.
type BlogService interface {
	Create(ctx context.Context, author *model.User, in BlogInput) (*model.Blog, error)
	List(ctx context.Context, category string) ([]model.Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	Update(ctx context.Context, user *model.User, id uuid.UUID, in BlogUpdate) (*model.Blog, error)
	Delete(ctx context.Context, user *model.User, id uuid.UUID) error
	ToggleLike(ctx context.Context, user *model.User, id uuid.UUID) (*model.Blog, error)
}

// ListCache is the subset of the cache client the blog service uses for the
// list read-through. *cache.Client satisfies it.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type blogService struct {
	blogs repository.BlogRepository
	cache ListCache
}

// NewBlogService creates a new blog service.
func NewBlogService(blogs repository.BlogRepository, cache ListCache) BlogService {
	return &blogService{blogs: blogs, cache: cache}
}

func listCacheKey(category string) string {
	if category == "" {
		return "blogs:all"
	}
	return "blogs:" + category
}

// Create stores a new post. The author is always the authenticated user,
// never taken from the request body.
func (s *blogService) Create(ctx context.Context, author *model.User, in BlogInput) (*model.Blog, error) {
	if !model.ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, in.Category)
	}

	authorID := author.ID
	blog := &model.Blog{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Image:    in.Image,
		AuthorID: &authorID,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	s.invalidateLists(ctx, blog.Category)
	return blog, nil
}

// List returns posts newest first, optionally filtered by category, served
// through a short-lived cache.
func (s *blogService) List(ctx context.Context, category string) ([]model.Blog, error) {
	key := listCacheKey(category)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Blog
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	blogs, err := s.blogs.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	if payload, err := json.Marshal(blogs); err == nil {
		_ = s.cache.Set(ctx, key, payload, blogListCacheTTL)
	}
	return blogs, nil
}

// GetByID bumps the view counter and returns the fresh record.
func (s *blogService) GetByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	blog, err := s.blogs.IncrementViews(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return blog, nil
}

// Update applies the provided fields only, gated by the ownership check.
func (s *blogService) Update(ctx context.Context, user *model.User, id uuid.UUID, in BlogUpdate) (*model.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, fmt.Errorf("load blog: %w", err)
	}

	if err := checkOwnership(blog.AuthorID, user.ID); err != nil {
		return nil, err
	}

	// A category change moves the post between cached lists; both must go.
	prevCategory := blog.Category

	if in.Title != "" {
		blog.Title = in.Title
	}
	if in.Content != "" {
		blog.Content = in.Content
	}
	if in.Category != "" {
		if !model.ValidCategory(in.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, in.Category)
		}
		blog.Category = in.Category
	}
	if in.Image != "" {
		blog.Image = in.Image
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}

	s.invalidateLists(ctx, prevCategory, blog.Category)
	return blog, nil
}

// Delete removes a post, gated by the ownership check.
func (s *blogService) Delete(ctx context.Context, user *model.User, id uuid.UUID) error {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBlogNotFound
		}
		return fmt.Errorf("load blog: %w", err)
	}

	if err := checkOwnership(blog.AuthorID, user.ID); err != nil {
		return err
	}

	if err := s.blogs.Delete(ctx, blog); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	s.invalidateLists(ctx, blog.Category)
	return nil
}

// ToggleLike flips the user's like and returns the post with the new count.
func (s *blogService) ToggleLike(ctx context.Context, user *model.User, id uuid.UUID) (*model.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, fmt.Errorf("load blog: %w", err)
	}

	likes, err := s.blogs.ToggleLike(ctx, blog.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	blog.Likes = likes

	s.invalidateLists(ctx, blog.Category)
	return blog, nil
}

func (s *blogService) invalidateLists(ctx context.Context, categories ...string) {
	_ = s.cache.Delete(ctx, listCacheKey(""))
	seen := map[string]bool{}
	for _, category := range categories {
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		_ = s.cache.Delete(ctx, listCacheKey(category))
	}
}
