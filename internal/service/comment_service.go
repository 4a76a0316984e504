package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "inkwell/internal/errors"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// CommentService handles threaded comments on blog posts.
type CommentService interface {
	Add(ctx context.Context, author *model.User, blogID uuid.UUID, content string, parentID *uuid.UUID) (*model.Comment, error)
	ListByBlog(ctx context.Context, blogID uuid.UUID) ([]model.Comment, error)
	Delete(ctx context.Context, user *model.User, commentID uuid.UUID) error
}

type commentService struct {
	comments repository.CommentRepository
	blogs    repository.BlogRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, blogs repository.BlogRepository) CommentService {
	return &commentService{comments: comments, blogs: blogs}
}

// Add creates a comment, optionally as a reply. The blog must exist and a
// parent comment must belong to the same blog.
func (s *commentService) Add(ctx context.Context, author *model.User, blogID uuid.UUID, content string, parentID *uuid.UUID) (*model.Comment, error) {
	if _, err := s.blogs.FindByID(ctx, blogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, fmt.Errorf("load blog: %w", err)
	}

	if parentID != nil {
		parent, err := s.comments.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCommentNotFound
			}
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if parent.BlogID != blogID {
			return nil, apperrors.ErrCommentNotFound
		}
	}

	authorID := author.ID
	comment := &model.Comment{
		Content:  content,
		BlogID:   blogID,
		AuthorID: &authorID,
		ParentID: parentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]model.Comment, error) {
	comments, err := s.comments.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Delete removes a comment, gated by the ownership check.
func (s *commentService) Delete(ctx context.Context, user *model.User, commentID uuid.UUID) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("load comment: %w", err)
	}

	if err := checkOwnership(comment.AuthorID, user.ID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
