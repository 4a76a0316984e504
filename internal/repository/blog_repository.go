package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/internal/model"
)

// BlogRepository defines blog persistence operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	List(ctx context.Context, category string) ([]model.Blog, error)
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, blog *model.Blog) error
	IncrementViews(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (likes int64, err error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns blogs newest first, optionally filtered by category.
func (r *blogRepository) List(ctx context.Context, category string) ([]model.Blog, error) {
	var blogs []model.Blog
	q := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Save(blog).Error
}

func (r *blogRepository) Delete(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Delete(blog).Error
}

// IncrementViews atomically bumps the view counter and returns the fresh record.
func (r *blogRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	res := r.db.WithContext(ctx).Model(&model.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// ToggleLike flips the user's like row for the blog and recounts likes, all
// within one transaction so the counter stays consistent with the rows.
func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (int64, error) {
	var likes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BlogLike
		err := tx.Where("blog_id = ? AND user_id = ?", blogID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			like := model.BlogLike{BlogID: blogID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := tx.Model(&model.BlogLike{}).Where("blog_id = ?", blogID).Count(&likes).Error; err != nil {
			return err
		}
		return tx.Model(&model.Blog{}).Where("id = ?", blogID).UpdateColumn("likes", likes).Error
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}
