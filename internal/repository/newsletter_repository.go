package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/internal/model"
)

// NewsletterRepository defines subscriber persistence operations.
type NewsletterRepository interface {
	// Subscribe upserts the email and reports whether a new row was created.
	Subscribe(ctx context.Context, email string) (created bool, err error)
}

type newsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository creates a new newsletter repository.
func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

// Subscribe inserts the subscriber, ignoring the unique-email conflict so a
// repeat subscribe is idempotent rather than an error.
func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	subscriber := model.NewsletterSubscriber{Email: email}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&subscriber)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
