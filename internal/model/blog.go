package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogCategories is the closed set of categories a post may carry.
var BlogCategories = []string{
	"Technology", "Design", "Lifestyle", "Education", "Travel", "Food", "Other",
}

// ValidCategory reports whether c is one of BlogCategories.
func ValidCategory(c string) bool {
	for _, known := range BlogCategories {
		if known == c {
			return true
		}
	}
	return false
}

// Blog is a published post. AuthorID is a pointer so that a post whose owner
// reference was lost is representable; ownership checks fail closed on nil.
type Blog struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Content   string     `json:"content" gorm:"type:longtext;not null"`
	Image     string     `json:"image" gorm:"size:512;not null"`
	Category  string     `json:"category" gorm:"size:50;not null;index"`
	AuthorID  *uuid.UUID `json:"author_id" gorm:"type:char(36);index"`
	Author    *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Views     int64      `json:"views" gorm:"default:0"`
	Likes     int64      `json:"likes" gorm:"default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BlogLike records that a user currently likes a blog. One row per pair;
// Blog.Likes is recounted from these rows on every toggle.
type BlogLike struct {
	BlogID    uuid.UUID `json:"blog_id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
