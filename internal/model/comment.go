package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to a blog and optionally to a parent comment on the same
// blog, forming a thread.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	BlogID    uuid.UUID  `json:"blog_id" gorm:"type:char(36);not null;index"`
	AuthorID  *uuid.UUID `json:"author_id" gorm:"type:char(36);index"`
	Author    *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
