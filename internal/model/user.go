package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Role is always re-read from the store per request,
// never taken from token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAvatar is used until the user uploads a profile picture.
const DefaultAvatar = "https://www.gravatar.com/avatar/?d=mp"

// User represents a registered author or reader.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:50;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;default:'user'"`
	Avatar       string    `json:"avatar" gorm:"size:512"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID and field defaults before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
	return nil
}
