package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes device-only identities from registered accounts.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleRegistered Role = "registered"
)

// User represents a player. Username and email are optional: anonymous users
// carry only a device identifier. Username uniqueness is enforced
// case-insensitively at the service boundary on top of the raw unique index.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username   *string   `gorm:"size:255;uniqueIndex"`
	Email      *string   `gorm:"size:255;uniqueIndex"`
	DeviceID   *string   `gorm:"size:255;uniqueIndex"`
	Role       Role      `gorm:"type:varchar(20);not null;default:'anonymous'"`
	LastSeenAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
