package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local record tied to an identity held by the external auth
// provider. UID is the provider-assigned id and the stable join key; it never
// changes after creation. Lookups from the public API go through UID, never ID.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UID       string    `json:"uid" gorm:"uniqueIndex;size:64;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName string    `json:"first_name" gorm:"size:255;not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
