package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account holder. The stored password is always a bcrypt
// hash; the plaintext never touches this struct.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string    `json:"firstName" gorm:"size:255;not null"`
	LastName     string    `json:"lastName" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate assigns the record id before insert. Id generation belongs to
// the storage layer, not to callers.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the projection of a User that may leave the service. It has
// no password field at all, so no serialization path can leak the hash.
type PublicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Public returns the outward-facing projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
