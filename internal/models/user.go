package models

import (
	"strings"
	"time"
)

// User is an account identified by its normalised email.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialised
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	IsActive    bool      `json:"-" gorm:"not null;default:true"`
	IsStaff     bool      `json:"-" gorm:"not null;default:false"`
	IsSuperuser bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (u User) String() string {
	return u.Email
}

// NormalizeEmail lower-cases the domain part of an email address and leaves
// the local part untouched. Addresses without an "@" are returned as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
