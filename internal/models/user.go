package models

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a channel owner and viewer. Username and email are stored
// trimmed and lowercased so uniqueness is case-insensitive.
type User struct {
	Base
	Username     string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FullName     string `gorm:"size:100;not null" json:"fullName"`
	Avatar       string `gorm:"not null" json:"avatar"`
	AvatarID     string `gorm:"size:255" json:"-"`
	CoverImage   string `json:"coverImage"`
	CoverImageID string `gorm:"size:255" json:"-"`
	Password     string `gorm:"not null" json:"-"`
	RefreshToken string `json:"-"`

	// NewPassword is hashed into Password on the next save.
	NewPassword string `gorm:"-" json:"-"`
}

func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = NormalizeHandle(u.Username)
	u.Email = NormalizeHandle(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)

	if u.NewPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)
	u.NewPassword = ""
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
