package models

import "gorm.io/gorm"

// User represents a reader account. Registration and token issuance live in
// the auth layer; the relationship and shelf subsystems only rely on the ID
// being stable and totally ordered.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}
