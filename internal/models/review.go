package models

import "gorm.io/gorm"

// Review is a user's review of a book. Reviews are owned by an external
// collaborator; they appear here because like/comment events reference them
// and the notification recipient is the review's author.
type Review struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"`
	BookID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Book Book `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
