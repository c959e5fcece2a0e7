package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType classifies a durable notification.
type NotificationType string

const (
	NotificationReviewLike    NotificationType = "REVIEW_LIKE"
	NotificationReviewComment NotificationType = "REVIEW_COMMENT"
	NotificationFriendRequest NotificationType = "FRIEND_REQUEST"
)

// Notification is the durable, append-only record of a delivered domain
// event. The live stream is best-effort; reconnecting clients reconcile
// against this log. The only mutation ever applied is mark-as-read.
type Notification struct {
	gorm.Model
	UserID  uint             `gorm:"not null;index:idx_notification_user_read"`
	Type    NotificationType `gorm:"size:20;not null"`
	Message string           `gorm:"not null"`
	Payload datatypes.JSON
	IsRead  bool `gorm:"not null;default:false;index:idx_notification_user_read"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
