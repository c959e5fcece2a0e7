package models

import "gorm.io/gorm"

// Follow is a directed edge; (A follows B) and (B follows A) are
// independent rows. At most one row per ordered pair.
type Follow struct {
	gorm.Model
	FollowerID uint `gorm:"not null;uniqueIndex:uniq_follow_pair"`
	FolloweeID uint `gorm:"not null;uniqueIndex:uniq_follow_pair"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Followee User `gorm:"foreignKey:FolloweeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
