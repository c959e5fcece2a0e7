package models

import "gorm.io/gorm"

// UserStatistics is a fully derived per-user aggregate. It is only ever
// written by a complete recompute pass that overwrites all four fields;
// nothing increments it in place.
type UserStatistics struct {
	gorm.Model
	UserID           uint  `gorm:"not null;uniqueIndex"`
	Read             int64 `gorm:"not null;default:0"`
	InProgress       int64 `gorm:"not null;default:0"`
	WantToRead       int64 `gorm:"not null;default:0"`
	FavouriteGenreID *uint

	User           User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FavouriteGenre *Genre `gorm:"foreignKey:FavouriteGenreID;constraint:OnDelete:SET NULL;"`
}
