package models

import "gorm.io/gorm"

// ShelfType identifies one of the three system shelves. Custom shelves have
// no type (NULL in the store).
type ShelfType string

const (
	ShelfWantToRead       ShelfType = "want_to_read"
	ShelfCurrentlyReading ShelfType = "currently_reading"
	ShelfRead             ShelfType = "read"
)

// DefaultShelfLabels maps each shelf type to its forced display name.
var DefaultShelfLabels = map[ShelfType]string{
	ShelfWantToRead:       "Want to Read",
	ShelfCurrentlyReading: "Currently Reading",
	ShelfRead:             "Read",
}

// DefaultShelfTypes lists the types provisioned for every new user, in
// creation order.
var DefaultShelfTypes = []ShelfType{ShelfWantToRead, ShelfCurrentlyReading, ShelfRead}

// Shelf is a named partition of a user's books. Exactly one default shelf
// exists per (user, type); the partial unique index makes a concurrent
// second default of the same type lose at the store. NameKey holds the
// lowercased name so the per-user name uniqueness is case-insensitive.
type Shelf struct {
	gorm.Model
	UserID    uint       `gorm:"not null;index;uniqueIndex:uniq_shelf_name;uniqueIndex:uniq_default_shelf,where:is_default"`
	Name      string     `gorm:"size:30;not null"`
	NameKey   string     `gorm:"size:30;not null;uniqueIndex:uniq_shelf_name"`
	IsDefault bool       `gorm:"not null;default:false"`
	ShelfType *ShelfType `gorm:"type:varchar(20);uniqueIndex:uniq_default_shelf,where:is_default"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ShelfBook is one book's membership on one shelf. The composite primary
// key is the duplicate-add guard under concurrent writers.
type ShelfBook struct {
	ShelfID uint `gorm:"primaryKey"`
	BookID  uint `gorm:"primaryKey"`

	Shelf Shelf `gorm:"foreignKey:ShelfID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Book  Book  `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
