package models

import "gorm.io/gorm"

// Genre is a book category (e.g. "SF", "Fantasy").
type Genre struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
}

// Book represents a catalog entry. The catalog itself (search, filtering,
// authors, publishers) is owned by an external collaborator; shelves and
// statistics only need the book identity and its genres.
type Book struct {
	gorm.Model
	Title    string   `gorm:"size:255;not null"`
	ISBN     string   `gorm:"size:13;unique;not null"`
	Language string   `gorm:"size:30;not null;default:'English'"`
	Genres   []*Genre `gorm:"many2many:book_genres;"`
}
