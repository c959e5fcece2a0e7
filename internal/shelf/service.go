// Package shelf owns the per-user shelf partition: the three immutable
// default shelves provisioned at user creation, custom shelves with
// case-insensitively unique names, and book membership.
package shelf

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"readmates/backend/internal/apperr"
	"readmates/backend/internal/events"
	"readmates/backend/internal/models"
)

var (
	ErrShelfNotFound      = apperr.NotFound("shelf not found")
	ErrBookNotFound       = apperr.NotFound("book not found")
	ErrNameRequired       = apperr.Validation("shelf name is required")
	ErrNameTooLong        = apperr.Validation("shelf name must be at most 30 characters")
	ErrDuplicateName      = apperr.Conflict("you already have a shelf with this name")
	ErrDefaultImmutable   = apperr.Validation("default shelves cannot be renamed")
	ErrDefaultUndeletable = apperr.Validation("default shelves cannot be deleted")
	ErrDuplicateDefault   = apperr.Conflict("a default shelf of this type already exists")
	ErrBookAlreadyOnShelf = apperr.Conflict("this book is already on the shelf")
	ErrBookNotOnShelf     = apperr.Validation("book not in shelf")
)

// Service enforces the shelf invariants and emits shelf-mutation events.
type Service struct {
	db  *gorm.DB
	bus *events.Bus
	log *logrus.Logger
}

// NewService creates a shelf service publishing on bus.
func NewService(db *gorm.DB, bus *events.Bus, log *logrus.Logger) *Service {
	return &Service{db: db, bus: bus, log: log}
}

// Register subscribes default-shelf provisioning to user creation.
func (s *Service) Register(bus *events.Bus) {
	bus.Subscribe(events.UserCreated, func(tx *gorm.DB, ev events.Event) error {
		return ProvisionDefaults(tx, ev.UserID)
	})
}

// ProvisionDefaults creates the three default shelves for a new user, one
// per shelf type, named with the canonical labels. Runs inside the user
// creation transaction; the partial unique index on (user, type) over
// defaults makes a duplicate provisioning attempt fail rather than
// double-create.
func ProvisionDefaults(tx *gorm.DB, userID uint) error {
	for _, shelfType := range models.DefaultShelfTypes {
		st := shelfType
		label := models.DefaultShelfLabels[st]
		shelf := models.Shelf{
			UserID:    userID,
			Name:      label,
			NameKey:   strings.ToLower(label),
			IsDefault: true,
			ShelfType: &st,
		}
		if err := tx.Create(&shelf).Error; err != nil {
			return apperr.FromDB(err, ErrDuplicateDefault)
		}
	}
	return nil
}

// CreateCustom creates a custom (untyped, deletable) shelf. The name must
// not collide case-insensitively with any of the user's shelves; the
// unique index on (user, name_key) resolves concurrent duplicates.
func (s *Service) CreateCustom(userID uint, name string) (*models.Shelf, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	shelf := models.Shelf{
		UserID:  userID,
		Name:    name,
		NameKey: strings.ToLower(name),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shelf).Error; err != nil {
			return apperr.FromDB(err, ErrDuplicateName)
		}
		return s.bus.Publish(tx, events.Event{Type: events.ShelfCreated, UserID: userID})
	})
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// Rename changes a custom shelf's name. Default shelves keep their
// canonical label unconditionally.
func (s *Service) Rename(userID, shelfID uint, name string) (*models.Shelf, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var shelf models.Shelf
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := loadOwned(tx, userID, shelfID, &shelf); err != nil {
			return err
		}
		if shelf.IsDefault {
			return ErrDefaultImmutable
		}

		res := tx.Model(&shelf).Updates(map[string]any{
			"name":     name,
			"name_key": strings.ToLower(name),
		})
		return apperr.FromDB(res.Error, ErrDuplicateName)
	})
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// Delete removes a custom shelf and its memberships. Default shelves are
// never deletable. The shelf row is deleted unscoped: a tombstone would
// keep its slot in the name uniqueness index and burn the name forever.
func (s *Service) Delete(userID, shelfID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var shelf models.Shelf
		if err := loadOwned(tx, userID, shelfID, &shelf); err != nil {
			return err
		}
		if shelf.IsDefault {
			return ErrDefaultUndeletable
		}

		if err := tx.Where("shelf_id = ?", shelfID).Delete(&models.ShelfBook{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&shelf).Error; err != nil {
			return err
		}
		return s.bus.Publish(tx, events.Event{Type: events.ShelfDeleted, UserID: userID})
	})
}

// AddBook puts a book on a shelf owned by the caller. A duplicate add is
// rejected; under concurrent adds the composite primary key on the
// membership row makes the loser observe the same error.
func (s *Service) AddBook(userID, shelfID, bookID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var shelf models.Shelf
		if err := loadOwned(tx, userID, shelfID, &shelf); err != nil {
			return err
		}

		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.ShelfBook{}).
			Where("shelf_id = ? AND book_id = ?", shelfID, bookID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBookAlreadyOnShelf
		}

		membership := models.ShelfBook{ShelfID: shelfID, BookID: bookID}
		if err := tx.Create(&membership).Error; err != nil {
			return apperr.FromDB(err, ErrBookAlreadyOnShelf)
		}
		return s.bus.Publish(tx, events.Event{Type: events.ShelfBooksChanged, UserID: userID})
	})
}

// RemoveBook takes a book off a shelf. Removing an absent book is an error.
func (s *Service) RemoveBook(userID, shelfID, bookID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var shelf models.Shelf
		if err := loadOwned(tx, userID, shelfID, &shelf); err != nil {
			return err
		}

		res := tx.Where("shelf_id = ? AND book_id = ?", shelfID, bookID).
			Delete(&models.ShelfBook{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookNotOnShelf
		}
		return s.bus.Publish(tx, events.Event{Type: events.ShelfBooksChanged, UserID: userID})
	})
}

// ListShelves returns all shelves owned by the user, defaults first.
func (s *Service) ListShelves(userID uint) ([]models.Shelf, error) {
	var shelves []models.Shelf
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, name ASC").
		Find(&shelves).Error
	return shelves, err
}

// ListBooks returns the books on a shelf owned by the caller.
func (s *Service) ListBooks(userID, shelfID uint) ([]models.Book, error) {
	var shelf models.Shelf
	if err := loadOwned(s.db, userID, shelfID, &shelf); err != nil {
		return nil, err
	}

	var books []models.Book
	err := s.db.
		Joins("JOIN shelf_books ON shelf_books.book_id = books.id").
		Where("shelf_books.shelf_id = ?", shelfID).
		Preload("Genres").
		Find(&books).Error
	return books, err
}

func loadOwned(tx *gorm.DB, userID, shelfID uint, out *models.Shelf) error {
	err := tx.Where("id = ? AND user_id = ?", shelfID, userID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrShelfNotFound
	}
	return err
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 30 {
		return ErrNameTooLong
	}
	return nil
}
