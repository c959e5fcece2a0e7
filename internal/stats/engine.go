// Package stats maintains the denormalized per-user reading statistics.
//
// Counters are never incremented in place: every shelf mutation triggers a
// full recompute that overwrites the whole row, so a missed event can never
// leave the counters drifted. This trades throughput for correctness given
// low expected mutation rates.
package stats

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"readmates/backend/internal/apperr"
	"readmates/backend/internal/events"
	"readmates/backend/internal/models"
)

// Engine recomputes UserStatistics from current shelf state.
type Engine struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewEngine creates a statistics engine.
func NewEngine(db *gorm.DB, log *logrus.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// Register subscribes the engine to every event that can change shelf
// membership, plus user creation for the initial zeroed row.
func (e *Engine) Register(bus *events.Bus) {
	recompute := func(tx *gorm.DB, ev events.Event) error {
		return e.Recalculate(tx, ev.UserID)
	}
	bus.Subscribe(events.UserCreated, recompute)
	bus.Subscribe(events.ShelfCreated, recompute)
	bus.Subscribe(events.ShelfDeleted, recompute)
	bus.Subscribe(events.ShelfBooksChanged, recompute)
}

// Recalculate replaces the user's statistics row from the current state of
// their default shelves. Runs inside the triggering transaction so the
// writer always observes fresh derived state.
func (e *Engine) Recalculate(tx *gorm.DB, userID uint) error {
	counts := make(map[models.ShelfType]int64, len(models.DefaultShelfTypes))
	for _, shelfType := range models.DefaultShelfTypes {
		var count int64
		err := tx.Model(&models.ShelfBook{}).
			Joins("JOIN shelves ON shelves.id = shelf_books.shelf_id").
			Where("shelves.user_id = ? AND shelves.is_default AND shelves.shelf_type = ?", userID, shelfType).
			Count(&count).Error
		if err != nil {
			return err
		}
		counts[shelfType] = count
	}

	favourite, err := favouriteGenre(tx, userID)
	if err != nil {
		return err
	}

	stats := models.UserStatistics{UserID: userID}
	err = tx.Where("user_id = ?", userID).First(&stats).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	stats.Read = counts[models.ShelfRead]
	stats.InProgress = counts[models.ShelfCurrentlyReading]
	stats.WantToRead = counts[models.ShelfWantToRead]
	stats.FavouriteGenreID = favourite

	return tx.Save(&stats).Error
}

// Get returns the user's current statistics with the favourite genre
// preloaded. A user recomputed never (fresh account) still has a zeroed
// row from the user-created event.
func (e *Engine) Get(userID uint) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	err := e.db.Where("user_id = ?", userID).
		Preload("FavouriteGenre").
		First(&stats).Error
	if err != nil {
		return nil, apperr.FromDB(err, nil)
	}
	return &stats, nil
}

// favouriteGenre finds the genre with the most distinct books on the
// user's default "read" shelf, nil when that shelf is empty. Ties break on
// the lowest genre id so the result is deterministic.
func favouriteGenre(tx *gorm.DB, userID uint) (*uint, error) {
	var row struct {
		GenreID uint
	}
	err := tx.Model(&models.ShelfBook{}).
		Select("book_genres.genre_id AS genre_id").
		Joins("JOIN shelves ON shelves.id = shelf_books.shelf_id").
		Joins("JOIN book_genres ON book_genres.book_id = shelf_books.book_id").
		Where("shelves.user_id = ? AND shelves.is_default AND shelves.shelf_type = ?", userID, models.ShelfRead).
		Group("book_genres.genre_id").
		Order("COUNT(DISTINCT shelf_books.book_id) DESC, book_genres.genre_id ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.GenreID == 0 {
		return nil, nil
	}
	return &row.GenreID, nil
}
