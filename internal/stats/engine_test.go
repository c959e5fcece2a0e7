package stats_test

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"readmates/backend/internal/events"
	"readmates/backend/internal/models"
	"readmates/backend/internal/shelf"
	"readmates/backend/internal/stats"
	"readmates/backend/internal/testdb"
)

type fixture struct {
	db      *gorm.DB
	bus     *events.Bus
	shelves *shelf.Service
	engine  *stats.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	logger := logrus.New()
	bus := events.NewBus()

	shelves := shelf.NewService(db, bus, logger)
	shelves.Register(bus)

	engine := stats.NewEngine(db, logger)
	engine.Register(bus)

	return &fixture{db: db, bus: bus, shelves: shelves, engine: engine}
}

func (f *fixture) createUser(t *testing.T, nickname string) *models.User {
	t.Helper()
	user := models.User{
		Nickname:     nickname,
		Email:        fmt.Sprintf("%s@example.com", nickname),
		PasswordHash: "x",
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return f.bus.Publish(tx, events.Event{Type: events.UserCreated, UserID: user.ID})
	})
	require.NoError(t, err)
	return &user
}

var isbnCounter int

func (f *fixture) createBook(t *testing.T, title string, genres ...*models.Genre) *models.Book {
	t.Helper()
	isbnCounter++
	book := models.Book{
		Title:  title,
		ISBN:   fmt.Sprintf("%013d", isbnCounter),
		Genres: genres,
	}
	require.NoError(t, f.db.Create(&book).Error)
	return &book
}

func (f *fixture) createGenre(t *testing.T, name string) *models.Genre {
	t.Helper()
	genre := models.Genre{Name: name}
	require.NoError(t, f.db.Create(&genre).Error)
	return &genre
}

func (f *fixture) defaultShelf(t *testing.T, userID uint, shelfType models.ShelfType) *models.Shelf {
	t.Helper()
	var s models.Shelf
	err := f.db.Where("user_id = ? AND is_default AND shelf_type = ?", userID, shelfType).
		First(&s).Error
	require.NoError(t, err)
	return &s
}

func TestFreshUserHasZeroedStatistics(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.Zero(t, statistics.Read)
	require.Zero(t, statistics.InProgress)
	require.Zero(t, statistics.WantToRead)
	require.Nil(t, statistics.FavouriteGenreID)
}

func TestCountsFollowDefaultShelves(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	sf := f.createGenre(t, "SF")
	dune := f.createBook(t, "Dune", sf)
	hyperion := f.createBook(t, "Hyperion", sf)

	want := f.defaultShelf(t, user.ID, models.ShelfWantToRead)
	current := f.defaultShelf(t, user.ID, models.ShelfCurrentlyReading)

	require.NoError(t, f.shelves.AddBook(user.ID, want.ID, dune.ID))
	require.NoError(t, f.shelves.AddBook(user.ID, current.ID, hyperion.ID))

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, statistics.Read)
	require.EqualValues(t, 1, statistics.InProgress)
	require.EqualValues(t, 1, statistics.WantToRead)
	// Favourite genre derives from the read shelf only.
	require.Nil(t, statistics.FavouriteGenreID)
}

func TestFavouriteGenreFromReadShelf(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	sf := f.createGenre(t, "SF")
	fantasy := f.createGenre(t, "Fantasy")

	read := f.defaultShelf(t, user.ID, models.ShelfRead)
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, f.createBook(t, "Dune", sf).ID))
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, f.createBook(t, "Hyperion", sf).ID))
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, f.createBook(t, "Mistborn", fantasy).ID))

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, statistics.Read)
	require.NotNil(t, statistics.FavouriteGenre)
	require.Equal(t, "SF", statistics.FavouriteGenre.Name)
}

func TestFavouriteGenreTieBreaksOnLowestID(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	sf := f.createGenre(t, "SF")
	fantasy := f.createGenre(t, "Fantasy")
	require.Less(t, sf.ID, fantasy.ID)

	read := f.defaultShelf(t, user.ID, models.ShelfRead)
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, f.createBook(t, "Dune", sf).ID))
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, f.createBook(t, "Mistborn", fantasy).ID))

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, statistics.FavouriteGenreID)
	require.Equal(t, sf.ID, *statistics.FavouriteGenreID)
}

func TestFavouriteGenreClearsWhenReadShelfEmpties(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	sf := f.createGenre(t, "SF")
	dune := f.createBook(t, "Dune", sf)

	read := f.defaultShelf(t, user.ID, models.ShelfRead)
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, dune.ID))

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, statistics.FavouriteGenreID)

	require.NoError(t, f.shelves.RemoveBook(user.ID, read.ID, dune.ID))

	statistics, err = f.engine.Get(user.ID)
	require.NoError(t, err)
	require.Zero(t, statistics.Read)
	require.Nil(t, statistics.FavouriteGenreID)
}

func TestCustomShelvesDoNotCount(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	sf := f.createGenre(t, "SF")
	dune := f.createBook(t, "Dune", sf)

	custom, err := f.shelves.CreateCustom(user.ID, "Favorites")
	require.NoError(t, err)
	require.NoError(t, f.shelves.AddBook(user.ID, custom.ID, dune.ID))

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.Zero(t, statistics.Read)
	require.Zero(t, statistics.InProgress)
	require.Zero(t, statistics.WantToRead)
	require.Nil(t, statistics.FavouriteGenreID)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice")
	sf := f.createGenre(t, "SF")
	dune := f.createBook(t, "Dune", sf)

	read := f.defaultShelf(t, user.ID, models.ShelfRead)
	require.NoError(t, f.shelves.AddBook(user.ID, read.ID, dune.ID))

	// A redundant full pass replaces the row with identical values and
	// never accumulates.
	require.NoError(t, f.engine.Recalculate(f.db, user.ID))
	require.NoError(t, f.engine.Recalculate(f.db, user.ID))

	statistics, err := f.engine.Get(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, statistics.Read)

	var rows int64
	require.NoError(t, f.db.Model(&models.UserStatistics{}).
		Where("user_id = ?", user.ID).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}
