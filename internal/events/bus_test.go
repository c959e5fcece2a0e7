package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPublishInvokesHandlersInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(ShelfBooksChanged, func(tx *gorm.DB, ev Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe(ShelfBooksChanged, func(tx *gorm.DB, ev Event) error {
		order = append(order, "second")
		return nil
	})

	err := bus.Publish(nil, Event{Type: ShelfBooksChanged, UserID: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestPublishStopsOnHandlerError(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")

	var secondRan bool
	bus.Subscribe(ShelfCreated, func(tx *gorm.DB, ev Event) error {
		return boom
	})
	bus.Subscribe(ShelfCreated, func(tx *gorm.DB, ev Event) error {
		secondRan = true
		return nil
	})

	err := bus.Publish(nil, Event{Type: ShelfCreated, UserID: 1})
	require.ErrorIs(t, err, boom)
	require.False(t, secondRan, "handlers after a failure must not run")
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewBus()
	require.NoError(t, bus.Publish(nil, Event{Type: ReviewLiked, UserID: 42}))
}
