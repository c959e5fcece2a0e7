// Package events is the in-process event bus connecting mutation points to
// the statistics recompute engine and the notification dispatcher.
//
// Dispatch is explicit, synchronous and ordered: Publish invokes handlers
// in registration order, on the caller's goroutine, inside the caller's
// transaction. A handler error aborts the publishing transaction, so
// derived state is never committed out of step with the mutation that
// triggered it.
package events

import "gorm.io/gorm"

// Type names a domain event.
type Type string

const (
	// UserCreated fires when the auth collaborator creates a user, inside
	// the creation transaction. Subscribers provision default shelves and
	// the statistics row.
	UserCreated Type = "user.created"

	ShelfCreated      Type = "shelf.created"
	ShelfDeleted      Type = "shelf.deleted"
	ShelfBooksChanged Type = "shelf.books_changed"

	FriendRequestReceived Type = "friend_request.received"

	ReviewLiked     Type = "review.liked"
	ReviewCommented Type = "review.commented"
)

// Event is a domain occurrence. UserID is the user whose derived state the
// event concerns: the shelf owner for shelf events, the recipient for
// social events.
type Event struct {
	Type    Type
	UserID  uint
	Payload any
}

// Handler consumes an event inside the publishing transaction.
type Handler func(tx *gorm.DB, ev Event) error

// Bus dispatches events to subscribed handlers. Subscription happens once
// at startup; Publish may be called concurrently afterwards.
type Bus struct {
	handlers map[Type][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for an event type. Handlers run in
// registration order. Not safe for use concurrently with Publish.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish invokes every handler for the event, in order, passing the
// caller's transaction. The first handler error stops dispatch and is
// returned so the caller can roll back.
func (b *Bus) Publish(tx *gorm.DB, ev Event) error {
	for _, h := range b.handlers[ev.Type] {
		if err := h(tx, ev); err != nil {
			return err
		}
	}
	return nil
}
