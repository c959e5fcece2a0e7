package models

import "gorm.io/gorm"

// RequestStatus is the lifecycle state of a friendship request.
type RequestStatus string

const (
	// RequestPending is the only non-terminal state.
	RequestPending RequestStatus = "pending"

	// RequestAccepted means the recipient accepted and a Friendship was
	// created. The request row is kept as an audit record.
	RequestAccepted RequestStatus = "accepted"

	// RequestRejected means the recipient declined.
	RequestRejected RequestStatus = "rejected"

	// RequestCancelled means the sender withdrew the request.
	RequestCancelled RequestStatus = "cancelled"
)

// FriendshipRequest is a directed invitation from one user to another.
// The partial unique index allows at most one pending request per ordered
// pair while keeping terminal rows around; a concurrent duplicate send
// loses on the index, not on a racey pre-check.
type FriendshipRequest struct {
	gorm.Model
	FromUserID uint          `gorm:"not null;uniqueIndex:uniq_pending_request,where:status = 'pending'"`
	ToUserID   uint          `gorm:"not null;uniqueIndex:uniq_pending_request,where:status = 'pending'"`
	Status     RequestStatus `gorm:"type:varchar(10);not null;default:'pending';index"`

	FromUser User `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Friendship is an undirected edge stored once in canonical order,
// UserLowID < UserHighID. The unique index over the canonical pair is the
// authoritative guard against symmetric duplicates; no code may insert or
// query a non-canonical order.
type Friendship struct {
	gorm.Model
	UserLowID  uint `gorm:"not null;uniqueIndex:uniq_friendship_pair"`
	UserHighID uint `gorm:"not null;uniqueIndex:uniq_friendship_pair"`

	UserLow  User `gorm:"foreignKey:UserLowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserHigh User `gorm:"foreignKey:UserHighID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CanonicalPair orders two user ids so that an undirected pair always maps
// to the same (low, high) tuple.
func CanonicalPair(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}
