// Package social owns the relationship graph: the friendship-request state
// machine, the canonical undirected friendship pairs, and the directed
// follow edges.
package social

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"readmates/backend/internal/apperr"
	"readmates/backend/internal/events"
	"readmates/backend/internal/models"
)

// Domain errors surfaced by the relationship graph. Each uniqueness error
// doubles as the translation target for the matching store constraint, so
// race losers observe the same failure as pre-validated callers.
var (
	ErrSelfRequest      = apperr.Validation("cannot send a friend request to yourself")
	ErrAlreadyFriends   = apperr.Conflict("you are already friends with this user")
	ErrDuplicateRequest = apperr.Conflict("a pending request to this user already exists")
	ErrRequestNotFound  = apperr.NotFound("friend request not found")
	ErrNotPending       = apperr.Validation("only pending requests can be modified")
	ErrNotRecipient     = apperr.Forbidden("only the recipient can act on this request")
	ErrNotSender        = apperr.Forbidden("only the sender can cancel this request")
	ErrNotFriends       = apperr.NotFound("friendship not found")

	ErrSelfFollow      = apperr.Validation("cannot follow yourself")
	ErrAlreadyFollowed = apperr.Conflict("already following this user")
	ErrNotFollowed     = apperr.NotFound("follow not found")
)

// Service implements the relationship graph operations.
type Service struct {
	db  *gorm.DB
	bus *events.Bus
	log *logrus.Logger
}

// NewService creates a relationship graph service publishing on bus.
func NewService(db *gorm.DB, bus *events.Bus, log *logrus.Logger) *Service {
	return &Service{db: db, bus: bus, log: log}
}

// SendRequest creates a pending friendship request from one user to
// another. It fails on self-reference, when a friendship already exists in
// either direction, and when a pending request for the same ordered pair
// exists. The partial unique index on pending pairs resolves concurrent
// duplicate sends.
func (s *Service) SendRequest(fromID, toID uint) (*models.FriendshipRequest, error) {
	if fromID == toID {
		return nil, ErrSelfRequest
	}

	var request models.FriendshipRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		friends, err := areFriends(tx, fromID, toID)
		if err != nil {
			return err
		}
		if friends {
			return ErrAlreadyFriends
		}

		var count int64
		if err := tx.Model(&models.FriendshipRequest{}).
			Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromID, toID, models.RequestPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRequest
		}

		var sender models.User
		if err := tx.First(&sender, fromID).Error; err != nil {
			return apperr.FromDB(err, nil)
		}

		request = models.FriendshipRequest{
			FromUserID: fromID,
			ToUserID:   toID,
			Status:     models.RequestPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return apperr.FromDB(err, ErrDuplicateRequest)
		}

		return s.bus.Publish(tx, events.Event{
			Type:   events.FriendRequestReceived,
			UserID: toID,
			Payload: events.FriendRequestPayload{
				RequestID:    request.ID,
				FromUserID:   fromID,
				FromUserName: sender.Nickname,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Accept transitions a pending request to accepted and creates the
// canonical friendship, atomically. Under a concurrent double-accept the
// loser hits either the friendship unique index or the stale-status guard;
// both surface as ErrAlreadyFriends, and exactly one friendship row ever
// exists.
func (s *Service) Accept(requestID, actorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.ToUserID != actorID {
			return ErrNotRecipient
		}
		if request.Status != models.RequestPending {
			return ErrNotPending
		}

		low, high := models.CanonicalPair(request.FromUserID, request.ToUserID)
		friendship := models.Friendship{UserLowID: low, UserHighID: high}
		if err := tx.Create(&friendship).Error; err != nil {
			return apperr.FromDB(err, ErrAlreadyFriends)
		}

		// Compare-and-swap on status: a racing accept that somehow got
		// past the friendship index loses here instead.
		res := tx.Model(&models.FriendshipRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", models.RequestAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		return nil
	})
}

// Reject transitions a pending request to rejected. Only the recipient may
// reject.
func (s *Service) Reject(requestID, actorID uint) error {
	return s.terminate(requestID, actorID, models.RequestRejected)
}

// Cancel transitions a pending request to cancelled. Only the sender may
// cancel.
func (s *Service) Cancel(requestID, actorID uint) error {
	return s.terminate(requestID, actorID, models.RequestCancelled)
}

func (s *Service) terminate(requestID, actorID uint, to models.RequestStatus) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if to == models.RequestCancelled {
			if request.FromUserID != actorID {
				return ErrNotSender
			}
		} else if request.ToUserID != actorID {
			return ErrNotRecipient
		}
		if request.Status != models.RequestPending {
			return ErrNotPending
		}

		res := tx.Model(&models.FriendshipRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		return nil
	})
}

// AreFriends reports whether an undirected friendship exists between the
// two users. Symmetric by construction: the pair is canonicalized before
// the single-row lookup.
func (s *Service) AreFriends(u1, u2 uint) (bool, error) {
	return areFriends(s.db, u1, u2)
}

// RemoveFriendship deletes the canonical friendship between two users.
// The delete is unscoped: a tombstone would keep occupying the unique pair
// index and block the users from ever becoming friends again.
func (s *Service) RemoveFriendship(u1, u2 uint) error {
	low, high := models.CanonicalPair(u1, u2)
	res := s.db.Unscoped().
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFriends
	}
	return nil
}

// Follow creates a directed follow edge. Fails on self-follow and on an
// existing edge; the unique index on the ordered pair resolves races.
func (s *Service) Follow(followerID, followeeID uint) (*models.Follow, error) {
	if followerID == followeeID {
		return nil, ErrSelfFollow
	}

	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := s.db.Create(&follow).Error; err != nil {
		return nil, apperr.FromDB(err, ErrAlreadyFollowed)
	}
	return &follow, nil
}

// IsFollowing reports whether the directed follow edge exists.
func (s *Service) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Unfollow deletes the directed edge if present. Unscoped so the unique
// pair index frees up for a later re-follow.
func (s *Service) Unfollow(followerID, followeeID uint) error {
	res := s.db.Unscoped().
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowed
	}
	return nil
}

// ListFriends returns the users the given user is friends with.
func (s *Service) ListFriends(userID uint) ([]models.User, error) {
	var friendships []models.Friendship
	err := s.db.
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Preload("UserLow").Preload("UserHigh").
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	friends := make([]models.User, 0, len(friendships))
	for _, f := range friendships {
		if f.UserLowID == userID {
			friends = append(friends, f.UserHigh)
		} else {
			friends = append(friends, f.UserLow)
		}
	}
	return friends, nil
}

// RequestDirection filters ListRequests by the user's role in the request.
type RequestDirection string

const (
	DirectionIncoming RequestDirection = "incoming"
	DirectionOutgoing RequestDirection = "outgoing"
)

// ListRequests returns the user's friendship requests, optionally filtered
// by direction and status.
func (s *Service) ListRequests(userID uint, direction RequestDirection, status models.RequestStatus) ([]models.FriendshipRequest, error) {
	query := s.db.Model(&models.FriendshipRequest{})

	switch direction {
	case DirectionIncoming:
		query = query.Where("to_user_id = ?", userID).Preload("FromUser")
	case DirectionOutgoing:
		query = query.Where("from_user_id = ?", userID).Preload("ToUser")
	default:
		query = query.Where("from_user_id = ? OR to_user_id = ?", userID, userID).
			Preload("FromUser").Preload("ToUser")
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.FriendshipRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListFollowing returns the users the given user follows.
func (s *Service) ListFollowing(userID uint) ([]models.User, error) {
	return s.followEdgeUsers("follower_id", "Followee", userID)
}

// ListFollowers returns the users following the given user.
func (s *Service) ListFollowers(userID uint) ([]models.User, error) {
	return s.followEdgeUsers("followee_id", "Follower", userID)
}

func (s *Service) followEdgeUsers(column, preload string, userID uint) ([]models.User, error) {
	var follows []models.Follow
	err := s.db.Where(column+" = ?", userID).Preload(preload).Find(&follows).Error
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		if column == "follower_id" {
			users = append(users, f.Followee)
		} else {
			users = append(users, f.Follower)
		}
	}
	return users, nil
}

func loadRequest(tx *gorm.DB, requestID uint) (*models.FriendshipRequest, error) {
	var request models.FriendshipRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func areFriends(db *gorm.DB, u1, u2 uint) (bool, error) {
	low, high := models.CanonicalPair(u1, u2)
	var count int64
	err := db.Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
