package social

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"readmates/backend/internal/events"
	"readmates/backend/internal/models"
	"readmates/backend/internal/testdb"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testdb.New(t)
	logger := logrus.New()
	return NewService(db, events.NewBus(), logger), db
}

func createUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := models.User{
		Nickname:     nickname,
		Email:        fmt.Sprintf("%s@example.com", nickname),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestSendRequest(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestPending, request.Status)
	require.Equal(t, alice.ID, request.FromUserID)
	require.Equal(t, bob.ID, request.ToUserID)
}

func TestSendRequestToSelfFails(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")

	_, err := svc.SendRequest(alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestDuplicatePendingFails(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.SendRequest(alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrDuplicateRequest)

	// The reverse direction is a distinct ordered pair and stays allowed.
	_, err = svc.SendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
}

func TestSendRequestWhenAlreadyFriendsFails(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(request.ID, bob.ID))

	// Either direction is blocked once the friendship exists.
	_, err = svc.SendRequest(alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrAlreadyFriends)
	_, err = svc.SendRequest(bob.ID, alice.ID)
	require.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestAcceptCreatesCanonicalFriendship(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	// Send from the higher id so canonicalization has to reorder.
	request, err := svc.SendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(request.ID, alice.ID))

	friends, err := svc.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, friends)

	// Symmetric query, same single row.
	friends, err = svc.AreFriends(bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, friends)

	var friendships []models.Friendship
	require.NoError(t, db.Find(&friendships).Error)
	require.Len(t, friendships, 1)
	require.Less(t, friendships[0].UserLowID, friendships[0].UserHighID)

	var updated models.FriendshipRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	require.Equal(t, models.RequestAccepted, updated.Status)
}

func TestAcceptByWrongActorFails(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Accept(request.ID, alice.ID), ErrNotRecipient)
	require.ErrorIs(t, svc.Accept(request.ID, carol.ID), ErrNotRecipient)
}

func TestAcceptNonPendingFails(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Reject(request.ID, bob.ID))

	require.ErrorIs(t, svc.Accept(request.ID, bob.ID), ErrNotPending)
}

func TestAcceptRaceLoserSeesDomainError(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	// Simulate a concurrent winner that already inserted the canonical
	// row but whose status update has not been observed yet.
	low, high := models.CanonicalPair(alice.ID, bob.ID)
	require.NoError(t, db.Create(&models.Friendship{UserLowID: low, UserHighID: high}).Error)

	// The loser hits the unique friendship index and gets the same error
	// pre-validation would have produced, never a duplicate row.
	require.ErrorIs(t, svc.Accept(request.ID, bob.ID), ErrAlreadyFriends)

	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRejectAndCancel(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	rejected, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Reject(rejected.ID, alice.ID), ErrNotRecipient)
	require.NoError(t, svc.Reject(rejected.ID, bob.ID))

	var r models.FriendshipRequest
	require.NoError(t, db.First(&r, rejected.ID).Error)
	require.Equal(t, models.RequestRejected, r.Status)

	// Terminal states are immutable.
	require.ErrorIs(t, svc.Reject(rejected.ID, bob.ID), ErrNotPending)

	cancelled, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Cancel(cancelled.ID, bob.ID), ErrNotSender)
	require.NoError(t, svc.Cancel(cancelled.ID, alice.ID))

	r = models.FriendshipRequest{}
	require.NoError(t, db.First(&r, cancelled.ID).Error)
	require.Equal(t, models.RequestCancelled, r.Status)
}

func TestRemoveFriendship(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(request.ID, bob.ID))

	// Non-canonical argument order must still hit the canonical row.
	require.NoError(t, svc.RemoveFriendship(bob.ID, alice.ID))

	friends, err := svc.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, friends)

	require.ErrorIs(t, svc.RemoveFriendship(alice.ID, bob.ID), ErrNotFriends)
}

func TestRefriendAfterUnfriend(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	first, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(first.ID, bob.ID))
	require.NoError(t, svc.RemoveFriendship(alice.ID, bob.ID))

	// The pair can run through the full cycle again after an unfriend.
	second, err := svc.SendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(second.ID, alice.ID))

	friends, err := svc.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, friends)

	// The removed edge left no tombstone behind.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Friendship{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestFollowIsDirectional(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	// The reverse edge is independent.
	_, err = svc.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	_, err = svc.Follow(alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrSelfFollow)

	_, err = svc.Follow(alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrAlreadyFollowed)

	following, err := svc.ListFollowing(alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, bob.ID, following[0].ID)

	followers, err := svc.ListFollowers(alice.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, bob.ID, followers[0].ID)
}

func TestUnfollow(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	following, err := svc.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, following)

	require.NoError(t, svc.Unfollow(alice.ID, bob.ID))
	require.ErrorIs(t, svc.Unfollow(alice.ID, bob.ID), ErrNotFollowed)

	following, err = svc.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, following)
}

func TestRefollowAfterUnfollow(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Unfollow(alice.ID, bob.ID))

	// The edge can be recreated; the removed one left no tombstone.
	_, err = svc.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Follow{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestListFriendsAndRequests(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	fromBob, err := svc.SendRequest(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Accept(fromBob.ID, alice.ID))

	_, err = svc.SendRequest(alice.ID, carol.ID)
	require.NoError(t, err)

	friends, err := svc.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, "bob", friends[0].Nickname)

	incoming, err := svc.ListRequests(alice.ID, DirectionIncoming, models.RequestAccepted)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	require.Equal(t, bob.ID, incoming[0].FromUserID)

	outgoing, err := svc.ListRequests(alice.ID, DirectionOutgoing, models.RequestPending)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	require.Equal(t, carol.ID, outgoing[0].ToUserID)

	all, err := svc.ListRequests(alice.ID, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
