package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"readmates/backend/internal/models"
	"readmates/backend/internal/social"
)

// FriendRequestResponse describes one friendship request.
type FriendRequestResponse struct {
	ID         uint   `json:"id" example:"1"`
	FromUserID uint   `json:"from_user_id"`
	ToUserID   uint   `json:"to_user_id"`
	Status     string `json:"status" example:"pending"`
	CreatedAt  string `json:"created_at"`
}

// AreFriendsResponse answers a friendship query.
type AreFriendsResponse struct {
	AreFriends bool `json:"are_friends"`
}

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  FriendRequestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already friends or request already pending"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/friend-request [post]
func SendFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := Social.SendRequest(viewerID.(uint), targetUserID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, friendRequestResponse(request))
}

// AcceptFriendRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request. Only the recipient may accept.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  map[string]string "{"message": "Request accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      409  {object}  ErrorResponse "Already friends"
// @Router       /friend-requests/{id}/accept [post]
func AcceptFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Social.Accept(requestID, viewerID.(uint)); err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// RejectFriendRequest godoc
// @Summary      Reject friend request
// @Description  Rejects a pending friend request. Only the recipient may reject.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  map[string]string "{"message": "Request rejected"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend-requests/{id}/reject [post]
func RejectFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Social.Reject(requestID, viewerID.(uint)); err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// CancelFriendRequest godoc
// @Summary      Cancel friend request
// @Description  Cancels a pending friend request. Only the sender may cancel.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  map[string]string "{"message": "Request cancelled"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend-requests/{id}/cancel [post]
func CancelFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Social.Cancel(requestID, viewerID.(uint)); err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// ListFriendRequests godoc
// @Summary      List friend requests
// @Description  Lists the caller's friend requests, optionally filtered by direction and status.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        direction query     string  false  "Filter by direction (incoming, outgoing)"
// @Param        status    query     string  false  "Filter by status (pending, accepted, rejected, cancelled)"
// @Success      200       {array}   FriendRequestResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /friend-requests [get]
func ListFriendRequests(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	requests, err := Social.ListRequests(
		viewerID.(uint),
		social.RequestDirection(c.Query("direction")),
		models.RequestStatus(c.Query("status")),
	)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	responses := make([]FriendRequestResponse, len(requests))
	for i := range requests {
		responses[i] = friendRequestResponse(&requests[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ListFriends godoc
// @Summary      List friends
// @Description  Lists the caller's friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends [get]
func ListFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	friends, err := Social.ListFriends(viewerID.(uint))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponses(friends))
}

// AreFriends godoc
// @Summary      Check friendship
// @Description  Reports whether the caller and the target user are friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  AreFriendsResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends/{id} [get]
func AreFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	friends, err := Social.AreFriends(viewerID.(uint), targetUserID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, AreFriendsResponse{AreFriends: friends})
}

// Unfriend godoc
// @Summary      Remove friend
// @Description  Removes the friendship between the caller and the target user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Friendship removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{id} [delete]
func Unfriend(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Social.RemoveFriendship(viewerID.(uint), targetUserID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friendship removed"})
}

// FollowUser godoc
// @Summary      Follow a user
// @Description  Creates a directed follow edge from the caller to the target user.
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string "{"message": "Now following"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already following"
// @Router       /users/{id}/follow [post]
func FollowUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := Social.Follow(viewerID.(uint), targetUserID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Now following"})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Removes the caller's follow edge to the target user.
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Unfollowed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/follow [delete]
func UnfollowUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Social.Unfollow(viewerID.(uint), targetUserID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// ListFollowing godoc
// @Summary      List followed users
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserResponse
// @Router       /follows/following [get]
func ListFollowing(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	users, err := Social.ListFollowing(viewerID.(uint))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponses(users))
}

// ListFollowers godoc
// @Summary      List followers
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserResponse
// @Router       /follows/followers [get]
func ListFollowers(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	users, err := Social.ListFollowers(viewerID.(uint))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponses(users))
}

func friendRequestResponse(r *models.FriendshipRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(raw), true
}
