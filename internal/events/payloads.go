package events

// ReviewLikedPayload accompanies ReviewLiked. The event's UserID is the
// review author receiving the notification.
type ReviewLikedPayload struct {
	ReviewID  uint   `json:"review_id"`
	BookID    uint   `json:"book_id"`
	LikerID   uint   `json:"liker_id"`
	LikerName string `json:"liker_name"`
}

// ReviewCommentedPayload accompanies ReviewCommented.
type ReviewCommentedPayload struct {
	ReviewID      uint   `json:"review_id"`
	BookID        uint   `json:"book_id"`
	CommenterID   uint   `json:"commenter_id"`
	CommenterName string `json:"commenter_name"`
	Comment       string `json:"comment"`
}

// FriendRequestPayload accompanies FriendRequestReceived. The event's
// UserID is the request recipient.
type FriendRequestPayload struct {
	RequestID    uint   `json:"request_id"`
	FromUserID   uint   `json:"from_user_id"`
	FromUserName string `json:"from_user_name"`
}
