package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"readmates/backend/internal/database"
	"readmates/backend/internal/events"
	"readmates/backend/internal/models"
)

// Reviews themselves belong to the review collaborator; these endpoints
// exist so its like/comment events reach the notification dispatcher.

// ReviewInput creates a review.
type ReviewInput struct {
	BookID  uint   `json:"book_id" binding:"required" example:"1"`
	Content string `json:"content" binding:"required" example:"Loved it."`
}

// CommentInput carries a comment on a review.
type CommentInput struct {
	Comment string `json:"comment" binding:"required" example:"Agreed!"`
}

// CreateReview godoc
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ReviewInput true "Review"
// @Success      201  {object}  map[string]uint "{"id": 1}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Book not found"
// @Router       /reviews [post]
func CreateReview(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var book models.Book
	if err := database.DB.First(&book, input.BookID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	review := models.Review{
		UserID:  viewerID.(uint),
		BookID:  input.BookID,
		Content: input.Content,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": review.ID})
}

// LikeReview godoc
// @Summary      Like a review
// @Description  Notifies the review's author that the caller liked their review.
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Review ID"
// @Success      200  {object}  map[string]string "{"message": "Review liked"}"
// @Failure      404  {object}  ErrorResponse
// @Router       /reviews/{id}/like [post]
func LikeReview(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, liker, ok := loadReviewAndActor(c, reviewID, viewerID.(uint))
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return Bus.Publish(tx, events.Event{
			Type:   events.ReviewLiked,
			UserID: review.UserID,
			Payload: events.ReviewLikedPayload{
				ReviewID:  review.ID,
				BookID:    review.BookID,
				LikerID:   liker.ID,
				LikerName: liker.Nickname,
			},
		})
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review liked"})
}

// CommentReview godoc
// @Summary      Comment on a review
// @Description  Notifies the review's author that the caller commented on their review.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Review ID"
// @Param        input body      CommentInput  true  "Comment"
// @Success      200   {object}  map[string]string "{"message": "Comment added"}"
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /reviews/{id}/comment [post]
func CommentReview(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, commenter, ok := loadReviewAndActor(c, reviewID, viewerID.(uint))
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return Bus.Publish(tx, events.Event{
			Type:   events.ReviewCommented,
			UserID: review.UserID,
			Payload: events.ReviewCommentedPayload{
				ReviewID:      review.ID,
				BookID:        review.BookID,
				CommenterID:   commenter.ID,
				CommenterName: commenter.Nickname,
				Comment:       input.Comment,
			},
		})
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment added"})
}

func loadReviewAndActor(c *gin.Context, reviewID, actorID uint) (*models.Review, *models.User, bool) {
	var review models.Review
	if err := database.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review"})
		}
		return nil, nil, false
	}

	var actor models.User
	if err := database.DB.First(&actor, actorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, nil, false
	}
	return &review, &actor, true
}
