package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatisticsResponse is the derived per-user reading statistics.
type StatisticsResponse struct {
	Read           int64   `json:"read" example:"2"`
	InProgress     int64   `json:"in_progress" example:"1"`
	WantToRead     int64   `json:"want_to_read" example:"3"`
	FavouriteGenre *string `json:"favourite_genre" example:"SF"`
}

// GetMyStatistics godoc
// @Summary      Get reading statistics
// @Description  Returns the caller's derived statistics: per-default-shelf book counts and favourite genre.
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatisticsResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/stats [get]
func GetMyStatistics(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	stats, err := Stats.Get(viewerID.(uint))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	var favourite *string
	if stats.FavouriteGenre != nil {
		favourite = &stats.FavouriteGenre.Name
	}
	c.JSON(http.StatusOK, StatisticsResponse{
		Read:           stats.Read,
		InProgress:     stats.InProgress,
		WantToRead:     stats.WantToRead,
		FavouriteGenre: favourite,
	})
}
