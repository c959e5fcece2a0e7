package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"readmates/backend/internal/database"
	"readmates/backend/internal/models"
)

// The catalog proper (search, authors, publishers) is an external
// collaborator; these admin endpoints only seed books and genres so shelf
// membership and statistics have something to join against.

// GenreInput creates a genre.
type GenreInput struct {
	Name string `json:"name" binding:"required" example:"SF"`
}

// BookInput creates a book with its genres.
type BookInput struct {
	Title    string `json:"title" binding:"required" example:"Dune"`
	ISBN     string `json:"isbn" binding:"required,len=13" example:"1234567890123"`
	Language string `json:"language" example:"English"`
	GenreIDs []uint `json:"genre_ids"`
}

// CreateGenre godoc
// @Summary      Create a genre
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GenreInput true "Genre"
// @Success      201  {object}  map[string]uint "{"id": 1}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /admin/genres [post]
func CreateGenre(c *gin.Context) {
	var input GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre := models.Genre{Name: input.Name}
	if err := database.DB.Create(&genre).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": genre.ID})
}

// CreateBook godoc
// @Summary      Create a book
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BookInput true "Book"
// @Success      201  {object}  map[string]uint "{"id": 1}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Duplicate ISBN"
// @Router       /admin/books [post]
func CreateBook(c *gin.Context) {
	var input BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var genres []*models.Genre
	if len(input.GenreIDs) > 0 {
		if err := database.DB.Find(&genres, input.GenreIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load genres"})
			return
		}
		if len(genres) != len(input.GenreIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown genre ID"})
			return
		}
	}

	book := models.Book{
		Title:    input.Title,
		ISBN:     input.ISBN,
		Language: input.Language,
		Genres:   genres,
	}
	if book.Language == "" {
		book.Language = "English"
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&book).Error
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Book with this ISBN already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": book.ID})
}
