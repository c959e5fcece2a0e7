package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"readmates/backend/internal/models"
)

// ShelfInput carries a shelf name for create and rename.
type ShelfInput struct {
	Name string `json:"name" binding:"required" example:"Favorites"`
}

// ShelfBookInput identifies the book for membership changes.
type ShelfBookInput struct {
	BookID uint `json:"book_id" binding:"required" example:"1"`
}

// ShelfResponse describes one shelf.
type ShelfResponse struct {
	ID        uint    `json:"id" example:"1"`
	Name      string  `json:"name" example:"Read"`
	IsDefault bool    `json:"is_default"`
	ShelfType *string `json:"shelf_type,omitempty" example:"read"`
}

// BookResponse describes one book on a shelf.
type BookResponse struct {
	ID     uint     `json:"id" example:"1"`
	Title  string   `json:"title" example:"Dune"`
	ISBN   string   `json:"isbn" example:"1234567890123"`
	Genres []string `json:"genres"`
}

// CreateShelf godoc
// @Summary      Create a custom shelf
// @Description  Creates a custom shelf; the name must be unique (case-insensitive) among the caller's shelves.
// @Tags         shelves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ShelfInput true "Shelf"
// @Success      201  {object}  ShelfResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Duplicate name"
// @Router       /shelves [post]
func CreateShelf(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ShelfInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shelf, err := Shelves.CreateCustom(viewerID.(uint), input.Name)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shelfResponse(shelf))
}

// RenameShelf godoc
// @Summary      Rename a custom shelf
// @Description  Renames a custom shelf. Default shelves cannot be renamed.
// @Tags         shelves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int         true  "Shelf ID"
// @Param        input body      ShelfInput  true  "New name"
// @Success      200   {object}  ShelfResponse
// @Failure      400   {object}  ErrorResponse "Default shelf or invalid name"
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Duplicate name"
// @Router       /shelves/{id} [put]
func RenameShelf(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ShelfInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shelf, err := Shelves.Rename(viewerID.(uint), shelfID, input.Name)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, shelfResponse(shelf))
}

// DeleteShelf godoc
// @Summary      Delete a custom shelf
// @Description  Deletes a custom shelf and its memberships. Default shelves cannot be deleted.
// @Tags         shelves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Shelf ID"
// @Success      200  {object}  map[string]string "{"message": "Shelf deleted"}"
// @Failure      400  {object}  ErrorResponse "Default shelf"
// @Failure      404  {object}  ErrorResponse
// @Router       /shelves/{id} [delete]
func DeleteShelf(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Shelves.Delete(viewerID.(uint), shelfID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shelf deleted"})
}

// ListShelves godoc
// @Summary      List shelves
// @Description  Lists the caller's shelves, defaults first.
// @Tags         shelves
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ShelfResponse
// @Router       /shelves [get]
func ListShelves(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	shelves, err := Shelves.ListShelves(viewerID.(uint))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	responses := make([]ShelfResponse, len(shelves))
	for i := range shelves {
		responses[i] = shelfResponse(&shelves[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ListShelfBooks godoc
// @Summary      List shelf contents
// @Tags         shelves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Shelf ID"
// @Success      200  {array}   BookResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /shelves/{id}/books [get]
func ListShelfBooks(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := Shelves.ListBooks(viewerID.(uint), shelfID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	responses := make([]BookResponse, len(books))
	for i, book := range books {
		genres := make([]string, len(book.Genres))
		for j, genre := range book.Genres {
			genres[j] = genre.Name
		}
		responses[i] = BookResponse{ID: book.ID, Title: book.Title, ISBN: book.ISBN, Genres: genres}
	}
	c.JSON(http.StatusOK, responses)
}

// AddBookToShelf godoc
// @Summary      Add a book to a shelf
// @Description  Adds a book to one of the caller's shelves and recomputes their statistics.
// @Tags         shelves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Shelf ID"
// @Param        input body      ShelfBookInput  true  "Book"
// @Success      200   {object}  map[string]string "{"message": "Book added"}"
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Book already on shelf"
// @Router       /shelves/{id}/books [post]
func AddBookToShelf(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ShelfBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Shelves.AddBook(viewerID.(uint), shelfID, input.BookID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book added"})
}

// RemoveBookFromShelf godoc
// @Summary      Remove a book from a shelf
// @Description  Removes a book from one of the caller's shelves and recomputes their statistics.
// @Tags         shelves
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int  true  "Shelf ID"
// @Param        bookID  path      int  true  "Book ID"
// @Success      200     {object}  map[string]string "{"message": "Book removed"}"
// @Failure      400     {object}  ErrorResponse "Book not in shelf"
// @Failure      404     {object}  ErrorResponse
// @Router       /shelves/{id}/books/{bookID} [delete]
func RemoveBookFromShelf(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookID")
	if !ok {
		return
	}

	if err := Shelves.RemoveBook(viewerID.(uint), shelfID, bookID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book removed"})
}

func shelfResponse(s *models.Shelf) ShelfResponse {
	var shelfType *string
	if s.ShelfType != nil {
		t := string(*s.ShelfType)
		shelfType = &t
	}
	return ShelfResponse{
		ID:        s.ID,
		Name:      s.Name,
		IsDefault: s.IsDefault,
		ShelfType: shelfType,
	}
}
