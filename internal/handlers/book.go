package handlers

//go:generate mockgen -source=book.go -destination=mock_book.go -package=handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-library/internal/models"
)

// BookCreator adds books.
type BookCreator interface {
	Create(ctx context.Context, title, author, isbn string) (*models.Book, error)
}

// BookUpdater rewrites books.
type BookUpdater interface {
	Update(ctx context.Context, id int64, title, author, isbn string) (*models.Book, error)
}

// BookDeleter removes books.
type BookDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// BookGetter fetches a single book.
type BookGetter interface {
	Get(ctx context.Context, id int64) (*models.Book, error)
}

// BookLister lists books.
type BookLister interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
}

// BookRequest represents the JSON body for creating or updating a book
// swagger:model BookRequest
type BookRequest struct {
	// Title
	// required: true
	// default: The Go Programming Language
	Title string `json:"title"`

	// Author
	// required: true
	// default: Alan Donovan
	Author string `json:"author"`

	// ISBN-10
	// required: true
	// default: 0134190440
	ISBN string `json:"isbn"`
}

// NewCreateBookHandler returns an HTTP handler that adds a book.
// @Summary Create book
// @Description Adds an available book. ISBN must be a valid ISBN-10 not used by another book.
// @Tags books
// @Accept json
// @Produce json
// @Param request body handlers.BookRequest true "Book"
// @Success 201 {object} handlers.StatusResponse "Book created successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid data"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 406 {object} handlers.ErrorResponse "Mandatory fields missing"
// @Failure 409 {object} handlers.ErrorResponse "ISBN already exists"
// @Router /book/new [post]
// @Security BearerAuth
func NewCreateBookHandler(svc BookCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		if _, err := svc.Create(r.Context(), req.Title, req.Author, req.ISBN); err != nil {
			writeError(w, err, msgBookMandatoryFields)
			return
		}

		writeJSON(w, http.StatusCreated, StatusResponse{Status: msgBookCreated})
	}
}

// NewUpdateBookHandler returns an HTTP handler that rewrites a book.
// @Summary Update book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body handlers.BookRequest true "Book"
// @Success 200 {object} handlers.StatusResponse "Book updated successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID or data"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Book not found"
// @Failure 406 {object} handlers.ErrorResponse "Mandatory fields missing"
// @Failure 409 {object} handlers.ErrorResponse "ISBN already exists"
// @Router /book/{id} [put]
// @Security BearerAuth
func NewUpdateBookHandler(svc BookUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		var req BookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		if _, err := svc.Update(r.Context(), id, req.Title, req.Author, req.ISBN); err != nil {
			writeError(w, err, msgBookMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: msgBookUpdated})
	}
}

// NewDeleteBookHandler returns an HTTP handler that soft-deletes a book.
// @Summary Delete book
// @Description Marks the book deleted. Its borrowings are closed with it.
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} handlers.StatusResponse "Book deleted successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Book not found"
// @Router /book/{id} [delete]
// @Security BearerAuth
func NewDeleteBookHandler(svc BookDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err, msgBookMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: msgBookDeleted})
	}
}

// NewGetBookHandler returns an HTTP handler that fetches a book.
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.Book
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 404 {object} handlers.ErrorResponse "Book not found"
// @Router /book/{id} [get]
func NewGetBookHandler(svc BookGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		book, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err, msgBookMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, book)
	}
}

// NewListBooksHandler returns an HTTP handler that lists books.
// @Summary List books
// @Tags books
// @Produce json
// @Param status query string false "Available or Borrowed"
// @Param author query string false "Exact author"
// @Param title query string false "Title substring"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Book
// @Failure 400 {object} handlers.ErrorResponse "Invalid data"
// @Router /book [get]
func NewListBooksHandler(svc BookLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := models.BookFilter{
			Status: models.BookStatus(q.Get("status")),
			Author: q.Get("author"),
			Title:  q.Get("title"),
		}
		switch filter.Status {
		case "", models.BookAvailable, models.BookBorrowed:
		default:
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		var okLimit, okOffset bool
		filter.Limit, okLimit = queryUint(r, "limit")
		filter.Offset, okOffset = queryUint(r, "offset")
		if !okLimit || !okOffset {
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		books, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, err, msgBookMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, books)
	}
}
