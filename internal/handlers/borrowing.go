package handlers

//go:generate mockgen -source=borrowing.go -destination=mock_borrowing.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-library/internal/models"
)

// BookBorrower checks books out.
type BookBorrower interface {
	Checkout(ctx context.Context, userID, bookID int64) (*models.Borrowing, error)
}

// BookReturner checks books in.
type BookReturner interface {
	Checkin(ctx context.Context, userID, bookID int64) (*models.Borrowing, error)
}

// UserBorrowingsLister lists the borrowings of a user.
type UserBorrowingsLister interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Borrowing, error)
}

// BookBorrowingsLister lists the borrowings of a book.
type BookBorrowingsLister interface {
	ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error)
}

// BorrowingResponse represents a successful checkout or checkin
// swagger:model BorrowingResponse
type BorrowingResponse struct {
	// Success message
	// default: Book borrowed successfully
	Status string `json:"status"`

	// The affected borrowing
	Borrowing *models.Borrowing `json:"borrowing"`
}

// borrowingIDs reads the {user} and {book} path parameters.
func borrowingIDs(w http.ResponseWriter, r *http.Request) (userID, bookID int64, ok bool) {
	userID, okUser := urlID(r, "user")
	bookID, okBook := urlID(r, "book")
	if !okUser || !okBook {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return 0, 0, false
	}
	return userID, bookID, true
}

// NewCheckoutHandler returns an HTTP handler that lends a book to a user.
// @Summary Borrow book
// @Description Checks the book out to the user. A user may hold at most 5 books.
// @Tags borrowings
// @Produce json
// @Param user path int true "User ID"
// @Param book path int true "Book ID"
// @Success 201 {object} handlers.BorrowingResponse "Book borrowed successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID, book not available or limit reached"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User or book not found"
// @Router /user/{user}/borrow/{book} [post]
// @Security BearerAuth
func NewCheckoutHandler(svc BookBorrower) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, bookID, ok := borrowingIDs(w, r)
		if !ok {
			return
		}

		borrowing, err := svc.Checkout(r.Context(), userID, bookID)
		if err != nil {
			writeError(w, err, msgInvalidData)
			return
		}

		writeJSON(w, http.StatusCreated, BorrowingResponse{Status: msgBookBorrowed, Borrowing: borrowing})
	}
}

// NewCheckinHandler returns an HTTP handler that takes a book back from a user.
// @Summary Return book
// @Tags borrowings
// @Produce json
// @Param user path int true "User ID"
// @Param book path int true "Book ID"
// @Success 200 {object} handlers.BorrowingResponse "Book returned successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID or book not borrowed"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User or book not found"
// @Router /user/{user}/return/{book} [post]
// @Security BearerAuth
func NewCheckinHandler(svc BookReturner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, bookID, ok := borrowingIDs(w, r)
		if !ok {
			return
		}

		borrowing, err := svc.Checkin(r.Context(), userID, bookID)
		if err != nil {
			writeError(w, err, msgInvalidData)
			return
		}

		writeJSON(w, http.StatusOK, BorrowingResponse{Status: msgBookReturned, Borrowing: borrowing})
	}
}

// NewUserBorrowingsHandler returns an HTTP handler listing a user's borrowings.
// @Summary Borrowings of a user
// @Tags borrowings
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Borrowing
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/{id}/borrowings [get]
func NewUserBorrowingsHandler(svc UserBorrowingsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		borrowings, err := svc.ListByUser(r.Context(), id)
		if err != nil {
			writeError(w, err, msgInvalidData)
			return
		}

		writeJSON(w, http.StatusOK, borrowings)
	}
}

// NewBookBorrowingsHandler returns an HTTP handler listing a book's borrowings.
// @Summary Borrowings of a book
// @Tags borrowings
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {array} models.Borrowing
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 404 {object} handlers.ErrorResponse "Book not found"
// @Router /book/{id}/borrowings [get]
func NewBookBorrowingsHandler(svc BookBorrowingsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		borrowings, err := svc.ListByBook(r.Context(), id)
		if err != nil {
			writeError(w, err, msgInvalidData)
			return
		}

		writeJSON(w, http.StatusOK, borrowings)
	}
}
