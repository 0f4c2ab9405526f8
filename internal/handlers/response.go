package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/services"
)

// Response messages
const (
	msgInvalidID             = "Invalid ID"
	msgInvalidData           = "Invalid data"
	msgTryAgain              = "An error occurred. Please try again!"
	msgUnauthorized          = "Unauthorized"
	msgInvalidCredentials    = "Invalid email or password"
	msgBookNotFound          = "Book not found"
	msgBookCreated           = "Book created successfully"
	msgBookUpdated           = "Book updated successfully"
	msgBookDeleted           = "Book deleted successfully"
	msgBookBorrowed          = "Book borrowed successfully"
	msgBookReturned          = "Book returned successfully"
	msgBookMandatoryFields   = "Title, Author and ISBN are mandatory fields"
	msgISBNAlreadyExists     = "ISBN number is already associated with a existing book"
	msgBookNotAvailable      = "Book is not available"
	msgNotBorrowedOrReturned = "Book is not borrowed or has been returned already"
	msgAlreadyReturned       = "Book has been already returned"
	msgUserNotFound          = "User not found"
	msgUserCreated           = "User created successfully"
	msgUserUpdated           = "User updated successfully"
	msgUserDeleted           = "User deleted successfully"
	msgUserMandatoryFields   = "Name, email and password are mandatory fields"
	msgUserUpdateMandatory   = "Name and email are mandatory fields"
	msgEmailAlreadyExists    = "Email already exists"
	msgForeignKeyViolation   = "Foreign key constraint violation"
	msgMaximumBooksBorrowed  = "User has reached the maximum number of books borrowed"
	msgLoginMandatoryFields  = "Email and password are mandatory fields"
	msgLoggedOut             = "Logged out successfully"
)

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: An error occurred. Please try again!
	Message string `json:"message"`
}

// StatusResponse represents a successful mutation
// swagger:model StatusResponse
type StatusResponse struct {
	// Success message
	// default: Book created successfully
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Message: msg})
}

// writeError maps a service error onto a status code and message.
// mandatoryMsg is reported for ErrMandatoryFields.
func writeError(w http.ResponseWriter, err error, mandatoryMsg string) {
	var vErr *services.ValidationError

	switch {
	case errors.As(err, &vErr):
		writeMessage(w, http.StatusBadRequest, strings.Join(vErr.Messages, ", "))
	case errors.Is(err, services.ErrMandatoryFields):
		writeMessage(w, http.StatusNotAcceptable, mandatoryMsg)
	case errors.Is(err, services.ErrBookNotFound):
		writeMessage(w, http.StatusNotFound, msgBookNotFound)
	case errors.Is(err, services.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, services.ErrISBNAlreadyExists):
		writeMessage(w, http.StatusConflict, msgISBNAlreadyExists)
	case errors.Is(err, services.ErrEmailAlreadyExists):
		writeMessage(w, http.StatusConflict, msgEmailAlreadyExists)
	case errors.Is(err, services.ErrForeignKeyViolation):
		writeMessage(w, http.StatusBadRequest, msgForeignKeyViolation)
	case errors.Is(err, services.ErrLimitExceeded):
		writeMessage(w, http.StatusBadRequest, msgMaximumBooksBorrowed)
	case errors.Is(err, services.ErrInvalidStateTransition):
		writeMessage(w, http.StatusBadRequest, msgBookNotAvailable)
	case errors.Is(err, services.ErrNoActiveBorrowing):
		writeMessage(w, http.StatusBadRequest, msgNotBorrowedOrReturned)
	case errors.Is(err, services.ErrAlreadyReturned):
		writeMessage(w, http.StatusBadRequest, msgAlreadyReturned)
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, services.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgTryAgain)
	}
}

// urlID parses a positive integer path parameter.
func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryUint parses an optional unsigned query parameter.
func queryUint(r *http.Request, name string) (uint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
