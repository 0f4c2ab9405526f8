package handlers

//go:generate mockgen -source=user.go -destination=mock_user.go -package=handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-library/internal/models"
)

// UserCreator registers users.
type UserCreator interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
}

// UserUpdater rewrites users.
type UserUpdater interface {
	Update(ctx context.Context, id int64, name, email string, password *string) (*models.User, error)
}

// UserDeleter removes users.
type UserDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// UserGetter fetches a single user.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

// UserLister lists users.
type UserLister interface {
	List(ctx context.Context, limit, offset uint) ([]models.User, error)
}

// UserRequest represents the JSON body for registering or updating a user
// swagger:model UserRequest
type UserRequest struct {
	// Display name
	// required: true
	// default: John Doe
	Name string `json:"name"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password, at least 8 characters. Optional on update.
	// default: secret123
	Password *string `json:"password,omitempty"`
}

// NewCreateUserHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a user account. The password is hashed before storing.
// @Tags users
// @Accept json
// @Produce json
// @Param request body handlers.UserRequest true "User"
// @Success 201 {object} handlers.StatusResponse "User created successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid data"
// @Failure 406 {object} handlers.ErrorResponse "Mandatory fields missing"
// @Failure 409 {object} handlers.ErrorResponse "Email already exists"
// @Router /user/new [post]
func NewCreateUserHandler(svc UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		var password string
		if req.Password != nil {
			password = *req.Password
		}

		if _, err := svc.Create(r.Context(), req.Name, req.Email, password); err != nil {
			writeError(w, err, msgUserMandatoryFields)
			return
		}

		writeJSON(w, http.StatusCreated, StatusResponse{Status: msgUserCreated})
	}
}

// NewUpdateUserHandler returns an HTTP handler that rewrites a user.
// @Summary Update user
// @Description Updates name and email. The password changes only when present.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body handlers.UserRequest true "User"
// @Success 200 {object} handlers.StatusResponse "User updated successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID or data"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 406 {object} handlers.ErrorResponse "Mandatory fields missing"
// @Failure 409 {object} handlers.ErrorResponse "Email already exists"
// @Router /user/{id} [put]
// @Security BearerAuth
func NewUpdateUserHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		var req UserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		if _, err := svc.Update(r.Context(), id, req.Name, req.Email, req.Password); err != nil {
			writeError(w, err, msgUserUpdateMandatory)
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: msgUserUpdated})
	}
}

// NewDeleteUserHandler returns an HTTP handler that soft-deletes a user.
// @Summary Delete user
// @Description Marks the user deleted. Books they held become available.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.StatusResponse "User deleted successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/{id} [delete]
// @Security BearerAuth
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err, msgUserMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: msgUserDeleted})
	}
}

// NewGetUserHandler returns an HTTP handler that fetches a user.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} handlers.ErrorResponse "Invalid ID"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/{id} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err, msgUserMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// NewListUsersHandler returns an HTTP handler that lists users.
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Failure 400 {object} handlers.ErrorResponse "Invalid data"
// @Router /user [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, okLimit := queryUint(r, "limit")
		offset, okOffset := queryUint(r, "offset")
		if !okLimit || !okOffset {
			writeMessage(w, http.StatusBadRequest, msgInvalidData)
			return
		}

		users, err := svc.List(r.Context(), limit, offset)
		if err != nil {
			writeError(w, err, msgUserMandatoryFields)
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}
