package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/services"
)

// withURLParams attaches chi path parameters to r.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", &services.ValidationError{Messages: []string{"Invalid ISBN", "Title cannot be blank"}}, http.StatusBadRequest, "Invalid ISBN, Title cannot be blank"},
		{"mandatory", services.ErrMandatoryFields, http.StatusNotAcceptable, msgBookMandatoryFields},
		{"book not found", services.ErrBookNotFound, http.StatusNotFound, msgBookNotFound},
		{"user not found", services.ErrUserNotFound, http.StatusNotFound, msgUserNotFound},
		{"duplicate isbn", services.ErrISBNAlreadyExists, http.StatusConflict, msgISBNAlreadyExists},
		{"duplicate email", services.ErrEmailAlreadyExists, http.StatusConflict, msgEmailAlreadyExists},
		{"foreign key", services.ErrForeignKeyViolation, http.StatusBadRequest, msgForeignKeyViolation},
		{"limit", services.ErrLimitExceeded, http.StatusBadRequest, msgMaximumBooksBorrowed},
		{"not available", models.ErrBookNotAvailable, http.StatusBadRequest, msgBookNotAvailable},
		{"no active borrowing", services.ErrNoActiveBorrowing, http.StatusBadRequest, msgNotBorrowedOrReturned},
		{"already returned", fmt.Errorf("checkin: %w", models.ErrAlreadyReturned), http.StatusBadRequest, msgAlreadyReturned},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, msgInvalidCredentials},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, msgTryAgain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err, msgBookMandatoryFields)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMsg, decodeMessage(t, w))
		})
	}
}

func TestURLID(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		r := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.raw})
		got, ok := urlID(r, "id")
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
