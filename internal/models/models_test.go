package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_StateTransitions(t *testing.T) {
	b := NewBook("Title", "Author", "0306406152")
	assert.Equal(t, BookAvailable, b.Status)

	require.NoError(t, b.MarkBorrowed())
	assert.Equal(t, BookBorrowed, b.Status)

	assert.ErrorIs(t, b.MarkBorrowed(), ErrBookNotAvailable)
	assert.Equal(t, BookBorrowed, b.Status)

	b.MarkAvailable()
	assert.Equal(t, BookAvailable, b.Status)

	now := time.Now()
	b.MarkDeleted(now)
	assert.True(t, b.IsDeleted())
	assert.ErrorIs(t, b.MarkBorrowed(), ErrBookNotAvailable)
}

func TestBook_MarkBorrowed_RejectsDeletedTimestamp(t *testing.T) {
	deletedAt := time.Now()
	b := &Book{ID: 1, Status: BookAvailable, DeletedAt: &deletedAt}

	assert.True(t, b.IsDeleted())
	assert.ErrorIs(t, b.MarkBorrowed(), ErrBookNotAvailable)
	assert.Equal(t, BookAvailable, b.Status)
}

func TestBorrowing_Return(t *testing.T) {
	checkout := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)
	br := NewBorrowing(1, 2, checkout)
	assert.True(t, br.IsActive())

	first := checkout.Add(time.Hour)
	require.NoError(t, br.Return(first))
	assert.False(t, br.IsActive())

	err := br.Return(first.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.Equal(t, first, *br.CheckinDate, "checkin date must not be overwritten")
	assert.Equal(t, checkout, br.CheckoutDate)
}

func TestUser_JSONHidesPassword(t *testing.T) {
	u := NewUser(NewName("Alice"), NewEmail("alice@example.com"), NewPassword("$2a$10$hash"))
	u.ID = 7

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "Alice", got["name"])
	assert.Equal(t, "alice@example.com", got["email"])
	assert.Equal(t, []any{RoleUser}, got["roles"])
	assert.Equal(t, string(UserActive), got["status"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, string(data), "$2a$10$hash")
}

func TestRoles_ScanValue(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    Roles
		wantErr bool
	}{
		{name: "bytes", src: []byte(`["ROLE_USER","ROLE_ADMIN"]`), want: Roles{"ROLE_USER", "ROLE_ADMIN"}},
		{name: "string", src: `["ROLE_USER"]`, want: Roles{"ROLE_USER"}},
		{name: "nil", src: nil, want: Roles{}},
		{name: "bad type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Roles
			err := r.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}

	v, err := Roles{"ROLE_USER"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, `["ROLE_USER"]`, v)
	assert.True(t, Roles{"ROLE_USER"}.Has(RoleUser))
	assert.False(t, Roles{}.Has(RoleUser))
}

func TestValueObjects_Scan(t *testing.T) {
	var n Name
	assert.NoError(t, n.Scan([]byte("Bob")))
	assert.Equal(t, "Bob", n.String())

	var e Email
	assert.NoError(t, e.Scan("bob@example.com"))
	assert.Equal(t, "bob@example.com", e.String())

	var p Password
	assert.Error(t, p.Scan(3.14))
}
