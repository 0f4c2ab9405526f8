package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

// User statuses
const (
	UserActive  UserStatus = "Active"
	UserDeleted UserStatus = "Deleted"
)

// RoleUser is granted to every user.
const RoleUser = "ROLE_USER"

// User represents a user record in the database
type User struct {
	ID        int64      `json:"id" db:"id"`                 // Primary key
	Name      Name       `json:"name" db:"name"`             // Display name
	Email     Email      `json:"email" db:"email"`           // Unique among non-deleted users
	Password  Password   `json:"-" db:"password"`            // Bcrypt hash, never serialized
	Roles     Roles      `json:"roles" db:"roles"`           // Granted roles
	Status    UserStatus `json:"status" db:"status"`         // Account status
	CreatedAt time.Time  `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"` // Last update timestamp
	DeletedAt *time.Time `json:"-" db:"deleted_at"`          // Soft-delete timestamp
}

// NewUser returns an active user with the default role.
func NewUser(name Name, email Email, password Password) *User {
	return &User{
		Name:     name,
		Email:    email,
		Password: password,
		Roles:    Roles{RoleUser},
		Status:   UserActive,
	}
}

// MarkDeleted is terminal.
func (u *User) MarkDeleted(at time.Time) {
	u.Status = UserDeleted
	u.DeletedAt = &at
}

// Name is an immutable user display name.
type Name struct{ value string }

// NewName wraps a raw name.
func NewName(s string) Name { return Name{value: s} }

func (n Name) String() string { return n.value }

// MarshalJSON encodes the name as a plain string.
func (n Name) MarshalJSON() ([]byte, error) { return json.Marshal(n.value) }

// Value implements driver.Valuer.
func (n Name) Value() (driver.Value, error) { return n.value, nil }

// Scan implements sql.Scanner.
func (n *Name) Scan(src any) error { return scanString(src, &n.value) }

// Email is an immutable email address.
type Email struct{ value string }

// NewEmail wraps a raw email address.
func NewEmail(s string) Email { return Email{value: s} }

func (e Email) String() string { return e.value }

// MarshalJSON encodes the email as a plain string.
func (e Email) MarshalJSON() ([]byte, error) { return json.Marshal(e.value) }

// Value implements driver.Valuer.
func (e Email) Value() (driver.Value, error) { return e.value, nil }

// Scan implements sql.Scanner.
func (e *Email) Scan(src any) error { return scanString(src, &e.value) }

// Password holds a password hash. It has no JSON form.
type Password struct{ hash string }

// NewPassword wraps an already hashed password.
func NewPassword(hash string) Password { return Password{hash: hash} }

func (p Password) String() string { return p.hash }

// MarshalJSON always emits null so a hash never leaks through a nested encode.
func (p Password) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Value implements driver.Valuer.
func (p Password) Value() (driver.Value, error) { return p.hash, nil }

// Scan implements sql.Scanner.
func (p *Password) Scan(src any) error { return scanString(src, &p.hash) }

// Roles is stored as a JSON array.
type Roles []string

// Has reports whether role is granted.
func (r Roles) Has(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (r Roles) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *Roles) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = Roles{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("roles: unsupported type %T", src)
	}
	var roles []string
	if err := json.Unmarshal(raw, &roles); err != nil {
		return err
	}
	*r = roles
	return nil
}

func scanString(src any, dst *string) error {
	switch v := src.(type) {
	case nil:
		*dst = ""
	case string:
		*dst = v
	case []byte:
		*dst = string(v)
	default:
		return fmt.Errorf("unsupported type %T", src)
	}
	return nil
}
