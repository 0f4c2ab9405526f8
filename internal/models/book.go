package models

import (
	"time"
)

// BookStatus is the availability state of a book.
type BookStatus string

// Book statuses
const (
	BookAvailable BookStatus = "Available"
	BookBorrowed  BookStatus = "Borrowed"
	BookDeleted   BookStatus = "Deleted"
)

// Book represents a book row in the database
type Book struct {
	ID        int64      `json:"id" db:"id"`                 // Primary key
	Title     string     `json:"title" db:"title"`           // Book title
	Author    string     `json:"author" db:"author"`         // Book author
	ISBN      string     `json:"isbn" db:"isbn"`             // ISBN-10, unique among non-deleted books
	Status    BookStatus `json:"status" db:"status"`         // Availability status
	CreatedAt time.Time  `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"` // Last update timestamp
	DeletedAt *time.Time `json:"-" db:"deleted_at"`          // Soft-delete timestamp
}

// NewBook returns an available book.
func NewBook(title, author, isbn string) *Book {
	return &Book{
		Title:  title,
		Author: author,
		ISBN:   isbn,
		Status: BookAvailable,
	}
}

// MarkBorrowed moves an available, non-deleted book to Borrowed.
func (b *Book) MarkBorrowed() error {
	if b.IsDeleted() || b.Status != BookAvailable {
		return ErrBookNotAvailable
	}
	b.Status = BookBorrowed
	return nil
}

// MarkAvailable moves the book back to Available after a return.
func (b *Book) MarkAvailable() {
	b.Status = BookAvailable
}

// MarkDeleted is terminal. Allowed from any status.
func (b *Book) MarkDeleted(at time.Time) {
	b.Status = BookDeleted
	b.DeletedAt = &at
}

// IsDeleted reports whether the book was soft-deleted.
func (b *Book) IsDeleted() bool {
	return b.DeletedAt != nil || b.Status == BookDeleted
}

// BookFilter narrows book listings. Zero values mean "no filter".
type BookFilter struct {
	Status BookStatus
	Author string
	Title  string // substring match
	Limit  uint
	Offset uint
}
