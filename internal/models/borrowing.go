package models

import "time"

// Borrowing links a user to a book for the period between checkout and checkin.
// A nil CheckinDate means the borrowing is active.
type Borrowing struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	BookID       int64      `json:"book_id" db:"book_id"`
	CheckoutDate time.Time  `json:"checkout_date" db:"checkout_date"`
	CheckinDate  *time.Time `json:"checkin_date" db:"checkin_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

// NewBorrowing starts an active borrowing at the given checkout time.
func NewBorrowing(userID, bookID int64, checkout time.Time) *Borrowing {
	return &Borrowing{
		UserID:       userID,
		BookID:       bookID,
		CheckoutDate: checkout,
	}
}

// IsActive reports whether the book has not been returned yet.
func (b *Borrowing) IsActive() bool {
	return b.CheckinDate == nil
}

// Return closes the borrowing. The checkin date is write-once.
func (b *Borrowing) Return(at time.Time) error {
	if b.CheckinDate != nil {
		return ErrAlreadyReturned
	}
	b.CheckinDate = &at
	return nil
}
