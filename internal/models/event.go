package models

import "time"

// Borrowing event types
const (
	EventBorrowingCheckedOut = "borrowing.checked_out"
	EventBorrowingCheckedIn  = "borrowing.checked_in"
)

// BorrowingEvent is published after a checkout or checkin has been committed.
type BorrowingEvent struct {
	EventID     string    `json:"event_id"`     // EventID is a unique identifier of the event.
	EventType   string    `json:"event_type"`   // EventType is one of the borrowing event types.
	BorrowingID int64     `json:"borrowing_id"` // BorrowingID identifies the affected borrowing.
	UserID      int64     `json:"user_id"`      // UserID is the borrower.
	BookID      int64     `json:"book_id"`      // BookID is the borrowed book.
	OccurredAt  time.Time `json:"occurred_at"`  // OccurredAt is the checkout or checkin time.
}
