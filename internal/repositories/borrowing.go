package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-library/internal/models"
)

type BorrowingReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBorrowingReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BorrowingReadRepository {
	return &BorrowingReadRepository{db: db, txGetter: txGetter}
}

// FindActive returns the open borrowing of book by user, or nil when there is none.
func (r *BorrowingReadRepository) FindActive(ctx context.Context, userID, bookID int64) (*models.Borrowing, error) {
	const query = `
		SELECT id, user_id, book_id, checkout_date, checkin_date, created_at, updated_at, deleted_at
		FROM borrowings
		WHERE user_id = $1 AND book_id = $2
		  AND checkin_date IS NULL AND deleted_at IS NULL
		LIMIT 2
	`
	args := []any{userID, bookID}

	var rows []models.Borrowing
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &rows, query, args...)
	logQuery(query, args, len(rows), err)

	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("multiple active borrowings for user %d and book %d", userID, bookID)
	}
}

// CountActiveByUser counts the user's open borrowings.
func (r *BorrowingReadRepository) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM borrowings
		WHERE user_id = $1 AND checkin_date IS NULL AND deleted_at IS NULL
	`
	var count int
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &count, query, userID)
	logQuery(query, []any{userID}, count, err)

	return count, err
}

// ListByUser returns the user's borrowing history, newest first.
func (r *BorrowingReadRepository) ListByUser(ctx context.Context, userID int64) ([]models.Borrowing, error) {
	const query = `
		SELECT id, user_id, book_id, checkout_date, checkin_date, created_at, updated_at, deleted_at
		FROM borrowings
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY checkout_date DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

// ListByBook returns the book's borrowing history, newest first.
func (r *BorrowingReadRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	const query = `
		SELECT id, user_id, book_id, checkout_date, checkin_date, created_at, updated_at, deleted_at
		FROM borrowings
		WHERE book_id = $1 AND deleted_at IS NULL
		ORDER BY checkout_date DESC, id DESC
	`
	return r.list(ctx, query, bookID)
}

func (r *BorrowingReadRepository) list(ctx context.Context, query string, id int64) ([]models.Borrowing, error) {
	borrowings := []models.Borrowing{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &borrowings, query, id)
	logQuery(query, []any{id}, len(borrowings), err)
	if err != nil {
		return nil, err
	}
	return borrowings, nil
}

type BorrowingWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBorrowingWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BorrowingWriteRepository {
	return &BorrowingWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts an open borrowing. A second open borrowing of the same book
// fails with ErrUniqueViolation.
func (r *BorrowingWriteRepository) Save(ctx context.Context, b *models.Borrowing) error {
	const query = `
		INSERT INTO borrowings (user_id, book_id, checkout_date, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	args := []any{b.UserID, b.BookID, b.CheckoutDate}

	err := executor(ctx, r.db, r.txGetter).
		QueryRowxContext(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	logQuery(query, args, b.ID, err)

	return classifyError(err)
}

// SaveCheckin sets the checkin date once. ErrNotFound means the borrowing
// is missing or was already closed.
func (r *BorrowingWriteRepository) SaveCheckin(ctx context.Context, id int64, at time.Time) error {
	const query = `
		UPDATE borrowings
		SET checkin_date = $2, updated_at = NOW()
		WHERE id = $1 AND checkin_date IS NULL AND deleted_at IS NULL
	`
	return execOne(ctx, executor(ctx, r.db, r.txGetter), query, id, at)
}
