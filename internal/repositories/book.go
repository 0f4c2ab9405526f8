package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-library/internal/models"
)

var pg = goqu.Dialect("postgres")

var bookColumns = []any{"id", "title", "author", "isbn", "status", "created_at", "updated_at", "deleted_at"}

// BookReadRepository reads non-deleted books.
type BookReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBookReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BookReadRepository {
	return &BookReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns nil without error when the book does not exist or was deleted.
func (r *BookReadRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	const query = `
		SELECT id, title, author, isbn, status, created_at, updated_at, deleted_at
		FROM books
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate locks the book row until the surrounding transaction ends.
func (r *BookReadRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Book, error) {
	const query = `
		SELECT id, title, author, isbn, status, created_at, updated_at, deleted_at
		FROM books
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`
	return r.get(ctx, query, id)
}

func (r *BookReadRepository) get(ctx context.Context, query string, id int64) (*models.Book, error) {
	var book models.Book
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &book, query, id)
	logQuery(query, []any{id}, book, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns books matching the filter ordered by id.
func (r *BookReadRepository) List(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	ds := pg.From("books").
		Select(bookColumns...).
		Where(goqu.C("deleted_at").IsNull()).
		Order(goqu.C("id").Asc())

	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(string(filter.Status)))
	}
	if filter.Author != "" {
		ds = ds.Where(goqu.C("author").Eq(filter.Author))
	}
	if filter.Title != "" {
		ds = ds.Where(goqu.C("title").ILike("%" + filter.Title + "%"))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		ds = ds.Offset(filter.Offset)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	books := []models.Book{}
	err = sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &books, query, args...)
	logQuery(query, args, len(books), err)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// BookWriteRepository persists books.
type BookWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBookWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BookWriteRepository {
	return &BookWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts the book and fills in its generated id and timestamps.
func (r *BookWriteRepository) Save(ctx context.Context, book *models.Book) error {
	const query = `
		INSERT INTO books (title, author, isbn, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	args := []any{book.Title, book.Author, book.ISBN, string(book.Status)}

	err := executor(ctx, r.db, r.txGetter).
		QueryRowxContext(ctx, query, args...).
		Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	logQuery(query, args, book.ID, err)

	return classifyError(err)
}

// Update rewrites the descriptive fields of a non-deleted book.
func (r *BookWriteRepository) Update(ctx context.Context, book *models.Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	args := []any{book.ID, book.Title, book.Author, book.ISBN}

	err := executor(ctx, r.db, r.txGetter).
		QueryRowxContext(ctx, query, args...).
		Scan(&book.UpdatedAt)
	logQuery(query, args, book.UpdatedAt, err)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return classifyError(err)
}

// UpdateStatus sets the availability status of a non-deleted book.
func (r *BookWriteRepository) UpdateStatus(ctx context.Context, id int64, status models.BookStatus) error {
	const query = `
		UPDATE books
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	return execOne(ctx, executor(ctx, r.db, r.txGetter), query, id, string(status))
}

// SoftDelete marks the book deleted together with its borrowings.
// Run it inside a transaction so both statements apply atomically.
func (r *BookWriteRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const deleteBook = `
		UPDATE books
		SET status = 'Deleted', deleted_at = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	const deleteBorrowings = `
		UPDATE borrowings
		SET deleted_at = $2, updated_at = NOW()
		WHERE book_id = $1 AND deleted_at IS NULL
	`

	ex := executor(ctx, r.db, r.txGetter)
	if err := execOne(ctx, ex, deleteBook, id, at); err != nil {
		return err
	}

	_, err := ex.ExecContext(ctx, deleteBorrowings, id, at)
	logQuery(deleteBorrowings, []any{id, at}, nil, err)
	return err
}

// execOne runs a statement that must touch a row; otherwise ErrNotFound.
func execOne(ctx context.Context, ex sqlx.ExecerContext, query string, args ...any) error {
	res, err := ex.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return classifyError(err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
