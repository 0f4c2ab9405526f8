package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-library/internal/models"
)

var userColumns = []any{"id", "name", "email", "password", "roles", "status", "created_at", "updated_at", "deleted_at"}

type UserReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns nil without error when the user does not exist or was deleted.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, name, email, password, roles, status, created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate locks the user row so concurrent checkouts by the same
// user are serialized.
func (r *UserReadRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, name, email, password, roles, status, created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`
	return r.get(ctx, query, id)
}

func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, name, email, password, roles, status, created_at, updated_at, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`
	return r.get(ctx, query, email)
}

func (r *UserReadRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, arg)
	logQuery(query, []any{arg}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns non-deleted users ordered by id. A zero limit means no limit.
func (r *UserReadRepository) List(ctx context.Context, limit, offset uint) ([]models.User, error) {
	ds := pg.From("users").
		Select(userColumns...).
		Where(goqu.C("deleted_at").IsNull()).
		Order(goqu.C("id").Asc())
	if limit > 0 {
		ds = ds.Limit(limit)
	}
	if offset > 0 {
		ds = ds.Offset(offset)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	err = sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &users, query, args...)
	logQuery(query, args, len(users), err)
	if err != nil {
		return nil, err
	}
	return users, nil
}

type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts the user and fills in its generated id and timestamps.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (name, email, password, roles, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	// The password hash is not logged.
	args := []any{user.Name, user.Email, user.Password, user.Roles, string(user.Status)}

	err := executor(ctx, r.db, r.txGetter).
		QueryRowxContext(ctx, query, args...).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	logQuery(query, []any{user.Name.String(), user.Email.String()}, user.ID, err)

	return classifyError(err)
}

// Update rewrites name, email and password of a non-deleted user.
func (r *UserWriteRepository) Update(ctx context.Context, user *models.User) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, password = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	args := []any{user.ID, user.Name, user.Email, user.Password}

	err := executor(ctx, r.db, r.txGetter).
		QueryRowxContext(ctx, query, args...).
		Scan(&user.UpdatedAt)
	logQuery(query, []any{user.ID, user.Name.String(), user.Email.String()}, user.UpdatedAt, err)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return classifyError(err)
}

// SoftDelete marks the user deleted together with their borrowings. Books the
// user still held become Available again. Run it inside a transaction.
func (r *UserWriteRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const deleteUser = `
		UPDATE users
		SET status = 'Deleted', deleted_at = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	const releaseBooks = `
		UPDATE books
		SET status = 'Available', updated_at = NOW()
		WHERE deleted_at IS NULL AND id IN (
			SELECT book_id FROM borrowings
			WHERE user_id = $1 AND checkin_date IS NULL AND deleted_at IS NULL
		)
	`
	const deleteBorrowings = `
		UPDATE borrowings
		SET deleted_at = $2, updated_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL
	`

	ex := executor(ctx, r.db, r.txGetter)
	if err := execOne(ctx, ex, deleteUser, id, at); err != nil {
		return err
	}

	_, err := ex.ExecContext(ctx, releaseBooks, id)
	logQuery(releaseBooks, []any{id}, nil, err)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, deleteBorrowings, id, at)
	logQuery(deleteBorrowings, []any{id, at}, nil, err)
	return err
}
