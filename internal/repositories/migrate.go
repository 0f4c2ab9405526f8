package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-library/internal/logger"
)

// schema is idempotent. The partial unique indexes keep uniqueness among
// non-deleted rows and allow at most one open borrowing per book.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(150) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	roles JSONB NOT NULL DEFAULT '["ROLE_USER"]',
	status VARCHAR(16) NOT NULL DEFAULT 'Active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at TIMESTAMPTZ NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_active_uq
	ON users (email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS books (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(150) NOT NULL,
	author VARCHAR(150) NOT NULL,
	isbn VARCHAR(13) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'Available',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at TIMESTAMPTZ NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS books_isbn_active_uq
	ON books (isbn) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS borrowings (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users (id),
	book_id BIGINT NOT NULL REFERENCES books (id),
	checkout_date TIMESTAMPTZ NOT NULL,
	checkin_date TIMESTAMPTZ NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at TIMESTAMPTZ NULL,
	CHECK (checkin_date IS NULL OR checkin_date >= checkout_date)
);

CREATE INDEX IF NOT EXISTS borrowings_user_book_idx
	ON borrowings (user_id, book_id);

CREATE UNIQUE INDEX IF NOT EXISTS borrowings_active_book_uq
	ON borrowings (book_id) WHERE checkin_date IS NULL AND deleted_at IS NULL;
`

// Migrate creates the tables and indexes when they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		logger.Log.Errorw("migration failed", "error", err)
		return err
	}
	logger.Log.Infow("migration applied")
	return nil
}
