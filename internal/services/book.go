package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
)

// BookService manages the book catalogue.
type BookService struct {
	tx        Transactor
	reader    BookReader
	writer    BookWriter
	validator Validator
	now       func() time.Time
}

// NewBookService creates a new BookService instance.
func NewBookService(tx Transactor, reader BookReader, writer BookWriter, validator Validator) *BookService {
	return &BookService{
		tx:        tx,
		reader:    reader,
		writer:    writer,
		validator: validator,
		now:       time.Now,
	}
}

var isbnSeparators = strings.NewReplacer("-", "", " ", "")

// normalizeISBN drops the separators ISBN-10 validation tolerates so that the
// unique index sees one spelling per book.
func normalizeISBN(isbn string) string {
	return strings.ToUpper(isbnSeparators.Replace(isbn))
}

func (svc *BookService) checkInput(title, author, isbn string) error {
	if title == "" || author == "" || isbn == "" {
		return ErrMandatoryFields
	}
	return validate(svc.validator, models.BookInput{Title: title, Author: author, ISBN: isbn})
}

// Create adds an available book. The ISBN is stored without separators.
func (svc *BookService) Create(ctx context.Context, title, author, isbn string) (*models.Book, error) {
	isbn = normalizeISBN(isbn)
	if err := svc.checkInput(title, author, isbn); err != nil {
		return nil, err
	}

	book := models.NewBook(title, author, isbn)
	if err := svc.writer.Save(ctx, book); err != nil {
		logger.FromContext(ctx).Errorw("failed to save book", "isbn", isbn, "error", err)
		return nil, mapBookWriteError(err)
	}
	return book, nil
}

// Update rewrites title, author and ISBN. The status is left untouched.
func (svc *BookService) Update(ctx context.Context, id int64, title, author, isbn string) (*models.Book, error) {
	book, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get book", "id", id, "error", err)
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	isbn = normalizeISBN(isbn)
	if err := svc.checkInput(title, author, isbn); err != nil {
		return nil, err
	}

	book.Title, book.Author, book.ISBN = title, author, isbn
	if err := svc.writer.Update(ctx, book); err != nil {
		logger.FromContext(ctx).Errorw("failed to update book", "id", id, "error", err)
		return nil, mapBookWriteError(err)
	}
	return book, nil
}

// Delete soft-deletes the book and its borrowings.
func (svc *BookService) Delete(ctx context.Context, id int64) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, err := svc.reader.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}

		now := svc.now()
		book.MarkDeleted(now)
		return svc.writer.SoftDelete(ctx, book.ID, now)
	})
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		logger.FromContext(ctx).Errorw("failed to delete book", "id", id, "error", err)
	}
	return err
}

// Get returns a non-deleted book.
func (svc *BookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get book", "id", id, "error", err)
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// List returns books matching the filter.
func (svc *BookService) List(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	books, err := svc.reader.List(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to list books", "error", err)
		return nil, err
	}
	return books, nil
}

func mapBookWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUniqueViolation):
		return ErrISBNAlreadyExists
	case errors.Is(err, repositories.ErrForeignKeyViolation):
		return ErrForeignKeyViolation
	case errors.Is(err, repositories.ErrNotFound):
		return ErrBookNotFound
	default:
		return err
	}
}
