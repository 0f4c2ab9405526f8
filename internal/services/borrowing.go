package services

//go:generate mockgen -source=borrowing.go -destination=mock_borrowing.go -package=services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/metrics"
	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
)

// MaxActiveBorrowings is the number of books a user may hold at once.
const MaxActiveBorrowings = 5

var json = jsoniter.ConfigFastest

// Transactor runs fn atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset uint) ([]models.User, error)
}

// BookReader defines read-only operations for books.
type BookReader interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
}

// BookWriter defines write operations for books.
type BookWriter interface {
	Save(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	UpdateStatus(ctx context.Context, id int64, status models.BookStatus) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

// BorrowingReader defines read-only operations for borrowings.
type BorrowingReader interface {
	FindActive(ctx context.Context, userID, bookID int64) (*models.Borrowing, error)
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Borrowing, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error)
}

// BorrowingWriter defines write operations for borrowings.
type BorrowingWriter interface {
	Save(ctx context.Context, b *models.Borrowing) error
	SaveCheckin(ctx context.Context, id int64, at time.Time) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BorrowingService moves books between users and the shelf.
type BorrowingService struct {
	tx              Transactor
	users           UserReader
	books           BookReader
	bookWriter      BookWriter
	borrowings      BorrowingReader
	borrowingWriter BorrowingWriter
	kafkaWriter     KafkaWriter
	now             func() time.Time
}

// NewBorrowingService creates a new BorrowingService. kafkaWriter may be nil.
func NewBorrowingService(
	tx Transactor,
	users UserReader,
	books BookReader,
	bookWriter BookWriter,
	borrowings BorrowingReader,
	borrowingWriter BorrowingWriter,
	kafkaWriter KafkaWriter,
) *BorrowingService {
	return &BorrowingService{
		tx:              tx,
		users:           users,
		books:           books,
		bookWriter:      bookWriter,
		borrowings:      borrowings,
		borrowingWriter: borrowingWriter,
		kafkaWriter:     kafkaWriter,
		now:             time.Now,
	}
}

// lockParties loads and locks the user and then the book.
func (s *BorrowingService) lockParties(ctx context.Context, userID, bookID int64) (*models.User, *models.Book, error) {
	user, err := s.users.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	book, err := s.books.GetByIDForUpdate(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}
	if book == nil {
		return nil, nil, ErrBookNotFound
	}
	return user, book, nil
}

// Checkout lends the book to the user.
func (s *BorrowingService) Checkout(ctx context.Context, userID, bookID int64) (*models.Borrowing, error) {
	var borrowing *models.Borrowing

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, book, err := s.lockParties(ctx, userID, bookID)
		if err != nil {
			return err
		}

		count, err := s.borrowings.CountActiveByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if count >= MaxActiveBorrowings {
			return ErrLimitExceeded
		}

		if err := book.MarkBorrowed(); err != nil {
			return err
		}

		b := models.NewBorrowing(user.ID, book.ID, s.now())
		if err := s.borrowingWriter.Save(ctx, b); err != nil {
			if errors.Is(err, repositories.ErrUniqueViolation) {
				return ErrInvalidStateTransition
			}
			return err
		}
		if err := s.bookWriter.UpdateStatus(ctx, book.ID, book.Status); err != nil {
			return err
		}

		borrowing = b
		return nil
	})

	metrics.ObserveBorrowing(metrics.OpCheckout, resultLabel(err))
	if err != nil {
		logger.FromContext(ctx).Errorw("checkout failed", "user_id", userID, "book_id", bookID, "error", err)
		return nil, err
	}

	logger.FromContext(ctx).Infow("book checked out", "user_id", userID, "book_id", bookID, "borrowing_id", borrowing.ID)
	s.publish(ctx, models.EventBorrowingCheckedOut, borrowing, borrowing.CheckoutDate)
	return borrowing, nil
}

// Checkin takes the book back from the user.
func (s *BorrowingService) Checkin(ctx context.Context, userID, bookID int64) (*models.Borrowing, error) {
	var borrowing *models.Borrowing

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, book, err := s.lockParties(ctx, userID, bookID)
		if err != nil {
			return err
		}

		b, err := s.borrowings.FindActive(ctx, user.ID, book.ID)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrNoActiveBorrowing
		}

		if err := b.Return(s.now()); err != nil {
			return err
		}
		if err := s.borrowingWriter.SaveCheckin(ctx, b.ID, *b.CheckinDate); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAlreadyReturned
			}
			return err
		}

		book.MarkAvailable()
		if err := s.bookWriter.UpdateStatus(ctx, book.ID, book.Status); err != nil {
			return err
		}

		borrowing = b
		return nil
	})

	metrics.ObserveBorrowing(metrics.OpCheckin, resultLabel(err))
	if err != nil {
		logger.FromContext(ctx).Errorw("checkin failed", "user_id", userID, "book_id", bookID, "error", err)
		return nil, err
	}

	logger.FromContext(ctx).Infow("book checked in", "user_id", userID, "book_id", bookID, "borrowing_id", borrowing.ID)
	s.publish(ctx, models.EventBorrowingCheckedIn, borrowing, *borrowing.CheckinDate)
	return borrowing, nil
}

// ListByUser returns the borrowing history of an existing user.
func (s *BorrowingService) ListByUser(ctx context.Context, userID int64) ([]models.Borrowing, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.borrowings.ListByUser(ctx, userID)
}

// ListByBook returns the borrowing history of an existing book.
func (s *BorrowingService) ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get book", "book_id", bookID, "error", err)
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return s.borrowings.ListByBook(ctx, bookID)
}

// publish sends a borrowing event to Kafka. Failures are logged only.
func (s *BorrowingService) publish(ctx context.Context, eventType string, b *models.Borrowing, at time.Time) {
	if s.kafkaWriter == nil {
		logger.FromContext(ctx).Debugw("Kafka writer not configured, skipping publishing", "event_type", eventType, "borrowing_id", b.ID)
		return
	}

	event := models.BorrowingEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		BorrowingID: b.ID,
		UserID:      b.UserID,
		BookID:      b.BookID,
		OccurredAt:  at,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.FromContext(ctx).Errorw("Failed to marshal borrowing event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(b.BookID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.FromContext(ctx).Errorw("Failed to publish borrowing event", "event_id", event.EventID, "error", err)
	} else {
		logger.FromContext(ctx).Infow("Borrowing event published", "event_id", event.EventID, "event_type", eventType)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrInvalidStateTransition):
		return "not_available"
	case errors.Is(err, ErrNoActiveBorrowing):
		return "no_active_borrowing"
	case errors.Is(err, ErrAlreadyReturned):
		return "already_returned"
	default:
		return "error"
	}
}
