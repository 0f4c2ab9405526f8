package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-library/internal/models"
)

func newMemBorrowingService(s *memStore) *BorrowingService {
	return NewBorrowingService(s, memUsers{s}, memBooks{s}, memBooks{s}, memBorrowings{s}, memBorrowings{s}, nil)
}

// assertConsistent checks that a book is Borrowed iff it has exactly one active borrowing.
func assertConsistent(t *testing.T, s *memStore) {
	t.Helper()
	for id, b := range s.books {
		if b.DeletedAt != nil {
			continue
		}
		active := s.activeFor(id)
		assert.LessOrEqual(t, active, 1, "book %d", id)
		assert.Equal(t, b.Status == models.BookBorrowed, active == 1, "book %d status %s", id, b.Status)
	}
}

func TestScenario_CheckoutMarksBookBorrowed(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	u := s.addUser("alice")
	b := s.addBook("Go")

	br, err := svc.Checkout(context.Background(), u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, br.UserID)
	assert.Equal(t, b.ID, br.BookID)
	assert.Nil(t, br.CheckinDate)
	assert.Equal(t, models.BookBorrowed, s.books[b.ID].Status)
	assertConsistent(t, s)
}

func TestScenario_CheckoutOfBorrowedBookFails(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	alice, bob := s.addUser("alice"), s.addUser("bob")
	b := s.addBook("Go")

	_, err := svc.Checkout(context.Background(), alice.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), bob.ID, b.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Len(t, s.borrowings, 1)

	// Same user, same book.
	_, err = svc.Checkout(context.Background(), alice.ID, b.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Len(t, s.borrowings, 1)
	assertConsistent(t, s)
}

func TestScenario_LimitOfFiveActiveBorrowings(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	u := s.addUser("alice")

	books := make([]*models.Book, MaxActiveBorrowings+1)
	for i := range books {
		books[i] = s.addBook("Book")
	}

	for _, b := range books[:MaxActiveBorrowings] {
		_, err := svc.Checkout(context.Background(), u.ID, b.ID)
		require.NoError(t, err)
	}

	sixth := books[MaxActiveBorrowings]
	_, err := svc.Checkout(context.Background(), u.ID, sixth.ID)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, models.BookAvailable, s.books[sixth.ID].Status)

	_, err = svc.Checkin(context.Background(), u.ID, books[0].ID)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), u.ID, sixth.ID)
	assert.NoError(t, err)
	assertConsistent(t, s)
}

func TestScenario_RoundTrip(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	clock := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	u := s.addUser("alice")
	b := s.addBook("Go")

	out, err := svc.Checkout(context.Background(), u.ID, b.ID)
	require.NoError(t, err)

	clock = clock.Add(48 * time.Hour)
	in, err := svc.Checkin(context.Background(), u.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, out.ID, in.ID)
	require.NotNil(t, in.CheckinDate)
	assert.False(t, in.CheckinDate.Before(in.CheckoutDate))
	assert.Equal(t, models.BookAvailable, s.books[b.ID].Status)

	history, err := svc.ListByBook(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].IsActive())
	assertConsistent(t, s)
}

func TestScenario_SecondCheckinFails(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	u := s.addUser("alice")
	b := s.addBook("Go")

	_, err := svc.Checkout(context.Background(), u.ID, b.ID)
	require.NoError(t, err)
	first, err := svc.Checkin(context.Background(), u.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.Checkin(context.Background(), u.ID, b.ID)
	assert.ErrorIs(t, err, ErrNoActiveBorrowing)
	assert.Equal(t, *first.CheckinDate, *s.borrowings[first.ID].CheckinDate)
}

func TestScenario_CheckinByAnotherUserFails(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	alice, bob := s.addUser("alice"), s.addUser("bob")
	b := s.addBook("Go")

	_, err := svc.Checkout(context.Background(), alice.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.Checkin(context.Background(), bob.ID, b.ID)
	assert.ErrorIs(t, err, ErrNoActiveBorrowing)
	assert.Equal(t, models.BookBorrowed, s.books[b.ID].Status)
}

func TestScenario_NotFoundPrecedence(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	u := s.addUser("alice")
	b := s.addBook("Go")

	tests := []struct {
		name   string
		userID int64
		bookID int64
		want   error
	}{
		{name: "both missing", userID: 100, bookID: 200, want: ErrUserNotFound},
		{name: "user missing", userID: 100, bookID: b.ID, want: ErrUserNotFound},
		{name: "book missing", userID: u.ID, bookID: 200, want: ErrBookNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tt.userID, tt.bookID)
			assert.ErrorIs(t, err, tt.want)
			_, err = svc.Checkin(context.Background(), tt.userID, tt.bookID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, s.borrowings)
}

func TestScenario_ConcurrentCheckoutOfOneBook(t *testing.T) {
	s := newMemStore()
	svc := newMemBorrowingService(s)
	b := s.addBook("Go")

	const n = 10
	users := make([]*models.User, n)
	for i := range users {
		users[i] = s.addUser("user")
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := svc.Checkout(context.Background(), u.ID, b.ID)
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrInvalidStateTransition)
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Len(t, s.borrowings, 1)
	assertConsistent(t, s)
}

type failingStatusWriter struct {
	memBooks
}

func (failingStatusWriter) UpdateStatus(ctx context.Context, id int64, status models.BookStatus) error {
	return errors.New("disk full")
}

func TestScenario_CheckoutIsAtomic(t *testing.T) {
	s := newMemStore()
	svc := NewBorrowingService(s, memUsers{s}, memBooks{s}, failingStatusWriter{memBooks{s}}, memBorrowings{s}, memBorrowings{s}, nil)
	u := s.addUser("alice")
	b := s.addBook("Go")

	_, err := svc.Checkout(context.Background(), u.ID, b.ID)
	assert.Error(t, err)
	assert.Empty(t, s.borrowings)
	assert.Equal(t, models.BookAvailable, s.books[b.ID].Status)
}

func TestScenario_DeletingBorrowedBookClosesItsBorrowing(t *testing.T) {
	s := newMemStore()
	borrowing := newMemBorrowingService(s)
	books := NewBookService(s, memBooks{s}, memBooks{s}, nil)
	u := s.addUser("alice")
	b := s.addBook("Go")

	_, err := borrowing.Checkout(context.Background(), u.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, books.Delete(context.Background(), b.ID))

	n, err := memBorrowings{s}.CountActiveByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = books.Get(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, books.Delete(context.Background(), b.ID), ErrBookNotFound)
}
