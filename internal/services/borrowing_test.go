package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
)

type borrowingMocks struct {
	tx              *MockTransactor
	users           *MockUserReader
	books           *MockBookReader
	bookWriter      *MockBookWriter
	borrowings      *MockBorrowingReader
	borrowingWriter *MockBorrowingWriter
	kafka           *MockKafkaWriter
}

func newBorrowingMocks(ctrl *gomock.Controller) *borrowingMocks {
	m := &borrowingMocks{
		tx:              NewMockTransactor(ctrl),
		users:           NewMockUserReader(ctrl),
		books:           NewMockBookReader(ctrl),
		bookWriter:      NewMockBookWriter(ctrl),
		borrowings:      NewMockBorrowingReader(ctrl),
		borrowingWriter: NewMockBorrowingWriter(ctrl),
		kafka:           NewMockKafkaWriter(ctrl),
	}
	m.tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	return m
}

func (m *borrowingMocks) service() *BorrowingService {
	return NewBorrowingService(m.tx, m.users, m.books, m.bookWriter, m.borrowings, m.borrowingWriter, m.kafka)
}

func TestBorrowingService_CheckoutPublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newBorrowingMocks(ctrl)
	ctx := context.Background()
	now := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)

	user := &models.User{ID: 1}
	book := &models.Book{ID: 2, Status: models.BookAvailable}

	gomock.InOrder(
		m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(user, nil),
		m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(book, nil),
		m.borrowings.EXPECT().CountActiveByUser(gomock.Any(), int64(1)).Return(4, nil),
		m.borrowingWriter.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, b *models.Borrowing) error {
				b.ID = 9
				return nil
			}),
		m.bookWriter.EXPECT().UpdateStatus(gomock.Any(), int64(2), models.BookBorrowed).Return(nil),
	)

	var published kafka.Message
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			published = msgs[0]
			return nil
		})

	svc := m.service()
	svc.now = func() time.Time { return now }

	br, err := svc.Checkout(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), br.ID)
	assert.Equal(t, now, br.CheckoutDate)

	var event models.BorrowingEvent
	require.NoError(t, json.Unmarshal(published.Value, &event))
	assert.Equal(t, models.EventBorrowingCheckedOut, event.EventType)
	assert.Equal(t, int64(9), event.BorrowingID)
	assert.Equal(t, int64(1), event.UserID)
	assert.Equal(t, int64(2), event.BookID)
	assert.True(t, now.Equal(event.OccurredAt))
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, []byte("2"), published.Key)
}

func TestBorrowingService_CheckoutErrors(t *testing.T) {
	dbErr := errors.New("db down")

	tests := []struct {
		name    string
		setup   func(m *borrowingMocks)
		wantErr error
	}{
		{
			name: "user lookup fails",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(nil, dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "user missing",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "book missing",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(nil, nil)
			},
			wantErr: ErrBookNotFound,
		},
		{
			name: "limit reached before availability check",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2, Status: models.BookBorrowed}, nil)
				m.borrowings.EXPECT().CountActiveByUser(gomock.Any(), int64(1)).Return(MaxActiveBorrowings, nil)
			},
			wantErr: ErrLimitExceeded,
		},
		{
			name: "book already borrowed",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2, Status: models.BookBorrowed}, nil)
				m.borrowings.EXPECT().CountActiveByUser(gomock.Any(), int64(1)).Return(0, nil)
			},
			wantErr: ErrInvalidStateTransition,
		},
		{
			name: "concurrent insert hits unique index",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2, Status: models.BookAvailable}, nil)
				m.borrowings.EXPECT().CountActiveByUser(gomock.Any(), int64(1)).Return(0, nil)
				m.borrowingWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(repositories.ErrUniqueViolation)
			},
			wantErr: ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newBorrowingMocks(ctrl)
			tt.setup(m)

			br, err := m.service().Checkout(context.Background(), 1, 2)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, br)
		})
	}
}

func TestBorrowingService_CheckinErrors(t *testing.T) {
	returned := time.Now()

	tests := []struct {
		name    string
		setup   func(m *borrowingMocks)
		wantErr error
	}{
		{
			name: "no active borrowing",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2, Status: models.BookBorrowed}, nil)
				m.borrowings.EXPECT().FindActive(gomock.Any(), int64(1), int64(2)).Return(nil, nil)
			},
			wantErr: ErrNoActiveBorrowing,
		},
		{
			name: "borrowing already returned",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2}, nil)
				m.borrowings.EXPECT().FindActive(gomock.Any(), int64(1), int64(2)).
					Return(&models.Borrowing{ID: 5, UserID: 1, BookID: 2, CheckinDate: &returned}, nil)
			},
			wantErr: ErrAlreadyReturned,
		},
		{
			name: "write-once guard",
			setup: func(m *borrowingMocks) {
				m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
				m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2}, nil)
				m.borrowings.EXPECT().FindActive(gomock.Any(), int64(1), int64(2)).
					Return(&models.Borrowing{ID: 5, UserID: 1, BookID: 2}, nil)
				m.borrowingWriter.EXPECT().SaveCheckin(gomock.Any(), int64(5), gomock.Any()).Return(repositories.ErrNotFound)
			},
			wantErr: ErrAlreadyReturned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newBorrowingMocks(ctrl)
			tt.setup(m)

			br, err := m.service().Checkin(context.Background(), 1, 2)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, br)
		})
	}
}

func TestBorrowingService_CheckinSucceedsWhenKafkaFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newBorrowingMocks(ctrl)
	m.users.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
	m.books.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2, Status: models.BookBorrowed}, nil)
	m.borrowings.EXPECT().FindActive(gomock.Any(), int64(1), int64(2)).
		Return(&models.Borrowing{ID: 5, UserID: 1, BookID: 2, CheckoutDate: time.Now().Add(-time.Hour)}, nil)
	m.borrowingWriter.EXPECT().SaveCheckin(gomock.Any(), int64(5), gomock.Any()).Return(nil)
	m.bookWriter.EXPECT().UpdateStatus(gomock.Any(), int64(2), models.BookAvailable).Return(nil)
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("kafka error"))

	br, err := m.service().Checkin(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, br.CheckinDate)
}

func TestBorrowingService_PublishWithoutWriter(t *testing.T) {
	svc := &BorrowingService{}
	assert.NotPanics(t, func() {
		svc.publish(context.Background(), models.EventBorrowingCheckedOut, &models.Borrowing{ID: 1}, time.Now())
	})
}

func TestBorrowingService_ListRequiresExistingParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newBorrowingMocks(ctrl)
	m.users.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
	m.books.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&models.Book{ID: 2}, nil)
	m.borrowings.EXPECT().ListByBook(gomock.Any(), int64(2)).Return([]models.Borrowing{{ID: 3}}, nil)

	svc := m.service()

	_, err := svc.ListByUser(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	list, err := svc.ListByBook(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrLimitExceeded, "limit_exceeded"},
		{models.ErrBookNotAvailable, "not_available"},
		{ErrNoActiveBorrowing, "no_active_borrowing"},
		{models.ErrAlreadyReturned, "already_returned"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resultLabel(tt.err))
	}
}
