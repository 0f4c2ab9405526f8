package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
	"github.com/sbilibin2017/gw-library/internal/services"
	"github.com/sbilibin2017/gw-library/internal/validation"
)

func passthroughTx(ctrl *gomock.Controller) *services.MockTransactor {
	tx := services.NewMockTransactor(ctrl)
	tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	return tx
}

func TestBookService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := services.NewMockBookReader(ctrl)
	writer := services.NewMockBookWriter(ctrl)
	svc := services.NewBookService(passthroughTx(ctrl), reader, writer, validation.New())

	tests := []struct {
		name      string
		title     string
		author    string
		isbn      string
		saveErr   error
		wantSave  bool
		wantErr   error
		wantValid bool
	}{
		{name: "ok", title: "Go", author: "Pike", isbn: "0306406152", wantSave: true},
		{name: "missing author", title: "Go", isbn: "0306406152", wantErr: services.ErrMandatoryFields},
		{name: "bad isbn", title: "Go", author: "Pike", isbn: "0306406153", wantValid: true},
		{name: "duplicate isbn", title: "Go", author: "Pike", isbn: "0306406152", wantSave: true, saveErr: repositories.ErrUniqueViolation, wantErr: services.ErrISBNAlreadyExists},
		{name: "storage failure", title: "Go", author: "Pike", isbn: "0306406152", wantSave: true, saveErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantSave {
				writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(tt.saveErr)
			}

			book, err := svc.Create(context.Background(), tt.title, tt.author, tt.isbn)
			switch {
			case tt.wantValid:
				var vErr *services.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, []string{"Invalid ISBN"}, vErr.Messages)
			case tt.wantErr != nil:
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, book)
			default:
				assert.NoError(t, err)
				assert.Equal(t, models.BookAvailable, book.Status)
			}
		})
	}
}

func TestBookService_Create_NormalizesISBN(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := services.NewMockBookWriter(ctrl)
	svc := services.NewBookService(passthroughTx(ctrl), services.NewMockBookReader(ctrl), writer, validation.New())
	ctx := context.Background()

	stored := map[string]bool{}
	writer.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, b *models.Book) error {
		if stored[b.ISBN] {
			return repositories.ErrUniqueViolation
		}
		stored[b.ISBN] = true
		return nil
	}).Times(4)

	book, err := svc.Create(ctx, "Go", "Pike", "0306406152")
	require.NoError(t, err)
	assert.Equal(t, "0306406152", book.ISBN)

	for _, variant := range []string{"0-306-40615-2", "0 306 40615 2"} {
		_, err = svc.Create(ctx, "Go", "Pike", variant)
		assert.ErrorIs(t, err, services.ErrISBNAlreadyExists, variant)
	}

	book, err = svc.Create(ctx, "Other", "Someone", "0-8044-2957-x")
	require.NoError(t, err)
	assert.Equal(t, "080442957X", book.ISBN)
}

func TestBookService_DuplicateMatchesDuplicateKey(t *testing.T) {
	assert.ErrorIs(t, services.ErrISBNAlreadyExists, services.ErrDuplicateKey)
	assert.ErrorIs(t, services.ErrEmailAlreadyExists, services.ErrDuplicateKey)
	assert.NotErrorIs(t, services.ErrBookNotFound, services.ErrDuplicateKey)
}

func TestBookService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := services.NewMockBookReader(ctrl)
	writer := services.NewMockBookWriter(ctrl)
	svc := services.NewBookService(passthroughTx(ctrl), reader, writer, validation.New())
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		reader.EXPECT().GetByID(ctx, int64(1)).Return(nil, nil)
		_, err := svc.Update(ctx, 1, "Go", "Pike", "0306406152")
		assert.ErrorIs(t, err, services.ErrBookNotFound)
	})

	t.Run("keeps status", func(t *testing.T) {
		reader.EXPECT().GetByID(ctx, int64(2)).Return(&models.Book{ID: 2, Status: models.BookBorrowed}, nil)
		writer.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		book, err := svc.Update(ctx, 2, "Go 2", "Pike", "0306406152")
		assert.NoError(t, err)
		assert.Equal(t, "Go 2", book.Title)
		assert.Equal(t, models.BookBorrowed, book.Status)
	})

	t.Run("normalizes isbn", func(t *testing.T) {
		reader.EXPECT().GetByID(ctx, int64(3)).Return(&models.Book{ID: 3, Status: models.BookAvailable}, nil)
		writer.EXPECT().Update(ctx, gomock.Any()).Return(repositories.ErrUniqueViolation)

		_, err := svc.Update(ctx, 3, "Go", "Pike", "0-306-40615-2")
		assert.ErrorIs(t, err, services.ErrISBNAlreadyExists)
	})

	t.Run("stores isbn without separators", func(t *testing.T) {
		reader.EXPECT().GetByID(ctx, int64(4)).Return(&models.Book{ID: 4, Status: models.BookAvailable}, nil)
		writer.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		book, err := svc.Update(ctx, 4, "Go", "Pike", "0 306 40615 2")
		require.NoError(t, err)
		assert.Equal(t, "0306406152", book.ISBN)
	})
}

func TestBookService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := services.NewMockBookReader(ctrl)
	writer := services.NewMockBookWriter(ctrl)
	svc := services.NewBookService(passthroughTx(ctrl), reader, writer, validation.New())
	ctx := context.Background()

	reader.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(nil, nil)
	assert.ErrorIs(t, svc.Delete(ctx, 1), services.ErrBookNotFound)

	reader.EXPECT().GetByIDForUpdate(gomock.Any(), int64(2)).Return(&models.Book{ID: 2, Status: models.BookBorrowed}, nil)
	writer.EXPECT().SoftDelete(gomock.Any(), int64(2), gomock.Any()).Return(nil)
	assert.NoError(t, svc.Delete(ctx, 2))
}

func TestBookService_GetAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := services.NewMockBookReader(ctrl)
	svc := services.NewBookService(passthroughTx(ctrl), reader, services.NewMockBookWriter(ctrl), validation.New())
	ctx := context.Background()

	reader.EXPECT().GetByID(ctx, int64(1)).Return(nil, nil)
	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, services.ErrBookNotFound)

	filter := models.BookFilter{Status: models.BookAvailable, Limit: 10}
	reader.EXPECT().List(ctx, filter).Return([]models.Book{{ID: 1}, {ID: 2}}, nil)
	books, err := svc.List(ctx, filter)
	assert.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestBookService_Get_LogsRequestFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	originalLog := logger.Log
	defer func() { logger.Log = originalLog }()
	core, logs := observer.New(zap.ErrorLevel)
	logger.Log = zap.New(core).Sugar()

	reader := services.NewMockBookReader(ctrl)
	svc := services.NewBookService(passthroughTx(ctrl), reader, services.NewMockBookWriter(ctrl), validation.New())

	ctx := logger.WithFields(context.Background(), "request_id", "req-42", "user_id", int64(7))
	reader.EXPECT().GetByID(ctx, int64(9)).Return(nil, errors.New("db error"))

	_, err := svc.Get(ctx, 9)
	require.Error(t, err)

	entries := logs.FilterMessage("failed to get book").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-42", fields["request_id"])
		assert.Equal(t, int64(7), fields["user_id"])
		assert.Equal(t, int64(9), fields["id"])
	}
}
