package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories.
// WithinTx serializes units of work and restores the previous state on error.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]models.User
	books      map[int64]models.Book
	borrowings map[int64]models.Borrowing
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]models.User{},
		books:      map[int64]models.Book{},
		borrowings: map[int64]models.Borrowing{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := cloneMap(s.users)
	books := cloneMap(s.books)
	borrowings := cloneMap(s.borrowings)

	if err := fn(ctx); err != nil {
		s.users, s.books, s.borrowings = users, books, borrowings
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) addUser(name string) *models.User {
	u := models.NewUser(models.NewName(name), models.NewEmail(name+"@example.com"), models.NewPassword("hash"))
	u.ID = s.id()
	s.users[u.ID] = *u
	return u
}

func (s *memStore) addBook(title string) *models.Book {
	b := models.NewBook(title, "Author", "0306406152")
	b.ID = s.id()
	s.books[b.ID] = *b
	return b
}

func (s *memStore) activeFor(bookID int64) int {
	n := 0
	for _, b := range s.borrowings {
		if b.BookID == bookID && b.IsActive() && b.DeletedAt == nil {
			n++
		}
	}
	return n
}

type memUsers struct{ s *memStore }

func (r memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email.String() == email && u.DeletedAt == nil {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) List(ctx context.Context, limit, offset uint) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.s.users {
		if u.DeletedAt == nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memBooks struct{ s *memStore }

func (r memBooks) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, ok := r.s.books[id]
	if !ok || b.DeletedAt != nil {
		return nil, nil
	}
	return &b, nil
}

func (r memBooks) GetByIDForUpdate(ctx context.Context, id int64) (*models.Book, error) {
	return r.GetByID(ctx, id)
}

func (r memBooks) List(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	out := []models.Book{}
	for _, b := range r.s.books {
		if b.DeletedAt == nil && (filter.Status == "" || b.Status == filter.Status) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBooks) Save(ctx context.Context, book *models.Book) error {
	book.ID = r.s.id()
	r.s.books[book.ID] = *book
	return nil
}

func (r memBooks) Update(ctx context.Context, book *models.Book) error {
	if _, ok := r.s.books[book.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.s.books[book.ID] = *book
	return nil
}

func (r memBooks) UpdateStatus(ctx context.Context, id int64, status models.BookStatus) error {
	b, ok := r.s.books[id]
	if !ok || b.DeletedAt != nil {
		return repositories.ErrNotFound
	}
	b.Status = status
	r.s.books[id] = b
	return nil
}

func (r memBooks) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	b, ok := r.s.books[id]
	if !ok || b.DeletedAt != nil {
		return repositories.ErrNotFound
	}
	b.MarkDeleted(at)
	r.s.books[id] = b
	for bid, br := range r.s.borrowings {
		if br.BookID == id && br.DeletedAt == nil {
			br.DeletedAt = &at
			r.s.borrowings[bid] = br
		}
	}
	return nil
}

type memBorrowings struct{ s *memStore }

func (r memBorrowings) FindActive(ctx context.Context, userID, bookID int64) (*models.Borrowing, error) {
	for _, b := range r.s.borrowings {
		if b.UserID == userID && b.BookID == bookID && b.IsActive() && b.DeletedAt == nil {
			return &b, nil
		}
	}
	return nil, nil
}

func (r memBorrowings) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, b := range r.s.borrowings {
		if b.UserID == userID && b.IsActive() && b.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (r memBorrowings) list(match func(models.Borrowing) bool) []models.Borrowing {
	out := []models.Borrowing{}
	for _, b := range r.s.borrowings {
		if b.DeletedAt == nil && match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memBorrowings) ListByUser(ctx context.Context, userID int64) ([]models.Borrowing, error) {
	return r.list(func(b models.Borrowing) bool { return b.UserID == userID }), nil
}

func (r memBorrowings) ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	return r.list(func(b models.Borrowing) bool { return b.BookID == bookID }), nil
}

func (r memBorrowings) Save(ctx context.Context, b *models.Borrowing) error {
	if r.s.activeFor(b.BookID) > 0 {
		return repositories.ErrUniqueViolation
	}
	b.ID = r.s.id()
	r.s.borrowings[b.ID] = *b
	return nil
}

func (r memBorrowings) SaveCheckin(ctx context.Context, id int64, at time.Time) error {
	b, ok := r.s.borrowings[id]
	if !ok || !b.IsActive() || b.DeletedAt != nil {
		return repositories.ErrNotFound
	}
	b.CheckinDate = &at
	r.s.borrowings[id] = b
	return nil
}
