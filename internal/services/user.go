package services

//go:generate mockgen -source=user.go -destination=mock_user.go -package=services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
)

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

// UserService manages user accounts.
type UserService struct {
	tx        Transactor
	reader    UserReader
	writer    UserWriter
	validator Validator
	now       func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(tx Transactor, reader UserReader, writer UserWriter, validator Validator) *UserService {
	return &UserService{
		tx:        tx,
		reader:    reader,
		writer:    writer,
		validator: validator,
		now:       time.Now,
	}
}

// Create registers a user. The password is validated in plaintext and
// stored as a bcrypt hash.
func (svc *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMandatoryFields
	}
	if err := validate(svc.validator, models.UserInput{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}

	hash, err := hashPassword(ctx, password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(models.NewName(name), models.NewEmail(email), hash)
	if err := svc.writer.Save(ctx, user); err != nil {
		logger.FromContext(ctx).Errorw("failed to save user", "email", email, "error", err)
		return nil, mapUserWriteError(err)
	}
	return user, nil
}

// Update changes name and email. The password is re-hashed only when given.
func (svc *UserService) Update(ctx context.Context, id int64, name, email string, password *string) (*models.User, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get user", "id", id, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if name == "" || email == "" || (password != nil && *password == "") {
		return nil, ErrMandatoryFields
	}
	input := models.UserInput{Name: name, Email: email}
	if password != nil {
		input.Password = *password
	}
	if err := validate(svc.validator, input); err != nil {
		return nil, err
	}

	user.Name = models.NewName(name)
	user.Email = models.NewEmail(email)
	if password != nil {
		hash, err := hashPassword(ctx, *password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := svc.writer.Update(ctx, user); err != nil {
		logger.FromContext(ctx).Errorw("failed to update user", "id", id, "error", err)
		return nil, mapUserWriteError(err)
	}
	return user, nil
}

// Delete soft-deletes the user and their borrowings.
func (svc *UserService) Delete(ctx context.Context, id int64) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := svc.reader.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		now := svc.now()
		user.MarkDeleted(now)
		return svc.writer.SoftDelete(ctx, user.ID, now)
	})
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		logger.FromContext(ctx).Errorw("failed to delete user", "id", id, "error", err)
	}
	return err
}

// Get returns a non-deleted user.
func (svc *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get user", "id", id, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns a page of users. A zero limit means no limit.
func (svc *UserService) List(ctx context.Context, limit, offset uint) ([]models.User, error) {
	users, err := svc.reader.List(ctx, limit, offset)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func hashPassword(ctx context.Context, password string) (models.Password, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to hash password", "err", err)
		return models.Password{}, err
	}
	return models.NewPassword(string(hashed)), nil
}

func mapUserWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUniqueViolation):
		return ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrForeignKeyViolation):
		return ErrForeignKeyViolation
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUserNotFound
	default:
		return err
	}
}
