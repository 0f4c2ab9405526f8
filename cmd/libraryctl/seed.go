package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/models"
	"github.com/sbilibin2017/gw-library/internal/repositories"
	"github.com/sbilibin2017/gw-library/internal/services"
	"github.com/sbilibin2017/gw-library/internal/validation"
)

// seedPassword is shared by every seeded user.
const seedPassword = "password"

type bookCreator interface {
	Create(ctx context.Context, title, author, isbn string) (*models.Book, error)
}

type userCreator interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
}

type seedResult struct {
	Books   int
	Users   int
	Skipped int
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		books int
		users int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample books and users",
		Long: `Insert sample books with random valid ISBN-10 numbers and users
user1@example.com .. userN@example.com with the password "password".
Rows that already exist are skipped.

Examples:
  libraryctl seed
  libraryctl seed --books 100 --users 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			tx := repositories.NewTxManager(db)
			v := validation.New()
			bookSvc := services.NewBookService(tx,
				repositories.NewBookReadRepository(db, repositories.GetTxFromContext),
				repositories.NewBookWriteRepository(db, repositories.GetTxFromContext), v)
			userSvc := services.NewUserService(tx,
				repositories.NewUserReadRepository(db, repositories.GetTxFromContext),
				repositories.NewUserWriteRepository(db, repositories.GetTxFromContext), v)

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			res, err := seedLibrary(ctx, bookSvc, userSvc, books, users, rand.New(rand.NewPCG(seed, seed>>1)))
			if err != nil {
				return err
			}
			cmd.Printf("Seeded %d books and %d users, skipped %d\n", res.Books, res.Users, res.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&books, "books", 20, "Number of books to create")
	cmd.Flags().IntVar(&users, "users", 10, "Number of users to create")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for ISBN generation (0 picks one)")
	return cmd
}

// seedLibrary creates the books and users. Duplicates are skipped, any other
// failure stops the run.
func seedLibrary(ctx context.Context, books bookCreator, users userCreator, nBooks, nUsers int, rnd *rand.Rand) (seedResult, error) {
	var res seedResult

	for i := 1; i <= nBooks; i++ {
		_, err := books.Create(ctx, fmt.Sprintf("Book Title %d", i), fmt.Sprintf("Author Name %d", i), isbn10(rnd))
		switch {
		case errors.Is(err, services.ErrDuplicateKey):
			logger.Log.Infow("book already exists, skipping", "n", i)
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed book %d: %w", i, err)
		default:
			res.Books++
		}
	}

	for i := 1; i <= nUsers; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		_, err := users.Create(ctx, fmt.Sprintf("User %d", i), email, seedPassword)
		switch {
		case errors.Is(err, services.ErrDuplicateKey):
			logger.Log.Infow("user already exists, skipping", "email", email)
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed user %s: %w", email, err)
		default:
			res.Users++
		}
	}

	return res, nil
}

// isbn10 returns a random ISBN-10 with a correct check digit.
func isbn10(rnd *rand.Rand) string {
	var b strings.Builder
	sum := 0
	for i := 1; i <= 9; i++ {
		d := rnd.IntN(10)
		sum += i * d
		b.WriteByte(byte('0' + d))
	}
	if check := sum % 11; check == 10 {
		b.WriteByte('X')
	} else {
		b.WriteByte(byte('0' + check))
	}
	return b.String()
}
