package services

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-library/internal/jwt"
	"github.com/sbilibin2017/gw-library/internal/logger"
)

// JWTGenerator defines an interface for issuing and parsing JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64, roles []string) (string, error)
	GetClaims(ctx context.Context, token string) (*jwt.Claims, error)
}

// TokenRevoker stores revoked token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService handles login and logout.
type AuthService struct {
	reader  UserReader
	jwt     JWTGenerator
	revoker TokenRevoker
	now     func() time.Time
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, jwt JWTGenerator, revoker TokenRevoker) *AuthService {
	return &AuthService{
		reader:  reader,
		jwt:     jwt,
		revoker: revoker,
		now:     time.Now,
	}
}

// Login authenticates a user and returns a JWT token.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMandatoryFields
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.FromContext(ctx).Infow("login for unknown email", "email", email)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.String()), []byte(password)); err != nil {
		logger.FromContext(ctx).Infow("invalid credentials", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.ID, user.Roles)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

// Logout revokes the token until it would expire.
func (svc *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := svc.jwt.GetClaims(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}

	if err := svc.revoker.Revoke(ctx, claims.ID, claims.TTL(svc.now())); err != nil {
		logger.FromContext(ctx).Errorw("failed to revoke token", "jti", claims.ID, "err", err)
		return err
	}
	return nil
}

// IsRevoked reports whether the token was logged out.
func (svc *AuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	claims, err := svc.jwt.GetClaims(ctx, token)
	if err != nil {
		return false, ErrInvalidToken
	}

	revoked, err := svc.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to check token revocation", "jti", claims.ID, "err", err)
		return false, err
	}
	return revoked, nil
}
