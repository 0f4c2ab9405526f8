package middlewares

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=middlewares

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-library/internal/jwt"
	"github.com/sbilibin2017/gw-library/internal/logger"
	"github.com/sbilibin2017/gw-library/internal/models"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// RevocationChecker reports whether a token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// AuthMiddleware returns a middleware that rejects requests without a valid,
// unrevoked bearer token granting the user role. The user id and token id are
// attached to the request's log fields.
func AuthMiddleware(tokener Tokener, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.FromContext(ctx).Errorw("authorization failed", "err", err)
				unauthorized(w)
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.FromContext(ctx).Errorw("authorization failed", "err", err)
				unauthorized(w)
				return
			}

			revoked, err := revocations.IsRevoked(ctx, tokenString)
			if err != nil {
				logger.FromContext(ctx).Errorw("revocation check failed", "err", err)
				unauthorized(w)
				return
			}
			if revoked {
				logger.FromContext(ctx).Infow("revoked token rejected", "jti", claims.ID, "user_id", claims.UserID)
				unauthorized(w)
				return
			}

			if !models.Roles(claims.Roles).Has(models.RoleUser) {
				logger.FromContext(ctx).Infow("token without user role rejected", "jti", claims.ID, "user_id", claims.UserID)
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}

			ctx = logger.WithFields(ctx, "user_id", claims.UserID, "jti", claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "Unauthorized")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
