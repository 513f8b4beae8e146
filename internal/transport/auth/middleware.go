package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"audicob/internal/domain"
)

type ctxKey string

const userKey ctxKey = "user"

type TokenFinder interface {
	FindTokenByPlainToken(ctx context.Context, plainToken string) (*domain.PersonalAccessToken, error)
}

type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// SanctumMiddleware authenticates Sanctum-style bearer tokens issued by the
// web application and loads the acting user into the request context.
// Tokens are accepted from the Authorization header or, for websocket
// upgrades, from the token query parameter.
func SanctumMiddleware(tokens TokenFinder, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			plainToken := bearerToken(r)
			if plainToken == "" {
				plainToken = r.URL.Query().Get("token")
			}
			if plainToken == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			pat, err := tokens.FindTokenByPlainToken(r.Context(), plainToken)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if pat.Expired(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), pat.UserID)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// GetUser returns the authenticated user stored by SanctumMiddleware.
func GetUser(ctx context.Context) (*domain.User, error) {
	user, ok := ctx.Value(userKey).(*domain.User)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}
