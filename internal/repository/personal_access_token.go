package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"audicob/internal/domain"
)

type PersonalAccessTokenRepository struct {
	db *sql.DB
}

func NewPersonalAccessTokenRepository(db *sql.DB) *PersonalAccessTokenRepository {
	return &PersonalAccessTokenRepository{db: db}
}

// FindTokenByPlainToken resolves a Sanctum-style bearer token. Tokens arrive
// as "<id>|<secret>" or bare secret; the stored value is the sha256 hex of
// the secret.
func (r *PersonalAccessTokenRepository) FindTokenByPlainToken(ctx context.Context, plainToken string) (*domain.PersonalAccessToken, error) {
	plainToken = strings.TrimSpace(plainToken)
	if plainToken == "" {
		return nil, domain.ErrNotFound
	}

	var (
		tokenID   *int64
		tokenPart string
	)
	if idx := strings.Index(plainToken, "|"); idx > 0 {
		if id, err := strconv.ParseInt(plainToken[:idx], 10, 64); err == nil {
			tokenID = &id
		}
		tokenPart = plainToken[idx+1:]
	} else {
		tokenPart = plainToken
	}

	sum := sha256.Sum256([]byte(tokenPart))
	hashStr := fmt.Sprintf("%x", sum)

	var pat domain.PersonalAccessToken

	if tokenID != nil {
		err := r.db.QueryRowContext(ctx, `
			SELECT id, token, user_id, abilities, expires_at
			FROM personal_access_tokens
			WHERE id = $1
			  AND (expires_at IS NULL OR expires_at > $2)`,
			*tokenID, time.Now(),
		).Scan(&pat.ID, &pat.TokenHash, &pat.UserID, &pat.Abilities, &pat.ExpiresAt)
		if err == nil && pat.TokenHash == hashStr {
			return &pat, nil
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, token, user_id, abilities, expires_at
		FROM personal_access_tokens
		WHERE token = $1
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT 1`,
		hashStr, time.Now(),
	).Scan(&pat.ID, &pat.TokenHash, &pat.UserID, &pat.Abilities, &pat.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &pat, nil
}
