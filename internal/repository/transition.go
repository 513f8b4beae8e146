package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"audicob/internal/domain"
)

type TransitionRepository struct {
	db *sql.DB
}

func NewTransitionRepository(db *sql.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// Append records a state change in a single transaction. The client row is
// locked, the current state becomes the transition's previous state, then the
// history row is inserted and the client pointer updated. A transition to the
// client's current state is rejected.
func (r *TransitionRepository) Append(ctx context.Context, t *domain.StateTransition) (*domain.StateTransition, error) {
	saved := *t

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			current string
			version int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT delinquency_state, version FROM clients WHERE id = $1 FOR UPDATE`,
			t.ClientID,
		).Scan(&current, &version)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		prev, ok := domain.ParseDelinquencyState(current)
		if !ok {
			return fmt.Errorf("client %d: unknown delinquency state %q", t.ClientID, current)
		}
		if prev == t.NewState {
			return domain.NewValidationError("new_state", "client is already in that state")
		}
		saved.PrevState = prev

		err = tx.QueryRowContext(ctx, `
			INSERT INTO delinquency_transitions
				(client_id, prev_state, new_state, user_id, changed_at, reason, notes, ip_address, user_agent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			saved.ClientID,
			saved.PrevState,
			saved.NewState,
			saved.UserID,
			saved.ChangedAt,
			saved.Reason,
			saved.Notes,
			saved.Origin.IPAddress,
			saved.Origin.UserAgent,
		).Scan(&saved.ID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE clients
			SET delinquency_state = $1, updated_at = $2, version = version + 1
			WHERE id = $3 AND version = $4`,
			saved.NewState, saved.ChangedAt, saved.ClientID, version,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListByClient returns the client's transition history, newest first.
func (r *TransitionRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.StateTransition, error) {
	query := `
		SELECT id, client_id, prev_state, new_state, user_id, changed_at, reason, notes, ip_address, user_agent
		FROM delinquency_transitions
		WHERE client_id = $1
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StateTransition
	for rows.Next() {
		var (
			t          domain.StateTransition
			prev, next string
		)
		if err := rows.Scan(
			&t.ID,
			&t.ClientID,
			&prev,
			&next,
			&t.UserID,
			&t.ChangedAt,
			&t.Reason,
			&t.Notes,
			&t.Origin.IPAddress,
			&t.Origin.UserAgent,
		); err != nil {
			return nil, err
		}

		if st, ok := domain.ParseDelinquencyState(prev); ok {
			t.PrevState = st
		}
		if st, ok := domain.ParseDelinquencyState(next); ok {
			t.NewState = st
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
