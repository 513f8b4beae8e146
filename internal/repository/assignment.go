package repository

import (
	"context"
	"database/sql"

	"audicob/internal/domain"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// IsAssigned reports whether the advisor manages the client. This is the
// capability check behind every state change and payment.
func (r *AssignmentRepository) IsAssigned(ctx context.Context, advisorID, clientID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM advisor_assignments
			WHERE advisor_id = $1 AND client_id = $2
		)`,
		advisorID, clientID,
	).Scan(&ok)
	return ok, err
}

func (r *AssignmentRepository) Assign(ctx context.Context, a *domain.AdvisorAssignment) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO advisor_assignments (advisor_id, client_id, assigned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id) DO UPDATE
			SET advisor_id = EXCLUDED.advisor_id, assigned_at = EXCLUDED.assigned_at
		RETURNING id`,
		a.AdvisorID, a.ClientID, a.AssignedAt,
	).Scan(&a.ID)
}

func (r *AssignmentRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]domain.AdvisorAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, advisor_id, client_id, assigned_at
		FROM advisor_assignments
		WHERE advisor_id = $1
		ORDER BY assigned_at DESC`,
		advisorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AdvisorAssignment
	for rows.Next() {
		var a domain.AdvisorAssignment
		if err := rows.Scan(&a.ID, &a.AdvisorID, &a.ClientID, &a.AssignedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListUnassigned returns clients with no advisor, optionally filtered by a
// name/document search term.
func (r *AssignmentRepository) ListUnassigned(ctx context.Context, searchTerm string) ([]domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients c
		WHERE NOT EXISTS (
			SELECT 1 FROM advisor_assignments aa WHERE aa.client_id = c.id
		)
	`
	args := []any{}
	if searchTerm != "" {
		query += ` AND (c.name ILIKE $1 OR c.document ILIKE $1)`
		args = append(args, "%"+searchTerm+"%")
	}
	query += ` ORDER BY c.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
