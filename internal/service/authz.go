package service

import (
	"context"
	"errors"
	"fmt"

	"audicob/internal/domain"
)

type AssignmentChecker interface {
	IsAssigned(ctx context.Context, advisorID, clientID int64) (bool, error)
}

type ClientAccountResolver interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Client, error)
}

// Authorizer decides whether a user may operate on a given client account.
// Administrators and supervisors see the whole portfolio, collection
// advisors only their assigned clients, and client accounts only themselves.
type Authorizer struct {
	assignments AssignmentChecker
	clients     ClientAccountResolver
}

func NewAuthorizer(assignments AssignmentChecker, clients ClientAccountResolver) *Authorizer {
	return &Authorizer{
		assignments: assignments,
		clients:     clients,
	}
}

func (a *Authorizer) CanActOnClient(ctx context.Context, user *domain.User, clientID int64) error {
	if user == nil {
		return domain.ErrNotAuthorized
	}

	switch user.Role {
	case domain.RoleAdministrator, domain.RoleSupervisor:
		return nil

	case domain.RoleAdvisor:
		ok, err := a.assignments.IsAssigned(ctx, user.ID, clientID)
		if err != nil {
			return fmt.Errorf("failed to check advisor assignment: %w", err)
		}
		if !ok {
			return domain.ErrNotAuthorized
		}
		return nil

	case domain.RoleClient:
		c, err := a.clients.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotAuthorized
			}
			return fmt.Errorf("failed to resolve client account: %w", err)
		}
		if c.ID != clientID {
			return domain.ErrNotAuthorized
		}
		return nil
	}

	return domain.ErrNotAuthorized
}

// RequireBackOffice allows supervisors and administrators only.
func (a *Authorizer) RequireBackOffice(user *domain.User) error {
	if user == nil {
		return domain.ErrNotAuthorized
	}
	if user.Role != domain.RoleAdministrator && user.Role != domain.RoleSupervisor {
		return domain.ErrNotAuthorized
	}
	return nil
}
