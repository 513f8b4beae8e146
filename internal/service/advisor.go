package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"audicob/internal/domain"
)

type AssignmentStore interface {
	Assign(ctx context.Context, a *domain.AdvisorAssignment) error
	ListByAdvisor(ctx context.Context, advisorID int64) ([]domain.AdvisorAssignment, error)
	ListUnassigned(ctx context.Context, searchTerm string) ([]domain.Client, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type ClientLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByDocument(ctx context.Context, document string) (*domain.Client, error)
}

// AdvisorService manages advisor portfolios: which advisor works which
// client, and the lookups advisors run while on a call.
type AdvisorService struct {
	assignments AssignmentStore
	clients     ClientLookup
	users       UserGetter
	authz       *Authorizer
	notify      Dispatcher

	now func() time.Time
}

func NewAdvisorService(
	assignments AssignmentStore,
	clients ClientLookup,
	users UserGetter,
	authz *Authorizer,
	notify Dispatcher,
) *AdvisorService {
	return &AdvisorService{
		assignments: assignments,
		clients:     clients,
		users:       users,
		authz:       authz,
		notify:      notify,
		now:         time.Now,
	}
}

// AssignClient hands a client to an advisor. Reassigning moves the client;
// a client is worked by at most one advisor at a time.
func (s *AdvisorService) AssignClient(
	ctx context.Context,
	supervisor *domain.User,
	advisorID, clientID int64,
) (*domain.AdvisorAssignment, error) {
	if err := s.authz.RequireBackOffice(supervisor); err != nil {
		return nil, err
	}

	advisor, err := s.users.GetByID(ctx, advisorID)
	if err != nil {
		return nil, err
	}
	if advisor.Role != domain.RoleAdvisor {
		return nil, domain.NewValidationError("advisor_id", "user is not a collection advisor")
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	assignment := &domain.AdvisorAssignment{
		AdvisorID:  advisorID,
		ClientID:   client.ID,
		AssignedAt: s.now().UTC(),
	}

	if err := s.assignments.Assign(ctx, assignment); err != nil {
		return nil, err
	}

	if s.notify != nil {
		go func() {
			if err := s.notify.Dispatch(context.Background(), advisorID, "Cliente asignado",
				fmt.Sprintf("Se te asignó la cuenta de %s.", client.Name)); err != nil {
				log.Printf("assignment notification failed: %v", err)
			}
		}()
	}

	return assignment, nil
}

func (s *AdvisorService) Portfolio(ctx context.Context, advisor *domain.User) ([]domain.AdvisorAssignment, error) {
	if advisor == nil {
		return nil, domain.ErrNotAuthorized
	}

	switch advisor.Role {
	case domain.RoleAdvisor, domain.RoleSupervisor, domain.RoleAdministrator:
	default:
		return nil, domain.ErrNotAuthorized
	}

	return s.assignments.ListByAdvisor(ctx, advisor.ID)
}

func (s *AdvisorService) Unassigned(ctx context.Context, user *domain.User, searchTerm string) ([]domain.Client, error) {
	if err := s.authz.RequireBackOffice(user); err != nil {
		return nil, err
	}
	return s.assignments.ListUnassigned(ctx, searchTerm)
}

// LookupClient finds a client by identity document. Advisors may look up
// any client here; acting on the account still requires an assignment.
func (s *AdvisorService) LookupClient(ctx context.Context, user *domain.User, document string) (*domain.Client, error) {
	if user == nil {
		return nil, domain.ErrNotAuthorized
	}

	switch user.Role {
	case domain.RoleAdministrator, domain.RoleSupervisor, domain.RoleAdvisor:
	default:
		return nil, domain.ErrNotAuthorized
	}

	if document == "" {
		return nil, domain.NewValidationError("document", "document is required")
	}

	return s.clients.GetByDocument(ctx, document)
}
