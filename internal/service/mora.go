package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"audicob/internal/domain"
)

type TransitionStore interface {
	Append(ctx context.Context, t *domain.StateTransition) (*domain.StateTransition, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.StateTransition, error)
}

type StateChangeNotifier interface {
	NotifyStateChanged(ctx context.Context, userID, clientID int64, prev, next string) error
}

// MoraService drives the delinquency state machine. Every accepted change
// writes exactly one immutable audit row; rejected requests write nothing.
type MoraService struct {
	clients     ClientGetter
	transitions TransitionStore
	authz       *Authorizer
	ws          StateChangeNotifier

	now func() time.Time
}

func NewMoraService(
	clients ClientGetter,
	transitions TransitionStore,
	authz *Authorizer,
	ws StateChangeNotifier,
) *MoraService {
	return &MoraService{
		clients:     clients,
		transitions: transitions,
		authz:       authz,
		ws:          ws,
		now:         time.Now,
	}
}

type TransitionRequest struct {
	ClientID int64
	NewState string
	Reason   string
	Notes    *string
	Origin   domain.RequestOrigin

	// Notify asks for a push event on acceptance. The audit row is written
	// either way.
	Notify bool
}

func (s *MoraService) RequestTransition(
	ctx context.Context,
	user *domain.User,
	req TransitionRequest,
) (*domain.StateTransition, error) {
	if err := s.authz.CanActOnClient(ctx, user, req.ClientID); err != nil {
		return nil, err
	}
	if user.Role == domain.RoleClient {
		// Client accounts can read their own history but never move it.
		return nil, domain.ErrNotAuthorized
	}

	if strings.TrimSpace(req.Reason) == "" {
		return nil, domain.NewValidationError("reason", "a reason is required for every state change")
	}

	next, ok := domain.ParseDelinquencyState(req.NewState)
	if !ok {
		return nil, domain.NewValidationError("new_state", fmt.Sprintf("unknown delinquency state %q", req.NewState))
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	transition := &domain.StateTransition{
		ClientID:  client.ID,
		PrevState: client.State,
		NewState:  next,
		UserID:    user.ID,
		ChangedAt: s.now().UTC(),
		Reason:    strings.TrimSpace(req.Reason),
		Notes:     req.Notes,
		Origin:    req.Origin,
	}

	saved, err := s.transitions.Append(ctx, transition)
	if err != nil {
		return nil, err
	}

	if req.Notify && s.ws != nil {
		go func(t domain.StateTransition) {
			if err := s.ws.NotifyStateChanged(context.Background(), t.UserID, t.ClientID,
				t.PrevState.String(), t.NewState.String()); err != nil {
				log.Printf("state change notification failed: %v", err)
			}
		}(*saved)
	}

	return saved, nil
}

func (s *MoraService) History(ctx context.Context, user *domain.User, clientID int64) ([]domain.StateTransition, error) {
	if err := s.authz.CanActOnClient(ctx, user, clientID); err != nil {
		return nil, err
	}
	return s.transitions.ListByClient(ctx, clientID)
}
