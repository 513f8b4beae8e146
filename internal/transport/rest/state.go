package rest

import (
	"encoding/json"
	"net/http"

	"audicob/internal/domain"
	"audicob/internal/service"
	"audicob/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

type changeStateRequest struct {
	NewState string  `json:"new_state"`
	Reason   string  `json:"reason"`
	Notes    *string `json:"notes"`
	Notify   bool    `json:"notify"`
}

func (h *Handler) changeState(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	clientID, err := URLParamInt64(chi.URLParam(r, "client_id"), "client_id")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	var req changeStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	transition, err := h.states.RequestTransition(r.Context(), user, service.TransitionRequest{
		ClientID: clientID,
		NewState: req.NewState,
		Reason:   req.Reason,
		Notes:    req.Notes,
		Notify:   req.Notify,
		Origin: domain.RequestOrigin{
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		},
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	SuccessCreated(w, "Estado actualizado", toTransitionView(transition))
}

func (h *Handler) stateHistory(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	clientID, err := URLParamInt64(chi.URLParam(r, "client_id"), "client_id")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	history, err := h.states.History(r.Context(), user, clientID)
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]transitionView, 0, len(history))
	for i := range history {
		views = append(views, toTransitionView(&history[i]))
	}

	Success(w, "", views)
}
