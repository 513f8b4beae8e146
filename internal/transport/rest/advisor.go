package rest

import (
	"encoding/json"
	"net/http"

	"audicob/internal/transport/auth"
)

type assignClientRequest struct {
	AdvisorID int64 `json:"advisor_id"`
	ClientID  int64 `json:"client_id"`
}

func (h *Handler) assignClient(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	var req assignClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}
	if req.AdvisorID <= 0 || req.ClientID <= 0 {
		ErrorBadRequest(w, "advisor_id and client_id are required")
		return
	}

	assignment, err := h.advisors.AssignClient(r.Context(), user, req.AdvisorID, req.ClientID)
	if err != nil {
		RespondError(w, err)
		return
	}

	SuccessCreated(w, "Cliente asignado", toAssignmentView(*assignment))
}

func (h *Handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	assignments, err := h.advisors.Portfolio(r.Context(), user)
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, toAssignmentView(a))
	}

	Success(w, "", views)
}

func (h *Handler) listUnassigned(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	clients, err := h.advisors.Unassigned(r.Context(), user, r.URL.Query().Get("search_term"))
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]clientView, 0, len(clients))
	for i := range clients {
		views = append(views, toClientView(&clients[i]))
	}

	Success(w, "", views)
}

func (h *Handler) lookupClient(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	client, err := h.advisors.LookupClient(r.Context(), user, r.URL.Query().Get("document"))
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", toClientView(client))
}
