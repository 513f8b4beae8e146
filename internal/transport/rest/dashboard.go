package rest

import (
	"net/http"

	"audicob/internal/transport/auth"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	overview, err := h.dashboard.Overview(r.Context(), user)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", toDashboardView(overview))
}
