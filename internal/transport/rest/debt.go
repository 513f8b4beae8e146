package rest

import (
	"net/http"

	"audicob/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) consultDebt(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.debts.Consult(r.Context(), user, clientID)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", toDebtDetailView(detail))
}

func (h *Handler) recomputeDebt(w http.ResponseWriter, r *http.Request) {
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

	debt, err := h.debts.RecomputeAndStore(r.Context(), user, clientID)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "Deuda recalculada", toDebtSnapshotView(debt))
}
