package rest

import (
	"net/http"

	"audicob/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) getStatement(w http.ResponseWriter, r *http.Request) {
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

	filter, err := ParseStatementFilter(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	transactions, err := h.statements.Statement(r.Context(), user, clientID, filter)
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]transactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, toTransactionView(t))
	}

	Success(w, "", views)
}

func (h *Handler) exportStatement(w http.ResponseWriter, r *http.Request) {
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

	filter, err := ParseStatementFilter(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	exportID, err := h.statements.StartStatementExport(r.Context(), user, clientID, filter)
	if err != nil {
		RespondError(w, err)
		return
	}

	SuccessAccepted(w, "Exportación en cola", map[string]interface{}{
		"export_id": exportID,
	})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	exports, err := h.statements.GetExports(r.Context(), user.ID)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", exports)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	exportIDParam := chi.URLParam(r, "export_id")
	if exportIDParam == "" {
		ErrorBadRequest(w, "export_id is required")
		return
	}
	exportID := "statement_exports:" + exportIDParam

	export, err := h.statements.GetExport(r.Context(), exportID, user.ID)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", export)
}
