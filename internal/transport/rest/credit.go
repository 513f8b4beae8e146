package rest

import (
	"encoding/json"
	"net/http"

	"audicob/internal/transport/auth"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type assignCreditLineRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) assignCreditLine(w http.ResponseWriter, r *http.Request) {
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

	var req assignCreditLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ErrorBadRequest(w, "amount must be a number")
		return
	}

	line, err := h.credit.AssignCreditLine(r.Context(), user, clientID, amount)
	if err != nil {
		RespondError(w, err)
		return
	}

	SuccessCreated(w, "Línea de crédito asignada", toCreditLineView(line))
}

func (h *Handler) getCreditLine(w http.ResponseWriter, r *http.Request) {
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

	line, err := h.credit.CreditLine(r.Context(), user, clientID)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", toCreditLineView(line))
}
