package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"audicob/internal/service"
	"audicob/internal/transport/auth"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type applyPaymentRequest struct {
	Amount string  `json:"amount"`
	Method string  `json:"method"`
	Note   *string `json:"note"`
}

func (h *Handler) applyPayment(w http.ResponseWriter, r *http.Request) {
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

	var req applyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ErrorBadRequest(w, "amount must be a number")
		return
	}

	payment, err := h.payments.ApplyPayment(r.Context(), user, service.ApplyPaymentRequest{
		ClientID: clientID,
		Amount:   amount,
		Method:   req.Method,
		Note:     req.Note,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	SuccessCreated(w, "Pago registrado", toPaymentView(payment))
}

type validatePaymentRequest struct {
	Note string `json:"note"`
}

func (h *Handler) validatePayment(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	paymentID, err := URLParamInt64(chi.URLParam(r, "payment_id"), "payment_id")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	var req validatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	payment, err := h.payments.ValidatePayment(r.Context(), user, paymentID, req.Note)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "Pago validado", toPaymentView(payment))
}

func (h *Handler) pendingPayments(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	pending, err := h.payments.PendingValidations(r.Context(), user, limit)
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]paymentView, 0, len(pending))
	for i := range pending {
		views = append(views, toPaymentView(&pending[i]))
	}

	Success(w, "", views)
}
