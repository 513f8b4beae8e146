package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"audicob/internal/domain"
)

type APIResponse struct {
	ErrorCode int         `json:"error_code"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

func Response(w http.ResponseWriter, message string, data interface{}, errorCode int, status string, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	response := APIResponse{
		ErrorCode: errorCode,
		Status:    status,
		Message:   message,
		Data:      data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("[HTTP] write response error: %v", err)
	}
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusOK)
}

func SuccessCreated(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusCreated)
}

func SuccessAccepted(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusAccepted)
}

func Error(w http.ResponseWriter, message string, errorCode int, httpStatus int) {
	Response(w, message, nil, errorCode, "error", httpStatus)
}

func ErrorBadRequest(w http.ResponseWriter, message string) {
	Error(w, message, 400, http.StatusBadRequest)
}

func ErrorUnauthorized(w http.ResponseWriter, message string) {
	Error(w, message, 401, http.StatusUnauthorized)
}

func ErrorForbidden(w http.ResponseWriter, message string) {
	Error(w, message, 403, http.StatusForbidden)
}

func ErrorNotFound(w http.ResponseWriter, message string) {
	Error(w, message, 404, http.StatusNotFound)
}

func ErrorConflict(w http.ResponseWriter, message string) {
	Error(w, message, 409, http.StatusConflict)
}

func ErrorInternal(w http.ResponseWriter, message string) {
	Error(w, message, 500, http.StatusInternalServerError)
}

// RespondError maps service errors onto the response envelope. Unknown
// errors are logged and hidden behind a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		ErrorBadRequest(w, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		ErrorNotFound(w, "not found")
	case errors.Is(err, domain.ErrNotAuthorized):
		ErrorForbidden(w, "forbidden")
	case errors.Is(err, domain.ErrAlreadyValidated):
		ErrorConflict(w, "payment already validated")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		ErrorConflict(w, "concurrent update, retry the request")
	default:
		log.Printf("[HTTP] internal error: %v", err)
		ErrorInternal(w, "internal error")
	}
}
