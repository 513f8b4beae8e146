package rest

import (
	"net/http"

	"audicob/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	notifications, err := h.notifications.List(r.Context(), user.ID)
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, toNotificationView(n))
	}

	Success(w, "", views)
}

func (h *Handler) readNotification(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	id, err := URLParamInt64(chi.URLParam(r, "notification_id"), "notification_id")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, user.ID); err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", nil)
}

func (h *Handler) readAllNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	updated, err := h.notifications.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		RespondError(w, err)
		return
	}

	Success(w, "", map[string]interface{}{
		"updated": updated,
	})
}
