package rest

import (
	"net/http"

	"audicob/internal/transport/auth"
)

func (h *Handler) getWorklist(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	filter, err := ParseWorklistFilter(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	summaries, err := h.worklist.List(r.Context(), user, filter)
	if err != nil {
		RespondError(w, err)
		return
	}

	views := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, toSummaryView(s))
	}

	Success(w, "", views)
}
