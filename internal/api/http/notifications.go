package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authmw "github.com/rihla-academy/rihla-lms/internal/auth/middleware"
	"github.com/rihla-academy/rihla-lms/internal/notify"
)

// GET /notifications?limit=
func ListNotificationsHandler(repo *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := repo.ListForUser(r.Context(), sub, limit)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// POST /notifications/{notificationID}/read
func MarkNotificationReadHandler(repo *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		id, err := strconv.ParseInt(chi.URLParam(r, "notificationID"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := repo.MarkRead(r.Context(), sub, id); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
