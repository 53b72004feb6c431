package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authmw "github.com/rihla-academy/rihla-lms/internal/auth/middleware"
	"github.com/rihla-academy/rihla-lms/internal/rbac"
	"github.com/rihla-academy/rihla-lms/internal/schedule"
)

// GET /courses/{courseID}/schedule
func GetScheduleHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		plan, err := store.LoadDayPlans(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	}
}

// POST /courses/{courseID}/schedule
// Upsert one day.
func SaveDayHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		var d schedule.DayPlan
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if d.DayNumber < 1 {
			http.Error(w, "day_number must be positive", http.StatusBadRequest)
			return
		}
		if err := store.SaveDayPlan(r.Context(), courseID, d); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "day_number": d.DayNumber})
	}
}

// POST /courses/{courseID}/schedule/days
// Append the next day.
func AppendDayHandler(store schedule.Store, dayTitleFormat string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		plan, err := store.LoadDayPlans(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		plan = schedule.AppendDay(plan, dayTitleFormat)
		day := plan[len(plan)-1]
		if err := store.SaveDayPlan(r.Context(), courseID, day); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(day)
	}
}

// POST /courses/{courseID}/schedule/autofill
// Expand the whole plan from a
// template and save every day. Days are saved independently; days that fail
// are listed in the response so the caller can retry just those.
func AutoFillHandler(store schedule.Store, defaultExamTime int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		var cfg schedule.TemplateConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if cfg.DefaultExamTime == 0 {
			cfg.DefaultExamTime = defaultExamTime
		}

		plan, err := store.LoadDayPlans(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if len(plan) == 0 {
			http.Error(w, "course has no schedule", http.StatusNotFound)
			return
		}
		plan = schedule.Expand(plan, cfg)

		err = schedule.SaveAll(r.Context(), store, courseID, plan)
		w.Header().Set("Content-Type", "application/json")
		if se, ok := err.(*schedule.SaveError); ok {
			failed := make([]int, len(se.Days))
			for i, d := range se.Days {
				failed[i] = d.DayNumber
			}
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":      "partial",
				"failed_days": failed,
				"error":       se.Error(),
			})
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "schedule": plan})
	}
}

// POST /courses/templates
// Persist a template record for reuse. The stored
// daily content is a snapshot; future expansions re-run from the template
// config, never from past results.
func SaveTemplateHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t schedule.TemplateRecord
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if t.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		t.CreatedBy = authmw.SubjectFromContext(r.Context())
		if err := store.SaveTemplate(r.Context(), t); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// GET /courses/{courseID}/schedule/{dayNumber}/exam
// The day's exam.
// Students get it with the answer key stripped.
func GetDayExamHandler(store schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		dayNumber, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
		if err != nil || dayNumber < 1 {
			http.Error(w, "bad day number", http.StatusBadRequest)
			return
		}
		plan, err := store.LoadDayPlans(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		for _, d := range plan {
			if d.DayNumber != dayNumber || d.ExamContent == nil {
				continue
			}
			ec := *d.ExamContent
			if rbac.RoleFromContext(r.Context()) == "student" {
				ec = schedule.StripAnswers(ec)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(ec)
			return
		}
		http.Error(w, "exam not found", http.StatusNotFound)
	}
}
