package http

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/rihla-academy/rihla-lms/internal/auth/middleware"
	"github.com/rihla-academy/rihla-lms/internal/notify"
	"github.com/rihla-academy/rihla-lms/internal/rbac"
	"github.com/rihla-academy/rihla-lms/internal/schedule"
)

type Course struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DurationDays int    `json:"duration_days"`
	Status       string `json:"status"`
}

// POST /courses
// Create a course and seed one empty schedule day per
// duration day, so the scheduler page always has rows to fill.
func CreateCourseHandler(dbh *sql.DB, store schedule.Store, dayTitleFormat string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		var req struct {
			Name              string          `json:"name"`
			Description       string          `json:"description"`
			DurationDays      int             `json:"duration_days"`
			ParticipantConfig json.RawMessage `json:"participant_config"`
			Details           json.RawMessage `json:"details"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.DurationDays < 1 {
			req.DurationDays = 7
		}
		participantCfg := "{}"
		if len(req.ParticipantConfig) > 0 {
			participantCfg = string(req.ParticipantConfig)
		}
		details := "{}"
		if len(req.Details) > 0 {
			details = string(req.Details)
		}

		courseID := "c-" + uuid.NewString()
		if _, err := dbh.ExecContext(r.Context(), `INSERT INTO courses
				(id, name, description, duration_days, status, participant_config, details, created_by, created_at)
			VALUES ($1,$2,$3,$4,'draft',$5,$6,$7,$8)`,
			courseID, req.Name, req.Description, req.DurationDays,
			participantCfg, details, sub, time.Now().Unix()); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		var plan []schedule.DayPlan
		for i := 0; i < req.DurationDays; i++ {
			plan = schedule.AppendDay(plan, dayTitleFormat)
		}
		if err := schedule.SaveAll(r.Context(), store, courseID, plan); err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Course{
			ID: courseID, Name: req.Name, Description: req.Description,
			DurationDays: req.DurationDays, Status: "draft",
		})
	}
}

// GET /courses
// Admins and heads see everything, everyone else only the
// courses they are enrolled in.
func ListCoursesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := 50
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
			limit = v
		}

		var (
			sqlStr string
			args   []any
		)
		switch role {
		case "admin", "head":
			sqlStr = `SELECT c.id, c.name, c.description, c.duration_days, c.status
				  FROM courses c WHERE 1=1`
			if q != "" {
				sqlStr += ` AND c.name LIKE '%' || $1 || '%'`
				args = append(args, q)
			}
		default:
			sqlStr = `SELECT c.id, c.name, c.description, c.duration_days, c.status
				  FROM courses c
				  JOIN enrollments e ON e.course_id=c.id
				 WHERE e.user_id=$1 AND e.status='active'`
			args = append(args, sub)
			if q != "" {
				sqlStr += fmt.Sprintf(` AND c.name LIKE '%%' || $%d || '%%'`, len(args)+1)
				args = append(args, q)
			}
		}
		args = append(args, limit)
		sqlStr += ` ORDER BY c.created_at DESC LIMIT $` + strconv.Itoa(len(args))

		rows, err := db.QueryContext(r.Context(), sqlStr, args...)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []Course{}
		for rows.Next() {
			var c Course
			if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DurationDays, &c.Status); err == nil {
				out = append(out, c)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// POST /courses/{courseID}/enroll
// Add participants.
func EnrollHandler(dbh *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		var req struct {
			UserIDs []string `json:"user_ids"`
			Status  string   `json:"status"` // default active
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.UserIDs) == 0 {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		status := "active"
		if s := strings.ToLower(strings.TrimSpace(req.Status)); s == "invited" || s == "dropped" {
			status = s
		}
		for _, uid := range req.UserIDs {
			uid = strings.TrimSpace(uid)
			if uid == "" {
				continue
			}
			_, _ = dbh.ExecContext(r.Context(), `INSERT INTO enrollments (course_id, user_id, status) VALUES ($1,$2,$3)
				ON CONFLICT (course_id, user_id) DO UPDATE SET status=EXCLUDED.status`, courseID, uid, status)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /courses/{courseID}/publish
func PublishCourseHandler(dbh *sql.DB) http.HandlerFunc {
	return setCourseStatus(dbh, "draft", "published", nil)
}

// POST /courses/{courseID}/launch
// Irreversible; enrolled students are told
// the course has started.
func LaunchCourseHandler(dbh *sql.DB, notifier *notify.Repo) http.HandlerFunc {
	return setCourseStatus(dbh, "published", "active", notifier)
}

func setCourseStatus(dbh *sql.DB, from, to string, notifier *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		res, err := dbh.ExecContext(r.Context(),
			`UPDATE courses SET status=$1 WHERE id=$2 AND status=$3`, to, courseID, from)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, fmt.Sprintf("course not in %q state", from), http.StatusConflict)
			return
		}
		if notifier != nil {
			var name string
			_ = dbh.QueryRowContext(r.Context(), `SELECT name FROM courses WHERE id=$1`, courseID).Scan(&name)
			if ids, err := enrolledStudentIDs(r.Context(), dbh, courseID); err == nil && len(ids) > 0 {
				_ = notifier.Push(r.Context(), ids, notify.TypeAnnouncement,
					"Course started: "+name, "/courses/"+courseID)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": to})
	}
}
