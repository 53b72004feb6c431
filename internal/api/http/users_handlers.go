package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rihla-academy/rihla-lms/internal/notify"
)

type userRow struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// POST /auth/register
// Public signup. Only the unprivileged roles can be
// self-assigned; staff accounts are created by an admin. New accounts start
// pending and the admins get a notification to review them.
func RegisterHandler(db *sql.DB, notifier *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FullName string          `json:"full_name"`
			Email    string          `json:"email"`
			Phone    string          `json:"phone"`
			Password string          `json:"password"`
			Role     string          `json:"role"`
			Details  json.RawMessage `json:"details"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.FullName = strings.TrimSpace(req.FullName)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.Phone = strings.TrimSpace(req.Phone)
		if req.FullName == "" || req.Email == "" || req.Phone == "" || req.Password == "" || req.Role == "" {
			http.Error(w, "all fields are required", http.StatusBadRequest)
			return
		}
		if req.Role != "student" && req.Role != "parent" {
			http.Error(w, "this account type cannot be created via public signup", http.StatusForbidden)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		details := "{}"
		if len(req.Details) > 0 {
			details = string(req.Details)
		}

		id := uuid.NewString()
		_, err = db.ExecContext(r.Context(), `INSERT INTO users
				(id, full_name, email, phone, password_hash, role, status, details, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,'pending_approval',$7,$8)`,
			id, req.FullName, req.Email, req.Phone, string(hash), req.Role, details, time.Now().Unix())
		if err != nil {
			if isUniqueViolation(err) {
				http.Error(w, "email or phone already registered", http.StatusBadRequest)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		_ = notifier.PushToRole(r.Context(), "admin", notify.TypeAnnouncement,
			"New registration: "+req.FullName+" as "+req.Role, "/admin/users?new="+id)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":      id,
			"message": "account created; it will be reviewed and activated shortly",
		})
	}
}

// GET /users?role=&status=
// Admin/head listing.
func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		status := r.URL.Query().Get("status")

		sqlStr := `SELECT id, full_name, email, phone, role, status FROM users WHERE 1=1`
		var args []any
		if role != "" {
			args = append(args, role)
			sqlStr += ` AND role=$1`
		}
		if status != "" {
			args = append(args, status)
			if len(args) == 1 {
				sqlStr += ` AND status=$1`
			} else {
				sqlStr += ` AND status=$2`
			}
		}
		sqlStr += ` ORDER BY full_name`

		rows, err := db.QueryContext(r.Context(), sqlStr, args...)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []userRow{}
		for rows.Next() {
			var u userRow
			if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role, &u.Status); err != nil {
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			out = append(out, u)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// POST /users/{userID}/approve
// Flip a pending registration to active and
// tell the user.
func ApproveUserHandler(db *sql.DB, notifier *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		res, err := db.ExecContext(r.Context(),
			`UPDATE users SET status='active' WHERE id=$1 AND status='pending_approval'`, userID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "no pending user with that id", http.StatusNotFound)
			return
		}
		_ = notifier.Push(r.Context(), []string{userID}, notify.TypeAnnouncement,
			"Your account has been approved", "/dashboard")
		w.WriteHeader(http.StatusNoContent)
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}
