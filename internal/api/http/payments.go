package http

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authmw "github.com/rihla-academy/rihla-lms/internal/auth/middleware"
	"github.com/rihla-academy/rihla-lms/internal/notify"
	"github.com/rihla-academy/rihla-lms/internal/rbac"
	"github.com/rihla-academy/rihla-lms/internal/storage"
)

type paymentRow struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	CourseID  string  `json:"course_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	ProofKey  string  `json:"proof_key,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

// POST /payments
// Admin records a due payment for an enrollment.
func CreatePaymentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string  `json:"user_id"`
			CourseID string  `json:"course_id"`
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.CourseID == "" {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Currency == "" {
			req.Currency = "EGP"
		}
		id := "p-" + uuid.NewString()
		now := time.Now().Unix()
		if _, err := db.ExecContext(r.Context(), `INSERT INTO payments
				(id, user_id, course_id, amount, currency, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,'due',$6,$6)`,
			id, req.UserID, req.CourseID, req.Amount, req.Currency, now); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	}
}

// POST /payments/{paymentID}/proof
// Multipart upload of a transfer receipt.
// Owners only; the payment moves to pending_review until an admin rules on it.
func UploadProofHandler(db *sql.DB, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := chi.URLParam(r, "paymentID")
		sub := authmw.SubjectFromContext(r.Context())

		var owner string
		err := db.QueryRowContext(r.Context(),
			`SELECT user_id FROM payments WHERE id=$1`, paymentID).Scan(&owner)
		if err == sql.ErrNoRows {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if owner != sub {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		f, hdr, err := r.FormFile("proof")
		if err != nil {
			http.Error(w, "proof file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key := "payments/" + paymentID + "/" + uuid.NewString() + filepath.Ext(hdr.Filename)
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := db.ExecContext(r.Context(),
			`UPDATE payments SET status='pending_review', proof_key=$1, updated_at=$2 WHERE id=$3`,
			key, time.Now().Unix(), paymentID); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "pending_review", "proof_key": key})
	}
}

// GET /payments/{paymentID}/proof
// Stream the uploaded receipt (reviewer or
// the owner).
func GetProofHandler(db *sql.DB, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := chi.URLParam(r, "paymentID")
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())

		var owner string
		var key sql.NullString
		err := db.QueryRowContext(r.Context(),
			`SELECT user_id, proof_key FROM payments WHERE id=$1`, paymentID).Scan(&owner, &key)
		if err == sql.ErrNoRows || !key.Valid {
			http.Error(w, "proof not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if owner != sub && role != "admin" && role != "head" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		rc, err := bs.Get(key.String)
		if err != nil {
			http.Error(w, "proof not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}

// POST /payments/{paymentID}/review
// Admin verdict on an uploaded proof.
func ReviewPaymentHandler(db *sql.DB, notifier *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := chi.URLParam(r, "paymentID")
		reviewer := authmw.SubjectFromContext(r.Context())

		var req struct {
			Action string `json:"action"` // approve|reject
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var status string
		switch req.Action {
		case "approve":
			status = "paid"
		case "reject":
			status = "rejected"
		default:
			http.Error(w, "action must be approve or reject", http.StatusBadRequest)
			return
		}

		res, err := db.ExecContext(r.Context(),
			`UPDATE payments SET status=$1, reviewed_by=$2, updated_at=$3 WHERE id=$4 AND status='pending_review'`,
			status, reviewer, time.Now().Unix(), paymentID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "payment not awaiting review", http.StatusConflict)
			return
		}

		var owner string
		if err := db.QueryRowContext(r.Context(),
			`SELECT user_id FROM payments WHERE id=$1`, paymentID).Scan(&owner); err == nil {
			msg := "Payment approved"
			if status == "rejected" {
				msg = "Payment proof rejected, please re-upload"
			}
			_ = notifier.Push(r.Context(), []string{owner}, notify.TypePayment, msg, "/finance")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}

// GET /payments
// Own payments, or all of them for reviewer roles.
func ListPaymentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())

		sqlStr := `SELECT id, user_id, course_id, amount, currency, status, proof_key, created_at
			 FROM payments WHERE user_id=$1 ORDER BY created_at DESC`
		args := []any{sub}
		if role == "admin" || role == "head" {
			sqlStr = `SELECT id, user_id, course_id, amount, currency, status, proof_key, created_at
				 FROM payments ORDER BY created_at DESC`
			args = nil
		}

		rows, err := db.QueryContext(r.Context(), sqlStr, args...)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []paymentRow{}
		for rows.Next() {
			var p paymentRow
			var proof sql.NullString
			if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.Currency, &p.Status, &proof, &p.CreatedAt); err != nil {
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			p.ProofKey = proof.String
			out = append(out, p)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
