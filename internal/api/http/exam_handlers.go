package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rihla-academy/rihla-lms/internal/notify"
	"github.com/rihla-academy/rihla-lms/internal/schedule"
)

// POST /exams
// Attach a built exam to one day of a course and notify the
// enrolled students.
func PublishExamHandler(store schedule.Store, db *sql.DB, notifier *notify.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID    string               `json:"course_id"`
			DayNumber   int                  `json:"day_number"`
			ExamContent schedule.ExamContent `json:"exam_content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.CourseID == "" || req.DayNumber < 1 || req.ExamContent.Title == "" {
			http.Error(w, "course_id, day_number and exam title required", http.StatusBadRequest)
			return
		}

		plan, err := store.LoadDayPlans(r.Context(), req.CourseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		var day *schedule.DayPlan
		for i := range plan {
			if plan[i].DayNumber == req.DayNumber {
				day = &plan[i]
				break
			}
		}
		if day == nil {
			http.Error(w, "day not found", http.StatusNotFound)
			return
		}
		ec := req.ExamContent
		day.ExamContent = &ec
		if err := store.SaveDayPlan(r.Context(), req.CourseID, *day); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		if ids, err := enrolledStudentIDs(r.Context(), db, req.CourseID); err == nil && len(ids) > 0 {
			msg := fmt.Sprintf("New exam: %s (day %d)", ec.Title, req.DayNumber)
			link := fmt.Sprintf("/courses/%s/schedule/%d/exam", req.CourseID, req.DayNumber)
			_ = notifier.Push(r.Context(), ids, notify.TypeNewTask, msg, link)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "day_number": req.DayNumber})
	}
}

// POST /exams/import-questions
// Parse a pasted JSON question array into the
// canonical question list. The two failure kinds are reported separately so
// the editor can tell "fix your JSON" from "that's not a question array".
func ImportQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		qs, err := schedule.ImportQuestions(req.Text)
		var ie *schedule.ImportError
		if errors.As(err, &ie) {
			kind := "parse_error"
			if ie.Kind == schedule.ImportNotAnArray {
				kind = "not_an_array"
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"kind": kind, "message": ie.Message})
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"questions": qs})
	}
}

func enrolledStudentIDs(ctx context.Context, db *sql.DB, courseID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.user_id
		  FROM enrollments e
		  JOIN users u ON u.id = e.user_id
		 WHERE e.course_id=$1 AND e.status='active' AND u.role='student'`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
