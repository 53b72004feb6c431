package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/rihla-academy/rihla-lms/internal/api/http"
	"github.com/rihla-academy/rihla-lms/internal/schedule"
)

func newRouter(store schedule.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/courses/{courseID}/schedule", api.GetScheduleHandler(store))
	r.Post("/courses/{courseID}/schedule", api.SaveDayHandler(store))
	r.Post("/courses/{courseID}/schedule/days", api.AppendDayHandler(store, "Day %d"))
	r.Post("/courses/{courseID}/schedule/autofill", api.AutoFillHandler(store, 60))
	r.Post("/exams/import-questions", api.ImportQuestionsHandler())
	return r
}

func seedPlan(t *testing.T, store schedule.Store, courseID string, days int) {
	t.Helper()
	var plan []schedule.DayPlan
	for i := 0; i < days; i++ {
		plan = schedule.AppendDay(plan, "")
	}
	if err := schedule.SaveAll(context.Background(), store, courseID, plan); err != nil {
		t.Fatal(err)
	}
}

func TestAutoFillEndpoint(t *testing.T) {
	store := schedule.NewInMemoryStore()
	seedPlan(t, store, "c1", 3)
	r := newRouter(store)

	body := `{
		"meeting_link_template": "https://zoom.us/j/1",
		"content_url_template": "https://x/lesson-**.pdf",
		"default_exam_title": "Exam **"
	}`
	req := httptest.NewRequest("POST", "/courses/c1/schedule/autofill", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status   string             `json:"status"`
		Schedule []schedule.DayPlan `json:"schedule"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Schedule) != 3 {
		t.Fatalf("schedule len = %d", len(resp.Schedule))
	}
	if got := resp.Schedule[2].ContentURL; got != "https://x/lesson-03.pdf" {
		t.Errorf("day 3 content_url = %q", got)
	}
	if got := resp.Schedule[2].ExamContent.Title; got != "Exam 3" {
		t.Errorf("day 3 exam title = %q", got)
	}
	// default exam time came from server config
	if got := resp.Schedule[0].ExamContent.TimeLimit; got != 60 {
		t.Errorf("time limit = %d", got)
	}

	// persisted too, not just echoed
	saved, _ := store.LoadDayPlans(context.Background(), "c1")
	if saved[0].MeetingLink != "https://zoom.us/j/1" {
		t.Errorf("saved day 1 = %+v", saved[0])
	}
}

func TestAutoFillNoSchedule(t *testing.T) {
	r := newRouter(schedule.NewInMemoryStore())
	req := httptest.NewRequest("POST", "/courses/none/schedule/autofill", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestAppendDayEndpoint(t *testing.T) {
	store := schedule.NewInMemoryStore()
	seedPlan(t, store, "c1", 2)
	r := newRouter(store)

	req := httptest.NewRequest("POST", "/courses/c1/schedule/days", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var day schedule.DayPlan
	if err := json.Unmarshal(w.Body.Bytes(), &day); err != nil {
		t.Fatal(err)
	}
	if day.DayNumber != 3 || day.Title != "Day 3" {
		t.Errorf("appended day = %+v", day)
	}
	saved, _ := store.LoadDayPlans(context.Background(), "c1")
	if len(saved) != 3 {
		t.Errorf("saved len = %d", len(saved))
	}
}

func TestSaveDayRejectsBadDayNumber(t *testing.T) {
	r := newRouter(schedule.NewInMemoryStore())
	req := httptest.NewRequest("POST", "/courses/c1/schedule", strings.NewReader(`{"day_number":0,"title":"x"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportQuestionsEndpointErrors(t *testing.T) {
	r := newRouter(schedule.NewInMemoryStore())

	cases := []struct {
		name, text, wantKind string
	}{
		{"malformed", "not json", "parse_error"},
		{"object", `{"a":1}`, "not_an_array"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"text": tc.text})
			req := httptest.NewRequest("POST", "/exams/import-questions", strings.NewReader(string(body)))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != nethttp.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp struct {
				Kind string `json:"kind"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Kind != tc.wantKind {
				t.Errorf("kind = %q, want %q", resp.Kind, tc.wantKind)
			}
		})
	}
}

func TestImportQuestionsEndpointOK(t *testing.T) {
	r := newRouter(schedule.NewInMemoryStore())
	body, _ := json.Marshal(map[string]string{"text": `[{"question":"Q1"}]`})
	req := httptest.NewRequest("POST", "/exams/import-questions", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Questions []schedule.Question `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Questions) != 1 || resp.Questions[0].Question != "Q1" {
		t.Errorf("questions = %+v", resp.Questions)
	}
	if len(resp.Questions[0].Options) != 4 {
		t.Errorf("options = %v", resp.Questions[0].Options)
	}
}
