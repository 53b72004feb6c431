package schedule_test

import (
	"testing"

	"github.com/rihla-academy/rihla-lms/internal/schedule"
)

func testConfig() schedule.TemplateConfig {
	return schedule.TemplateConfig{
		MeetingLinkTemplate: "https://zoom.us/j/123456789",
		ContentURLTemplate:  "https://x/lesson-**.pdf",
		DefaultExamTitle:    "Exam **",
		DefaultExamTime:     60,
		DefaultCostsLevel1:  "review daily reports",
		DefaultCostsLevel2:  "prepare content",
		DefaultCostsLevel3:  "solve the exam",
	}
}

func TestExpandFillsEveryDay(t *testing.T) {
	plan := []schedule.DayPlan{
		{DayNumber: 1, Title: "Day 1"},
		{DayNumber: 2, Title: "Day 2"},
		{DayNumber: 3, Title: "Day 3"},
	}
	out := schedule.Expand(plan, testConfig())

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	wantURLs := []string{"https://x/lesson-01.pdf", "https://x/lesson-02.pdf", "https://x/lesson-03.pdf"}
	wantTitles := []string{"Exam 1", "Exam 2", "Exam 3"}
	for i, d := range out {
		if d.DayNumber != i+1 {
			t.Errorf("day %d: number = %d", i, d.DayNumber)
		}
		if d.MeetingLink != "https://zoom.us/j/123456789" {
			t.Errorf("day %d: meeting_link = %q", i, d.MeetingLink)
		}
		if d.ContentURL != wantURLs[i] {
			t.Errorf("day %d: content_url = %q, want %q", i, d.ContentURL, wantURLs[i])
		}
		if d.ExamContent == nil {
			t.Fatalf("day %d: no exam content", i)
		}
		if d.ExamContent.Title != wantTitles[i] {
			t.Errorf("day %d: exam title = %q, want %q", i, d.ExamContent.Title, wantTitles[i])
		}
		if d.ExamContent.TimeLimit != 60 {
			t.Errorf("day %d: time limit = %d", i, d.ExamContent.TimeLimit)
		}
		if d.Assignments == nil || d.Assignments.Level1 != "review daily reports" ||
			d.Assignments.Level2 != "prepare content" || d.Assignments.Level3 != "solve the exam" {
			t.Errorf("day %d: assignments = %+v", i, d.Assignments)
		}
	}
}

// Content URLs are numbered with two digits, exam titles with the bare day
// number. Both spellings are load-bearing.
func TestExpandPaddingAsymmetry(t *testing.T) {
	plan := []schedule.DayPlan{{DayNumber: 3}}
	out := schedule.Expand(plan, testConfig())
	if got := out[0].ContentURL; got != "https://x/lesson-03.pdf" {
		t.Errorf("content_url = %q, want zero-padded 03", got)
	}
	if got := out[0].ExamContent.Title; got != "Exam 3" {
		t.Errorf("exam title = %q, want unpadded 3", got)
	}
}

func TestExpandMeetingLinkVerbatim(t *testing.T) {
	cfg := testConfig()
	cfg.MeetingLinkTemplate = "https://meet/room-**"
	out := schedule.Expand([]schedule.DayPlan{{DayNumber: 5}}, cfg)
	if got := out[0].MeetingLink; got != "https://meet/room-**" {
		t.Errorf("meeting_link = %q, placeholder must not be substituted", got)
	}
}

func TestExpandPreservesExistingExamQuestions(t *testing.T) {
	qs := schedule.AddQuestion(nil, schedule.TypeTrueFalse)
	plan := []schedule.DayPlan{{
		DayNumber: 2,
		ExamContent: &schedule.ExamContent{
			Title:       "old title",
			Description: "keep me",
			TimeLimit:   10,
			Questions:   qs,
		},
	}}
	out := schedule.Expand(plan, testConfig())

	ec := out[0].ExamContent
	if ec.Title != "Exam 2" || ec.TimeLimit != 60 {
		t.Errorf("title/time not overwritten: %q %d", ec.Title, ec.TimeLimit)
	}
	if ec.Description != "keep me" {
		t.Errorf("description = %q, want preserved", ec.Description)
	}
	if len(ec.Questions) != 1 || ec.Questions[0].ID != qs[0].ID {
		t.Errorf("questions not preserved: %+v", ec.Questions)
	}
	// input untouched
	if plan[0].ExamContent.Title != "old title" {
		t.Errorf("input plan mutated: %q", plan[0].ExamContent.Title)
	}
}

func TestExpandReplacesAssignments(t *testing.T) {
	plan := []schedule.DayPlan{{
		DayNumber:   1,
		Assignments: &schedule.Assignments{Level1: "custom", Level2: "custom", Level3: "custom"},
	}}
	out := schedule.Expand(plan, testConfig())
	a := out[0].Assignments
	if a.Level1 != "review daily reports" || a.Level2 != "prepare content" || a.Level3 != "solve the exam" {
		t.Errorf("assignments not replaced: %+v", a)
	}
}

func TestExpandEmptyPlan(t *testing.T) {
	out := schedule.Expand(nil, testConfig())
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0", len(out))
	}
}

func TestAppendDay(t *testing.T) {
	var plan []schedule.DayPlan
	plan = schedule.AppendDay(plan, "")
	plan = schedule.AppendDay(plan, "")
	plan = schedule.AppendDay(plan, "Study day %d")

	if len(plan) != 3 {
		t.Fatalf("len = %d, want 3", len(plan))
	}
	for i, d := range plan {
		if d.DayNumber != i+1 {
			t.Errorf("day %d: number = %d", i, d.DayNumber)
		}
	}
	if plan[0].Title != "Day 1" {
		t.Errorf("default title = %q", plan[0].Title)
	}
	if plan[2].Title != "Study day 3" {
		t.Errorf("formatted title = %q", plan[2].Title)
	}
	if plan[2].ExamContent != nil || plan[2].MeetingLink != "" {
		t.Errorf("new day should be empty: %+v", plan[2])
	}
}
