package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SaveDayPlan(ctx context.Context, courseID string, d DayPlan) error {
	var examJSON, asgJSON sql.NullString
	if d.ExamContent != nil {
		b, err := json.Marshal(d.ExamContent)
		if err != nil {
			return err
		}
		examJSON = sql.NullString{String: string(b), Valid: true}
	}
	if d.Assignments != nil {
		b, err := json.Marshal(d.Assignments)
		if err != nil {
			return err
		}
		asgJSON = sql.NullString{String: string(b), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO course_schedule
			(course_id, day_number, title, meeting_link, content_url, exam_content, assignments, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (course_id, day_number) DO UPDATE SET
			title=EXCLUDED.title, meeting_link=EXCLUDED.meeting_link,
			content_url=EXCLUDED.content_url, exam_content=EXCLUDED.exam_content,
			assignments=EXCLUDED.assignments, updated_at=EXCLUDED.updated_at`,
		courseID, d.DayNumber, d.Title,
		nullIfEmpty(d.MeetingLink), nullIfEmpty(d.ContentURL),
		examJSON, asgJSON, time.Now().Unix())
	return err
}

func (s *SQLStore) LoadDayPlans(ctx context.Context, courseID string) ([]DayPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day_number, title, meeting_link, content_url, exam_content, assignments
		FROM course_schedule WHERE course_id=$1 ORDER BY day_number ASC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DayPlan{}
	for rows.Next() {
		var d DayPlan
		var meeting, content, examJSON, asgJSON sql.NullString
		if err := rows.Scan(&d.DayNumber, &d.Title, &meeting, &content, &examJSON, &asgJSON); err != nil {
			return nil, err
		}
		d.MeetingLink = meeting.String
		d.ContentURL = content.String
		if examJSON.Valid && examJSON.String != "" {
			var ec ExamContent
			if err := json.Unmarshal([]byte(examJSON.String), &ec); err != nil {
				return nil, err
			}
			d.ExamContent = &ec
		}
		if asgJSON.Valid && asgJSON.String != "" {
			var a Assignments
			if err := json.Unmarshal([]byte(asgJSON.String), &a); err != nil {
				return nil, err
			}
			d.Assignments = &a
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveTemplate(ctx context.Context, t TemplateRecord) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	pricing, err := json.Marshal(t.Pricing)
	if err != nil {
		return err
	}
	daily, err := json.Marshal(t.DailyContent)
	if err != nil {
		return err
	}
	autofill, err := json.Marshal(t.AutoFillTemplate)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO course_templates
			(id, name, description, duration_days, min_capacity, max_capacity, optimal_capacity,
			 pricing, daily_content_template, auto_fill_template, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, description=EXCLUDED.description,
			duration_days=EXCLUDED.duration_days, min_capacity=EXCLUDED.min_capacity,
			max_capacity=EXCLUDED.max_capacity, optimal_capacity=EXCLUDED.optimal_capacity,
			pricing=EXCLUDED.pricing, daily_content_template=EXCLUDED.daily_content_template,
			auto_fill_template=EXCLUDED.auto_fill_template`,
		t.ID, t.Name, t.Description, t.DurationDays, t.MinCapacity, t.MaxCapacity, t.OptimalCapacity,
		string(pricing), string(daily), string(autofill), t.CreatedBy, time.Now().Unix())
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
