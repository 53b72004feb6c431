package schedule

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store persists day plans and saved templates. SaveDayPlan has upsert
// semantics keyed by (courseID, day_number); LoadDayPlans returns days in
// ascending day_number order.
type Store interface {
	SaveDayPlan(ctx context.Context, courseID string, d DayPlan) error
	LoadDayPlans(ctx context.Context, courseID string) ([]DayPlan, error)
	SaveTemplate(ctx context.Context, t TemplateRecord) error
}

// DayError is one failed day save.
type DayError struct {
	DayNumber int
	Err       error
}

func (e DayError) Error() string { return fmt.Sprintf("day %d: %v", e.DayNumber, e.Err) }
func (e DayError) Unwrap() error { return e.Err }

// SaveError aggregates the per-day failures of a SaveAll, in day_number
// order.
type SaveError struct {
	Days []DayError
}

func (e *SaveError) Error() string {
	msgs := make([]string, len(e.Days))
	for i, d := range e.Days {
		msgs[i] = d.Error()
	}
	return "save plan: " + strings.Join(msgs, "; ")
}

// SaveAll persists plan one day at a time. Days are independent records, so a
// failed day is recorded and the remaining days are still saved; only ctx
// cancellation stops further calls. On any failure the returned error is a
// *SaveError listing exactly which days did not make it.
func SaveAll(ctx context.Context, st Store, courseID string, plan []DayPlan) error {
	days := make([]DayPlan, len(plan))
	copy(days, plan)
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })

	var failed []DayError
	for _, d := range days {
		if err := ctx.Err(); err != nil {
			failed = append(failed, DayError{DayNumber: d.DayNumber, Err: err})
			break
		}
		if err := st.SaveDayPlan(ctx, courseID, d); err != nil {
			failed = append(failed, DayError{DayNumber: d.DayNumber, Err: err})
		}
	}
	if len(failed) > 0 {
		return &SaveError{Days: failed}
	}
	return nil
}

type memoryStore struct {
	mu        sync.RWMutex
	plans     map[string]map[int]DayPlan // courseID -> day_number -> day
	templates map[string]TemplateRecord
}

// NewInMemoryStore returns a Store backed by process memory, for tests and
// single-node dev runs.
func NewInMemoryStore() Store {
	return &memoryStore{
		plans:     map[string]map[int]DayPlan{},
		templates: map[string]TemplateRecord{},
	}
}

func (m *memoryStore) SaveDayPlan(ctx context.Context, courseID string, d DayPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	days, ok := m.plans[courseID]
	if !ok {
		days = map[int]DayPlan{}
		m.plans[courseID] = days
	}
	days[d.DayNumber] = d
	return nil
}

func (m *memoryStore) LoadDayPlans(ctx context.Context, courseID string) ([]DayPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	days := m.plans[courseID]
	out := make([]DayPlan, 0, len(days))
	for _, d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (m *memoryStore) SaveTemplate(ctx context.Context, t TemplateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}
