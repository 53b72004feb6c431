package schedule_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rihla-academy/rihla-lms/internal/schedule"
)

func TestMemoryStoreUpsertAndOrder(t *testing.T) {
	st := schedule.NewInMemoryStore()
	ctx := context.Background()

	for _, n := range []int{3, 1, 2} {
		if err := st.SaveDayPlan(ctx, "c1", schedule.DayPlan{DayNumber: n, Title: fmt.Sprintf("Day %d", n)}); err != nil {
			t.Fatal(err)
		}
	}
	// overwrite day 2
	if err := st.SaveDayPlan(ctx, "c1", schedule.DayPlan{DayNumber: 2, Title: "replaced"}); err != nil {
		t.Fatal(err)
	}

	plan, err := st.LoadDayPlans(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 3 {
		t.Fatalf("len = %d, want 3", len(plan))
	}
	for i, d := range plan {
		if d.DayNumber != i+1 {
			t.Errorf("plan[%d].DayNumber = %d", i, d.DayNumber)
		}
	}
	if plan[1].Title != "replaced" {
		t.Errorf("day 2 title = %q, want upserted value", plan[1].Title)
	}

	other, _ := st.LoadDayPlans(ctx, "unknown")
	if len(other) != 0 {
		t.Errorf("unknown course plan = %v, want empty", other)
	}
}

// failingStore fails SaveDayPlan for a chosen set of day numbers.
type failingStore struct {
	schedule.Store
	failDays map[int]bool
	saved    []int
}

func (f *failingStore) SaveDayPlan(ctx context.Context, courseID string, d schedule.DayPlan) error {
	if f.failDays[d.DayNumber] {
		return fmt.Errorf("disk full")
	}
	f.saved = append(f.saved, d.DayNumber)
	return f.Store.SaveDayPlan(ctx, courseID, d)
}

func TestSaveAllContinuesPastFailures(t *testing.T) {
	st := &failingStore{
		Store:    schedule.NewInMemoryStore(),
		failDays: map[int]bool{2: true, 4: true},
	}
	plan := []schedule.DayPlan{
		{DayNumber: 1}, {DayNumber: 2}, {DayNumber: 3}, {DayNumber: 4}, {DayNumber: 5},
	}

	err := schedule.SaveAll(context.Background(), st, "c1", plan)
	var se *schedule.SaveError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SaveError", err)
	}
	if len(se.Days) != 2 || se.Days[0].DayNumber != 2 || se.Days[1].DayNumber != 4 {
		t.Fatalf("failed days = %+v, want days 2 and 4 in order", se.Days)
	}
	if got := fmt.Sprint(st.saved); got != "[1 3 5]" {
		t.Errorf("saved days = %v, remaining days must still be saved", st.saved)
	}
}

func TestSaveAllSuccess(t *testing.T) {
	st := schedule.NewInMemoryStore()
	plan := schedule.Expand([]schedule.DayPlan{{DayNumber: 1}, {DayNumber: 2}}, testConfig())
	if err := schedule.SaveAll(context.Background(), st, "c1", plan); err != nil {
		t.Fatal(err)
	}
	got, _ := st.LoadDayPlans(context.Background(), "c1")
	if len(got) != 2 || got[1].ContentURL != "https://x/lesson-02.pdf" {
		t.Errorf("persisted plan = %+v", got)
	}
}

func TestSaveAllStopsOnCancel(t *testing.T) {
	st := &failingStore{Store: schedule.NewInMemoryStore(), failDays: map[int]bool{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := schedule.SaveAll(ctx, st, "c1", []schedule.DayPlan{{DayNumber: 1}, {DayNumber: 2}})
	var se *schedule.SaveError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SaveError", err)
	}
	if len(st.saved) != 0 {
		t.Errorf("saved = %v, no saves should run after cancel", st.saved)
	}
	if !errors.Is(se.Days[0].Err, context.Canceled) {
		t.Errorf("day error = %v, want context.Canceled", se.Days[0].Err)
	}
}

func TestSaveAllSortsByDayNumber(t *testing.T) {
	st := &failingStore{Store: schedule.NewInMemoryStore(), failDays: map[int]bool{1: true, 3: true}}
	plan := []schedule.DayPlan{{DayNumber: 3}, {DayNumber: 1}, {DayNumber: 2}}

	err := schedule.SaveAll(context.Background(), st, "c1", plan)
	var se *schedule.SaveError
	if !errors.As(err, &se) {
		t.Fatal(err)
	}
	if se.Days[0].DayNumber != 1 || se.Days[1].DayNumber != 3 {
		t.Errorf("failures = %+v, want reported in day order", se.Days)
	}
}
