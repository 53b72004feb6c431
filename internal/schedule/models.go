package schedule

// Assignments holds the per-day task text for the three participant tiers.
// Level 1 is the highest authority tier (supervisors), level 3 the lowest
// (students).
type Assignments struct {
	Level1 string `json:"level_1"`
	Level2 string `json:"level_2"`
	Level3 string `json:"level_3"`
}

const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
)

type Question struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"` // multiple_choice | true_false
	Question string `json:"question"`
	// Options is exactly 4 entries for multiple_choice, empty for true_false.
	Options []string `json:"options"`
	// CorrectAnswer is the chosen option index as a string ("0".."3") for
	// multiple_choice, or "true"/"false" for true_false. Empty until set.
	CorrectAnswer string  `json:"correct_answer"`
	Points        float64 `json:"points"`
}

type ExamContent struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TimeLimit   int        `json:"time_limit"` // minutes
	Questions   []Question `json:"questions"`
}

// DayPlan is one day of a course schedule. DayNumber is 1-based and unique
// within a course; a finalized plan numbers its days 1..N with no gaps.
type DayPlan struct {
	DayNumber   int          `json:"day_number"`
	Title       string       `json:"title"`
	MeetingLink string       `json:"meeting_link,omitempty"`
	ContentURL  string       `json:"content_url,omitempty"`
	ExamContent *ExamContent `json:"exam_content,omitempty"`
	Assignments *Assignments `json:"assignments,omitempty"`
}

// TemplateConfig drives one bulk fill of a plan. It is built by the caller,
// applied once with Expand, and not stored on the days themselves.
type TemplateConfig struct {
	MeetingLinkTemplate string `json:"meeting_link_template"`
	ContentURLTemplate  string `json:"content_url_template"`
	DefaultExamTitle    string `json:"default_exam_title"`
	DefaultExamTime     int    `json:"default_exam_time"` // minutes
	DefaultCostsLevel1  string `json:"default_costs_level_1"`
	DefaultCostsLevel2  string `json:"default_costs_level_2"`
	DefaultCostsLevel3  string `json:"default_costs_level_3"`
}

// TemplateRecord is a saved course template: the fill configuration plus
// denormalized course metadata and a snapshot of the daily content, kept for
// reuse when building future courses.
type TemplateRecord struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	DurationDays     int            `json:"duration_days"`
	MinCapacity      int            `json:"min_capacity"`
	MaxCapacity      int            `json:"max_capacity"`
	OptimalCapacity  int            `json:"optimal_capacity"`
	Pricing          Pricing        `json:"pricing"`
	DailyContent     []DayPlan      `json:"daily_content_template"`
	AutoFillTemplate TemplateConfig `json:"auto_fill_template"`
	CreatedBy        string         `json:"created_by,omitempty"`
}

type Pricing struct {
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

// StripAnswers returns a copy of ec with grading fields cleared, for serving
// an exam to takers.
func StripAnswers(ec ExamContent) ExamContent {
	qs := make([]Question, len(ec.Questions))
	copy(qs, ec.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
	}
	ec.Questions = qs
	return ec
}
