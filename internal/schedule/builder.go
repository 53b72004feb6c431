package schedule

import (
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"
)

// Question ids only need to be unique within an editing session, but seeding
// from the clock keeps them clear of ids already persisted in older exams.
var questionIDSeq atomic.Int64

func init() {
	questionIDSeq.Store(time.Now().UnixMilli())
}

func nextQuestionID() int64 { return questionIDSeq.Add(1) }

// NewQuestion returns a blank question of the given type with a fresh id:
// 4 empty option slots for multiple_choice, none for true_false, 1 point,
// no correct answer chosen yet. Unknown types get the true_false shape.
func NewQuestion(typ string) Question {
	q := Question{
		ID:      nextQuestionID(),
		Type:    typ,
		Points:  1,
		Options: []string{},
	}
	if typ == TypeMultipleChoice {
		q.Options = []string{"", "", "", ""}
	}
	return q
}

// AddQuestion appends a new blank question and returns the updated list.
func AddQuestion(qs []Question, typ string) []Question {
	return append(qs[:len(qs):len(qs)], NewQuestion(typ))
}

// UpdateQuestion sets one named field on the question with the given id and
// returns the updated list. An unknown id, field name, or value type leaves
// the list unchanged rather than erroring.
//
// Points takes any float, including values off the 0.5 grid the editing UI
// offers; enforcing that grid is the UI's job, not done here.
func UpdateQuestion(qs []Question, id int64, field string, value any) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		switch field {
		case "question":
			if s, ok := value.(string); ok {
				out[i].Question = s
			}
		case "type":
			if s, ok := value.(string); ok {
				out[i].Type = s
			}
		case "correct_answer":
			if s, ok := value.(string); ok {
				out[i].CorrectAnswer = s
			}
		case "options":
			if ss, ok := toStringSlice(value); ok {
				out[i].Options = ss
			}
		case "points":
			if f, ok := toFloat(value); ok {
				out[i].Points = f
			}
		}
		break
	}
	return out
}

// RemoveQuestion filters out the question with the given id. Removing an
// absent id is a no-op.
func RemoveQuestion(qs []Question, id int64) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.ID != id {
			out = append(out, q)
		}
	}
	return out
}

type ImportErrorKind int

const (
	// ImportParse: the import text is not valid JSON.
	ImportParse ImportErrorKind = iota
	// ImportNotAnArray: valid JSON, but not an array of questions.
	ImportNotAnArray
)

type ImportError struct {
	Kind    ImportErrorKind
	Message string
}

func (e *ImportError) Error() string { return e.Message }

// ImportQuestions parses text as a JSON array of questions and returns the
// replacement question list. Missing fields get the editor defaults (type
// multiple_choice, 1 point, variant-appropriate options) and every question
// gets a fresh id regardless of any id in the input. Failures are reported
// as *ImportError; nothing is partially imported.
func ImportQuestions(text string) ([]Question, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &ImportError{Kind: ImportParse, Message: err.Error()}
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &ImportError{Kind: ImportNotAnArray, Message: "expected a JSON array of questions"}
	}
	out := make([]Question, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		out = append(out, questionFromMap(m))
	}
	return out, nil
}

func questionFromMap(m map[string]any) Question {
	q := Question{ID: nextQuestionID(), Type: TypeMultipleChoice, Points: 1}
	if s, ok := m["type"].(string); ok && s != "" {
		q.Type = s
	}
	if s, ok := m["question"].(string); ok {
		q.Question = s
	}
	if s, ok := m["correct_answer"].(string); ok {
		q.CorrectAnswer = s
	}
	if f, ok := toFloat(m["points"]); ok && f != 0 {
		q.Points = f
	}
	if ss, ok := toStringSlice(m["options"]); ok {
		q.Options = ss
	} else if q.Type == TypeMultipleChoice {
		q.Options = []string{"", "", "", ""}
	} else {
		q.Options = []string{}
	}
	return q
}

func toStringSlice(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...), true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}
