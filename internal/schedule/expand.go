package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the marker in template strings replaced by a day number
// during expansion.
const Placeholder = "**"

// Expand fills every day of plan from cfg and returns the result as a new
// slice; the input days are not mutated. Per day:
//
//   - meeting_link gets the template verbatim, placeholder or not
//   - content_url gets every placeholder replaced by the zero-padded day
//     number ("03"), exam titles by the bare number ("3")
//   - exam title and time limit are set on the existing exam content, keeping
//     its description and questions; a day without one gets a fresh one
//   - assignments are replaced wholesale with the three template values
//
// Expand never fails and each day depends only on its own day number.
func Expand(plan []DayPlan, cfg TemplateConfig) []DayPlan {
	out := make([]DayPlan, len(plan))
	for i, d := range plan {
		padded := fmt.Sprintf("%02d", d.DayNumber)

		d.MeetingLink = cfg.MeetingLinkTemplate
		d.ContentURL = strings.ReplaceAll(cfg.ContentURLTemplate, Placeholder, padded)

		var ec ExamContent
		if d.ExamContent != nil {
			ec = *d.ExamContent
		}
		ec.Title = strings.ReplaceAll(cfg.DefaultExamTitle, Placeholder, strconv.Itoa(d.DayNumber))
		ec.TimeLimit = cfg.DefaultExamTime
		d.ExamContent = &ec

		d.Assignments = &Assignments{
			Level1: cfg.DefaultCostsLevel1,
			Level2: cfg.DefaultCostsLevel2,
			Level3: cfg.DefaultCostsLevel3,
		}
		out[i] = d
	}
	return out
}

// AppendDay grows plan by one day with the next day number and a default
// title. titleFormat needs a single %d verb; empty falls back to "Day %d".
// The plan is expected to already be numbered 1..len(plan).
func AppendDay(plan []DayPlan, titleFormat string) []DayPlan {
	if titleFormat == "" {
		titleFormat = "Day %d"
	}
	n := len(plan) + 1
	day := DayPlan{DayNumber: n, Title: fmt.Sprintf(titleFormat, n)}
	return append(plan[:len(plan):len(plan)], day)
}
