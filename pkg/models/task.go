package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Frequency string

const (
	DailyFrequency   Frequency = "daily"
	WeeklyFrequency  Frequency = "weekly"
	MonthlyFrequency Frequency = "monthly"
	YearlyFrequency  Frequency = "yearly"
	OneTimeFrequency Frequency = "one-time"
)

// NormalizeFrequency lowers the input and falls back to daily for anything
// outside the allowed set, mirroring how records arrive from legacy clients.
func NormalizeFrequency(value string) Frequency {
	switch Frequency(strings.ToLower(strings.TrimSpace(value))) {
	case DailyFrequency:
		return DailyFrequency
	case WeeklyFrequency:
		return WeeklyFrequency
	case MonthlyFrequency:
		return MonthlyFrequency
	case YearlyFrequency:
		return YearlyFrequency
	case OneTimeFrequency:
		return OneTimeFrequency
	default:
		return DailyFrequency
	}
}

// Statuses with special meaning for dashboard counts. Anything else is
// free-form operator text.
const (
	StatusDone    = "yes"
	StatusNotDone = "no"
)

// Task is a unit of assigned housekeeping work.
type Task struct {
	ID             int64     `json:"id" db:"id"`
	TaskID         string    `json:"task_id" db:"task_id"` // String form of ID, assigned at creation
	Department     string    `json:"department" db:"department"`
	GivenBy        string    `json:"given_by,omitempty" db:"given_by"`
	Name           string    `json:"name" db:"name"` // Assignee name
	Description    string    `json:"task_description" db:"task_description"`
	Remark         string    `json:"remark,omitempty" db:"remark"`
	Status         string    `json:"status,omitempty" db:"status"`
	Image          string    `json:"image,omitempty" db:"image"` // Uploaded image URL
	Attachment     string    `json:"attachment,omitempty" db:"attachment"`
	DoerName2      string    `json:"doer_name2,omitempty" db:"doer_name2"`
	Hod            string    `json:"hod,omitempty" db:"hod"` // Comma-joined list of department heads
	Frequency      Frequency `json:"frequency" db:"frequency"`
	StartDate      *Date     `json:"task_start_date" db:"task_start_date"`
	SubmissionDate *Date     `json:"submission_date" db:"submission_date"` // Nil until submitted
	Delay          *int64    `json:"delay" db:"delay"`                     // Whole days, derived when absent
	Remainder      string    `json:"remainder,omitempty" db:"remainder"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// StatusIs reports whether the task status equals the given marker,
// ignoring case and surrounding whitespace.
func (t Task) StatusIs(marker string) bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), marker)
}

// FillDelay derives the delay from the dates when no explicit value is stored.
func (t *Task) FillDelay() {
	if t.Delay == nil {
		t.Delay = ComputeDelay(t.StartDate, t.SubmissionDate)
	}
}

// StringList accepts either a JSON string or an array of strings; legacy
// clients send the hod field both ways.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// Join flattens the list to the comma-joined column form.
func (l StringList) Join() string {
	return strings.Join([]string(l), ",")
}
