package models

// WorkingDay is a calendar date the organization is open. Read-only
// reference data sourced from the working day calendar.
type WorkingDay struct {
	Date    Date   `json:"working_date" db:"working_date"`
	Day     string `json:"day" db:"day"` // Weekday name
	WeekNum int    `json:"week_num" db:"week_num"`
	Month   string `json:"month" db:"month"`
}
