package models

// StatCounts are the raw totals a store reports for a cutoff date. All
// counts except Pending are taken over the active population, i.e. tasks
// whose start date falls on or before the cutoff; Pending counts the
// unsubmitted tasks scheduled after it.
type StatCounts struct {
	Total     int64 `db:"total"`
	Completed int64 `db:"completed"`
	NotDone   int64 `db:"not_done"`
	Overdue   int64 `db:"overdue"`
	Pending   int64 `db:"pending"`
}

// DashboardSnapshot is computed on demand and never persisted.
type DashboardSnapshot struct {
	Total           int64 `json:"total"`
	Completed       int64 `json:"completed"`
	Pending         int64 `json:"pending"`
	NotDone         int64 `json:"not_done"`
	Overdue         int64 `json:"overdue"`
	ProgressPercent int   `json:"progress_percent"`
}
