package storage

import (
	"github.com/pkg/errors"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
)

// ErrNotFound is returned when an operation addresses a task id that does
// not exist.
var ErrNotFound = errors.New("not found")

// MaxPageSize caps the limit any caller may request.
const MaxPageSize = 100

// TaskFilter narrows list queries. Department is matched case-insensitively;
// an empty department matches everything.
type TaskFilter struct {
	Department string
	Limit      int
	Offset     int
}

// Normalize clamps pagination to sane bounds.
func (f TaskFilter) Normalize() TaskFilter {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Store defines the storage operations for the tracker. The cutoff
// parameters are calendar dates: overdue means unsubmitted with a start
// date on or before the cutoff, pending means unsubmitted with a start
// date after it, history means submitted with a start date on or before it.
type Store interface {
	Begin() (Store, error)
	Commit() error
	Rollback() error
	Close() error

	// Task operations
	ListTasks(f TaskFilter) ([]models.Task, error)
	GetTask(id int64) (models.Task, error)
	ListOverdue(cutoff models.Date, f TaskFilter) ([]models.Task, error)
	ListPending(cutoff models.Date, f TaskFilter) ([]models.Task, error)
	ListHistory(cutoff models.Date, f TaskFilter) ([]models.Task, error)
	ListByDate(day models.Date, f TaskFilter) ([]models.Task, error)
	AggregateStats(cutoff models.Date) (models.StatCounts, error)
	SaveTask(t models.Task) (models.Task, error)
	UpdateTask(t models.Task) error
	DeleteTask(id int64) (bool, error)

	// Working day calendar, read-only
	ListWorkingDays() ([]models.WorkingDay, error)
}
