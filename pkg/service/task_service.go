package service

import (
	"strconv"
	"strings"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/taskerr"
)

// Logger defines the logging interface for the services
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// TaskService owns the task lifecycle: creation, recurrence generation,
// classification reads and updates. It holds no task state of its own;
// the store is the single source of truth.
type TaskService struct {
	store    storage.Store
	notifier Notifier
	logger   Logger
}

func NewTaskService(store storage.Store, notifier Notifier, logger Logger) *TaskService {
	return &TaskService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func validateTask(t *models.Task) error {
	t.Department = strings.TrimSpace(t.Department)
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	if t.Department == "" {
		return taskerr.New(taskerr.KindValidation, "department is required")
	}
	if t.Name == "" {
		return taskerr.New(taskerr.KindValidation, "name is required")
	}
	if t.Description == "" {
		return taskerr.New(taskerr.KindValidation, "task_description is required")
	}
	t.Frequency = models.NormalizeFrequency(string(t.Frequency))
	if t.Frequency == models.OneTimeFrequency && t.StartDate == nil {
		return taskerr.New(taskerr.KindValidation, "task_start_date is required for one-time tasks")
	}
	return nil
}

// persist writes a single task in its own transaction.
func (s *TaskService) persist(t models.Task) (created models.Task, err error) {
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Task{}, taskerr.Wrap(err, taskerr.KindStore, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := txStore.Rollback(); rollbackErr != nil {
				s.logger.Errorf("Failed to rollback after error: %v (original error: %v)", rollbackErr, err)
			}
			return
		}
		if commitErr := txStore.Commit(); commitErr != nil {
			s.logger.Errorf("Failed to commit: %v", commitErr)
			err = taskerr.Wrap(commitErr, taskerr.KindStore, "failed to commit")
		}
	}()

	created, err = txStore.SaveTask(t)
	if err != nil {
		return models.Task{}, taskerr.Wrap(err, taskerr.KindStore, "failed to save task")
	}
	return created, nil
}

// Create validates and persists one task. A missing delay is derived from
// the dates by the store.
func (s *TaskService) Create(t models.Task) (models.Task, error) {
	if err := validateTask(&t); err != nil {
		return models.Task{}, err
	}
	created, err := s.persist(t)
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Infof("Created task %d for department '%s'", created.ID, created.Department)
	return created, nil
}

// BulkCreate persists the tasks one at a time, in input order, so ids
// increase monotonically. Validation runs over the whole batch up front;
// a store failure mid-batch aborts the rest and keeps what was already
// written (documented non-atomicity).
func (s *TaskService) BulkCreate(tasks []models.Task) ([]models.Task, error) {
	if len(tasks) == 0 {
		return nil, taskerr.New(taskerr.KindValidation, "tasks required")
	}
	for i := range tasks {
		if err := validateTask(&tasks[i]); err != nil {
			var te *taskerr.Error
			if e, ok := err.(*taskerr.Error); ok {
				te = e
			} else {
				te = taskerr.New(taskerr.KindValidation, err.Error())
			}
			return nil, te.WithDetail("index", strconv.Itoa(i))
		}
	}
	created := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		saved, err := s.persist(t)
		if err != nil {
			s.logger.Errorf("Bulk create aborted after %d of %d tasks: %v", len(created), len(tasks), err)
			return created, err
		}
		created = append(created, saved)
	}
	s.logger.Infof("Bulk created %d task(s)", len(created))
	return created, nil
}

func (s *TaskService) Get(id int64) (models.Task, error) {
	t, err := s.store.GetTask(id)
	if err == storage.ErrNotFound {
		return models.Task{}, taskerr.Newf(taskerr.KindNotFound, "task %d not found", id)
	}
	if err != nil {
		return models.Task{}, taskerr.Wrap(err, taskerr.KindStore, "failed to get task")
	}
	return t, nil
}

func (s *TaskService) List(f storage.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.ListTasks(f)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list tasks")
	}
	return tasks, nil
}

// Update merges the patch over the stored record, recomputes the delay
// when either date changed, writes the result and emits a one-way
// notification after the commit. Notification failures never fail the
// update.
func (s *TaskService) Update(id int64, patch TaskPatch) (updated models.Task, err error) {
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Task{}, taskerr.Wrap(err, taskerr.KindStore, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := txStore.Rollback(); rollbackErr != nil {
				s.logger.Errorf("Failed to rollback after error: %v (original error: %v)", rollbackErr, err)
			}
			return
		}
		if commitErr := txStore.Commit(); commitErr != nil {
			s.logger.Errorf("Failed to commit: %v", commitErr)
			err = taskerr.Wrap(commitErr, taskerr.KindStore, "failed to commit")
			return
		}
		s.notifyUpdated(updated)
	}()

	existing, err := txStore.GetTask(id)
	if err == storage.ErrNotFound {
		return models.Task{}, taskerr.Newf(taskerr.KindNotFound, "task %d not found", id)
	}
	if err != nil {
		return models.Task{}, taskerr.Wrap(err, taskerr.KindStore, "failed to get task")
	}

	updated, err = ApplyUpdate(existing, patch)
	if err != nil {
		return models.Task{}, err
	}
	if err = txStore.UpdateTask(updated); err != nil {
		return models.Task{}, taskerr.Wrap(err, taskerr.KindStore, "failed to update task")
	}
	updated.FillDelay()
	s.logger.Infof("Updated task %d", id)
	return updated, nil
}

// Confirm sets the attachment marker on a task. An empty marker defaults
// to "confirmed".
func (s *TaskService) Confirm(id int64, marker string) (models.Task, error) {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		marker = "confirmed"
	}
	return s.Update(id, TaskPatch{Attachment: &marker})
}

func (s *TaskService) Delete(id int64) error {
	deleted, err := s.store.DeleteTask(id)
	if err != nil {
		return taskerr.Wrap(err, taskerr.KindStore, "failed to delete task")
	}
	if !deleted {
		return taskerr.Newf(taskerr.KindNotFound, "task %d not found", id)
	}
	s.logger.Infof("Deleted task %d", id)
	return nil
}

func (s *TaskService) ListOverdue(cutoff models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.ListOverdue(cutoff, f)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list overdue tasks")
	}
	return tasks, nil
}

func (s *TaskService) ListPending(cutoff models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.ListPending(cutoff, f)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list pending tasks")
	}
	return tasks, nil
}

func (s *TaskService) ListHistory(cutoff models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.ListHistory(cutoff, f)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list task history")
	}
	return tasks, nil
}

// ListToday returns tasks whose start date falls on the reference date.
func (s *TaskService) ListToday(day models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.ListByDate(day, f)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list today's tasks")
	}
	return tasks, nil
}

// ListNotDone filters for tasks explicitly marked not done. The status
// match happens here rather than in the store, so pagination applies to
// the filtered set.
func (s *TaskService) ListNotDone(f storage.TaskFilter) ([]models.Task, error) {
	f = f.Normalize()
	all, err := s.store.ListTasks(storage.TaskFilter{Department: f.Department})
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list tasks")
	}
	notDone := make([]models.Task, 0)
	for _, t := range all {
		if t.StatusIs(models.StatusNotDone) {
			notDone = append(notDone, t)
		}
	}
	if f.Offset >= len(notDone) {
		return []models.Task{}, nil
	}
	notDone = notDone[f.Offset:]
	if f.Limit > 0 && f.Limit < len(notDone) {
		notDone = notDone[:f.Limit]
	}
	return notDone, nil
}

func (s *TaskService) WorkingDays() ([]models.WorkingDay, error) {
	days, err := s.store.ListWorkingDays()
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to list working days")
	}
	return days, nil
}

func (s *TaskService) notifyUpdated(t models.Task) {
	if s.notifier == nil {
		return
	}
	// Fire-and-forget: the update already committed.
	go func() {
		if err := s.notifier.TaskUpdated(t); err != nil {
			s.logger.Warnf("Task update notification failed for task %d: %v", t.ID, err)
		}
	}()
}
