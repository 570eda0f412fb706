package storage

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
)

func taskIDFor(id int64) string {
	return strconv.FormatInt(id, 10)
}

// MemoryStore implements Store with an ordered in-process slice. It is the
// test-mode substitute for the postgres store and is always injected at
// construction time, never reached through package state.
type MemoryStore struct {
	mu          sync.RWMutex
	tasks       []models.Task
	workingDays []models.WorkingDay
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SeedWorkingDays replaces the working day calendar. Test setup only; the
// calendar is read-only everywhere else.
func (m *MemoryStore) SeedWorkingDays(days []models.WorkingDay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workingDays = append([]models.WorkingDay(nil), days...)
	sort.Slice(m.workingDays, func(i, j int) bool {
		return m.workingDays[i].Date.Before(m.workingDays[j].Date)
	})
}

// Begin returns the store itself: every memory-store operation is already
// atomic under the mutex, so transactions degrade to no-ops.
func (m *MemoryStore) Begin() (Store, error) { return m, nil }
func (m *MemoryStore) Commit() error         { return nil }
func (m *MemoryStore) Rollback() error       { return nil }
func (m *MemoryStore) Close() error          { return nil }

func matchesDepartment(task models.Task, department string) bool {
	want := strings.ToLower(strings.TrimSpace(department))
	if want == "" {
		return true
	}
	return strings.ToLower(strings.TrimSpace(task.Department)) == want
}

// newestFirst orders by start date descending with nil dates last, id
// descending as the tiebreak. Matches the SQL ordering clause.
func newestFirst(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].StartDate, tasks[j].StartDate
		switch {
		case a == nil && b == nil:
			return tasks[i].ID > tasks[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return tasks[i].ID > tasks[j].ID
		}
	})
}

func paginate(tasks []models.Task, f TaskFilter) []models.Task {
	if f.Offset >= len(tasks) {
		return []models.Task{}
	}
	tasks = tasks[f.Offset:]
	if f.Limit > 0 && f.Limit < len(tasks) {
		tasks = tasks[:f.Limit]
	}
	return tasks
}

// collect copies the matching records with lazily computed delays, so
// callers never alias the store's backing slice.
func (m *MemoryStore) collect(match func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range m.tasks {
		if match(t) {
			t.FillDelay()
			out = append(out, t)
		}
	}
	return out
}

func (m *MemoryStore) ListTasks(f TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f = f.Normalize()
	out := m.collect(func(t models.Task) bool {
		return matchesDepartment(t, f.Department)
	})
	newestFirst(out)
	return paginate(out, f), nil
}

func (m *MemoryStore) GetTask(id int64) (models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tasks {
		if t.ID == id {
			t.FillDelay()
			return t, nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (m *MemoryStore) ListOverdue(cutoff models.Date, f TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f = f.Normalize()
	out := m.collect(func(t models.Task) bool {
		return t.SubmissionDate == nil && t.StartDate != nil &&
			!t.StartDate.After(cutoff) && matchesDepartment(t, f.Department)
	})
	newestFirst(out)
	return paginate(out, f), nil
}

func (m *MemoryStore) ListPending(cutoff models.Date, f TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f = f.Normalize()
	out := m.collect(func(t models.Task) bool {
		return t.SubmissionDate == nil && t.StartDate != nil &&
			t.StartDate.After(cutoff) && matchesDepartment(t, f.Department)
	})
	newestFirst(out)
	return paginate(out, f), nil
}

func (m *MemoryStore) ListHistory(cutoff models.Date, f TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f = f.Normalize()
	out := m.collect(func(t models.Task) bool {
		return t.SubmissionDate != nil && t.StartDate != nil &&
			!t.StartDate.After(cutoff) && matchesDepartment(t, f.Department)
	})
	newestFirst(out)
	return paginate(out, f), nil
}

func (m *MemoryStore) ListByDate(day models.Date, f TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f = f.Normalize()
	out := m.collect(func(t models.Task) bool {
		return t.StartDate != nil && t.StartDate.Equal(day) &&
			matchesDepartment(t, f.Department)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, f), nil
}

func (m *MemoryStore) AggregateStats(cutoff models.Date) (models.StatCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var counts models.StatCounts
	for _, t := range m.tasks {
		if t.StartDate == nil {
			continue
		}
		if t.StartDate.After(cutoff) {
			if t.SubmissionDate == nil {
				counts.Pending++
			}
			continue
		}
		counts.Total++
		if t.StatusIs(models.StatusDone) {
			counts.Completed++
		}
		if t.StatusIs(models.StatusNotDone) {
			counts.NotDone++
		}
		if t.SubmissionDate == nil {
			counts.Overdue++
		}
	}
	return counts, nil
}

func (m *MemoryStore) SaveTask(t models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	t.TaskID = taskIDFor(t.ID)
	t.Frequency = models.NormalizeFrequency(string(t.Frequency))
	t.FillDelay()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *MemoryStore) UpdateTask(t models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			t.Frequency = models.NormalizeFrequency(string(t.Frequency))
			m.tasks[i] = t
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteTask(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListWorkingDays() ([]models.WorkingDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.WorkingDay(nil), m.workingDays...), nil
}
