package storage

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
)

type DBInterface interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	QueryRowx(query string, args ...interface{}) *sqlx.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type PostgresStore struct {
	db DBInterface
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Begin() (storage.Store, error) {
	if db, ok := s.db.(*sqlx.DB); ok {
		tx, err := db.Beginx()
		if err != nil {
			return nil, err
		}
		return &PostgresStore{db: tx}, nil
	}
	return nil, errors.New("cannot begin transaction on unknown type")
}

func (s *PostgresStore) Commit() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return errors.New("cannot commit: not a transaction")
}

func (s *PostgresStore) Rollback() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return errors.New("cannot rollback: not a transaction")
}

func (s *PostgresStore) Close() error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return db.Close()
	}
	return nil // No-op for *sqlx.Tx
}

// applyFilter appends the department/limit/offset clauses shared by every
// list query. argOffset is the next free placeholder index.
func applyFilter(query string, args []interface{}, f storage.TaskFilter) (string, []interface{}) {
	f = f.Normalize()
	if f.Department != "" {
		args = append(args, f.Department)
		query += " AND LOWER(department) = LOWER($" + strconv.Itoa(len(args)) + ")"
	}
	return query, args
}

func applyPagination(query string, args []interface{}, f storage.TaskFilter) (string, []interface{}) {
	f = f.Normalize()
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		if f.Limit <= 0 {
			query += " LIMIT ALL"
		}
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}
	return query, args
}

func fillDelays(tasks []models.Task) []models.Task {
	for i := range tasks {
		tasks[i].FillDelay()
	}
	return tasks
}

func (s *PostgresStore) ListTasks(f storage.TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	query := "SELECT * FROM assign_task WHERE TRUE"
	args := []interface{}{}
	query, args = applyFilter(query, args, f)
	query += " ORDER BY task_start_date DESC NULLS LAST, id DESC"
	query, args = applyPagination(query, args, f)
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, errors.Wrap(err, "list tasks")
	}
	return fillDelays(tasks), nil
}

func (s *PostgresStore) GetTask(id int64) (models.Task, error) {
	var task models.Task
	err := s.db.Get(&task, "SELECT * FROM assign_task WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, errors.Wrapf(err, "get task %d", id)
	}
	task.FillDelay()
	return task, nil
}

func (s *PostgresStore) ListOverdue(cutoff models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `
		SELECT * FROM assign_task
		WHERE submission_date IS NULL
		  AND task_start_date IS NOT NULL
		  AND task_start_date::date <= $1::date`
	args := []interface{}{cutoff}
	query, args = applyFilter(query, args, f)
	query += " ORDER BY task_start_date DESC, id DESC"
	query, args = applyPagination(query, args, f)
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, errors.Wrap(err, "list overdue tasks")
	}
	return fillDelays(tasks), nil
}

func (s *PostgresStore) ListPending(cutoff models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `
		SELECT * FROM assign_task
		WHERE submission_date IS NULL
		  AND task_start_date IS NOT NULL
		  AND task_start_date::date > $1::date`
	args := []interface{}{cutoff}
	query, args = applyFilter(query, args, f)
	// Newest dates first for operator review
	query += " ORDER BY task_start_date DESC, id DESC"
	query, args = applyPagination(query, args, f)
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, errors.Wrap(err, "list pending tasks")
	}
	return fillDelays(tasks), nil
}

func (s *PostgresStore) ListHistory(cutoff models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `
		SELECT * FROM assign_task
		WHERE submission_date IS NOT NULL
		  AND task_start_date IS NOT NULL
		  AND task_start_date::date <= $1::date`
	args := []interface{}{cutoff}
	query, args = applyFilter(query, args, f)
	query += " ORDER BY task_start_date DESC, id DESC"
	query, args = applyPagination(query, args, f)
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, errors.Wrap(err, "list task history")
	}
	return fillDelays(tasks), nil
}

func (s *PostgresStore) ListByDate(day models.Date, f storage.TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `
		SELECT * FROM assign_task
		WHERE task_start_date::date = $1::date`
	args := []interface{}{day}
	query, args = applyFilter(query, args, f)
	query += " ORDER BY id ASC"
	query, args = applyPagination(query, args, f)
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, errors.Wrap(err, "list tasks by date")
	}
	return fillDelays(tasks), nil
}

// AggregateStats counts every bucket inside the same start-date-on-or-
// before-cutoff population, except pending which by definition sits after
// the cutoff.
func (s *PostgresStore) AggregateStats(cutoff models.Date) (models.StatCounts, error) {
	var counts models.StatCounts
	query := `
		WITH base AS (
			SELECT lower(trim(status)) AS status, task_start_date, submission_date
			FROM assign_task
			WHERE task_start_date IS NOT NULL
		)
		SELECT
			(SELECT count(*) FROM base WHERE task_start_date::date <= $1::date) AS total,
			(SELECT count(*) FROM base WHERE status = 'yes' AND task_start_date::date <= $1::date) AS completed,
			(SELECT count(*) FROM base WHERE status = 'no' AND task_start_date::date <= $1::date) AS not_done,
			(SELECT count(*) FROM base WHERE submission_date IS NULL AND task_start_date::date <= $1::date) AS overdue,
			(SELECT count(*) FROM base WHERE submission_date IS NULL AND task_start_date::date > $1::date) AS pending`
	if err := s.db.Get(&counts, query, cutoff); err != nil {
		return models.StatCounts{}, errors.Wrap(err, "aggregate stats")
	}
	return counts, nil
}

// SaveTask reserves the next id up front so task_id can mirror it in the
// same insert, the way the legacy schema populated both columns.
func (s *PostgresStore) SaveTask(t models.Task) (models.Task, error) {
	var id int64
	err := s.db.QueryRowx("SELECT nextval(pg_get_serial_sequence('assign_task','id'))").Scan(&id)
	if err != nil {
		return models.Task{}, errors.Wrap(err, "reserve task id")
	}
	t.ID = id
	t.TaskID = strconv.FormatInt(id, 10)
	t.Frequency = models.NormalizeFrequency(string(t.Frequency))
	t.FillDelay()
	t.CreatedAt = time.Now()

	_, err = s.db.Exec(`
		INSERT INTO assign_task (
			id, task_id, department, given_by, name, task_description, remark, status,
			image, attachment, doer_name2, hod, frequency, task_start_date,
			submission_date, delay, remainder, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)`,
		t.ID, t.TaskID, t.Department, t.GivenBy, t.Name, t.Description, t.Remark, t.Status,
		t.Image, t.Attachment, t.DoerName2, t.Hod, t.Frequency, t.StartDate,
		t.SubmissionDate, t.Delay, t.Remainder, t.CreatedAt)
	if err != nil {
		return models.Task{}, errors.Wrap(err, "save task")
	}
	return t, nil
}

func (s *PostgresStore) UpdateTask(t models.Task) error {
	result, err := s.db.Exec(`
		UPDATE assign_task SET
			department = $1, given_by = $2, name = $3, task_description = $4,
			remark = $5, status = $6, image = $7, attachment = $8, doer_name2 = $9,
			hod = $10, frequency = $11, task_start_date = $12, submission_date = $13,
			delay = $14, remainder = $15
		WHERE id = $16`,
		t.Department, t.GivenBy, t.Name, t.Description,
		t.Remark, t.Status, t.Image, t.Attachment, t.DoerName2,
		t.Hod, models.NormalizeFrequency(string(t.Frequency)), t.StartDate, t.SubmissionDate,
		t.Delay, t.Remainder, t.ID)
	if err != nil {
		return errors.Wrapf(err, "update task %d", t.ID)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update task rows affected")
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTask(id int64) (bool, error) {
	result, err := s.db.Exec("DELETE FROM assign_task WHERE id = $1", id)
	if err != nil {
		return false, errors.Wrapf(err, "delete task %d", id)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete task rows affected")
	}
	return rows > 0, nil
}

func (s *PostgresStore) ListWorkingDays() ([]models.WorkingDay, error) {
	days := []models.WorkingDay{}
	// The legacy table name keeps its original spelling.
	err := s.db.Select(&days, `
		SELECT working_date, day, week_num, month
		FROM working_day_calender
		ORDER BY working_date ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list working days")
	}
	return days, nil
}
