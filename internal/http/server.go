package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/missagar01/Housekeeping-backend-aws/internal/log"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/service"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/taskerr"
)

// Server is the REST adapter over the task and dashboard services. It does
// no business logic of its own: it binds requests, calls the service and
// renders the result or the error kind.
type Server struct {
	tasks     *service.TaskService
	dashboard *service.DashboardService
}

// NewHandler wires every route onto a fresh mux.
func NewHandler(tasks *service.TaskService, dashboard *service.DashboardService) http.Handler {
	s := &Server{tasks: tasks, dashboard: dashboard}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/assigntask", s.handleCreate)
	mux.HandleFunc("POST /api/assigntask/bulk", s.handleBulkCreate)
	mux.HandleFunc("POST /api/assigntask/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/assigntask", s.handleList)
	mux.HandleFunc("GET /api/assigntask/overdue", s.handleOverdue)
	mux.HandleFunc("GET /api/assigntask/pending", s.handlePending)
	mux.HandleFunc("GET /api/assigntask/history", s.handleHistory)
	mux.HandleFunc("GET /api/assigntask/today", s.handleToday)
	mux.HandleFunc("GET /api/assigntask/not-done", s.handleNotDone)
	mux.HandleFunc("GET /api/assigntask/{id}", s.handleGet)
	mux.HandleFunc("PUT /api/assigntask/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/assigntask/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/assigntask/{id}/confirm", s.handleConfirm)

	mux.HandleFunc("GET /api/dashboard/summary", s.handleSummary)
	mux.HandleFunc("GET /api/working-days", s.handleWorkingDays)

	return mux
}

// StartServer builds the services around the given store and listens on
// the port.
func StartServer(port string, store storage.Store, notifier service.Notifier) error {
	logger := log.GetLogger()
	tasks := service.NewTaskService(store, notifier, logger)
	dashboard := service.NewDashboardService(store, logger)

	logger.Infof("Starting housekeeping server on :%s", port)
	return http.ListenAndServe(":"+port, NewHandler(tasks, dashboard))
}

// taskRequest is the create/bulk/generate payload. Dates arrive as
// YYYY-MM-DD strings; hod as a string or an array.
type taskRequest struct {
	Department     string            `json:"department"`
	GivenBy        string            `json:"given_by"`
	Name           string            `json:"name"`
	Description    string            `json:"task_description"`
	Remark         string            `json:"remark"`
	Status         string            `json:"status"`
	Image          string            `json:"image"`
	Attachment     string            `json:"attachment"`
	DoerName2      string            `json:"doer_name2"`
	Hod            models.StringList `json:"hod"`
	Frequency      string            `json:"frequency"`
	StartDate      *models.Date      `json:"task_start_date"`
	SubmissionDate *models.Date      `json:"submission_date"`
	Delay          *int64            `json:"delay"`
	Remainder      string            `json:"remainder"`
}

func (r taskRequest) toTask() models.Task {
	return models.Task{
		Department:     r.Department,
		GivenBy:        r.GivenBy,
		Name:           r.Name,
		Description:    r.Description,
		Remark:         r.Remark,
		Status:         r.Status,
		Image:          r.Image,
		Attachment:     r.Attachment,
		DoerName2:      r.DoerName2,
		Hod:            r.Hod.Join(),
		Frequency:      models.Frequency(r.Frequency),
		StartDate:      r.StartDate,
		SubmissionDate: r.SubmissionDate,
		Delay:          r.Delay,
		Remainder:      r.Remainder,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, taskerr.Wrap(err, taskerr.KindValidation, "invalid request body"))
		return
	}
	created, err := s.tasks.Create(req.toTask())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var reqs []taskRequest
	if err := decodeJSON(r, &reqs); err != nil {
		writeError(w, taskerr.Wrap(err, taskerr.KindValidation, "invalid request body"))
		return
	}
	tasks := make([]models.Task, len(reqs))
	for i, req := range reqs {
		tasks[i] = req.toTask()
	}
	created, err := s.tasks.BulkCreate(tasks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"count": len(created),
		"items": created,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, taskerr.Wrap(err, taskerr.KindValidation, "invalid request body"))
		return
	}
	created, err := s.tasks.Generate(req.toTask())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"count": len(created),
		"items": created,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.tasks.List(parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := s.tasks.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch service.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, taskerr.Wrap(err, taskerr.KindValidation, "invalid request body"))
		return
	}
	updated, err := s.tasks.Update(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.tasks.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req struct {
		Attachment string `json:"attachment"`
	}
	// Body is optional; an empty marker falls back to the default.
	_ = decodeJSON(r, &req)
	updated, err := s.tasks.Confirm(id, req.Attachment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	cutoff, err := parseDateParam(r, "cutoff", models.Today())
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.tasks.ListOverdue(cutoff, parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	cutoff, err := parseDateParam(r, "cutoff", models.Today())
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.tasks.ListPending(cutoff, parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	cutoff, err := parseDateParam(r, "cutoff", models.Today())
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.tasks.ListHistory(cutoff, parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r, "date", models.Today())
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.tasks.ListToday(day, parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleNotDone(w http.ResponseWriter, r *http.Request) {
	items, err := s.tasks.ListNotDone(parseFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	cutoff := models.Today()
	// The dashboard's "as of yesterday" view closes the books at the end
	// of the previous day.
	if r.URL.Query().Get("upto") == "yesterday" {
		cutoff = cutoff.AddDays(-1)
	}
	snapshot, err := s.dashboard.Summary(cutoff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleWorkingDays(w http.ResponseWriter, _ *http.Request) {
	days, err := s.tasks.WorkingDays()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, taskerr.New(taskerr.KindValidation, "invalid task id"))
		return 0, false
	}
	return id, true
}

func parseFilter(r *http.Request) storage.TaskFilter {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return storage.TaskFilter{
		Department: q.Get("department"),
		Limit:      limit,
		Offset:     offset,
	}
}

func parseDateParam(r *http.Request, name string, def models.Date) (models.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	day, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, taskerr.Newf(taskerr.KindValidation, "invalid %s date %q", name, raw)
	}
	return day, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.GetLogger().Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch taskerr.KindOf(err) {
	case taskerr.KindValidation, taskerr.KindNoWorkingDays, taskerr.KindNoEligibleDates:
		status = http.StatusBadRequest
	case taskerr.KindNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.GetLogger().Errorf("Request failed: %v", err)
	}

	body := map[string]interface{}{"message": err.Error()}
	var te *taskerr.Error
	if errors.As(err, &te) && len(te.Details) > 0 {
		body["details"] = te.Details
	}
	writeJSON(w, status, body)
}
