package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	internalhttp "github.com/missagar01/Housekeeping-backend-aws/internal/http"
	"github.com/missagar01/Housekeeping-backend-aws/internal/log"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/service"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := log.GetLogger()
	tasks := service.NewTaskService(store, nil, logger)
	dashboard := service.NewDashboardService(store, logger)
	srv := httptest.NewServer(internalhttp.NewHandler(tasks, dashboard))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp, raw
}

func createPayload(start string) map[string]interface{} {
	payload := map[string]interface{}{
		"department":       "Housekeeping",
		"name":             "John Doe",
		"task_description": "Clean lobby",
		"frequency":        "daily",
	}
	if start != "" {
		payload["task_start_date"] = start
	}
	return payload
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCreateEndpoint(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", createPayload("2024-01-05"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Task
		assert.NoError(t, json.Unmarshal(body, &created))
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "1", created.TaskID)
		assert.Equal(t, "2024-01-05", created.StartDate.String())
	})

	t.Run("MissingFieldIsBadRequest", func(t *testing.T) {
		srv, _ := newTestServer(t)
		payload := createPayload("2024-01-05")
		delete(payload, "department")
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MalformedBodyIsBadRequest", func(t *testing.T) {
		srv, _ := newTestServer(t)
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/assigntask", bytes.NewBufferString("{not json"))
		assert.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("HodAcceptsAnArray", func(t *testing.T) {
		srv, _ := newTestServer(t)
		payload := createPayload("2024-01-05")
		payload["hod"] = []string{"alice", "bob"}
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", payload)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Task
		assert.NoError(t, json.Unmarshal(body, &created))
		assert.Equal(t, "alice,bob", created.Hod)
	})
}

func TestBulkEndpoint(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask/bulk", []map[string]interface{}{
			createPayload("2024-01-05"),
			createPayload("2024-01-06"),
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var out struct {
			Count int           `json:"count"`
			Items []models.Task `json:"items"`
		}
		assert.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, 2, out.Count)
		assert.Equal(t, int64(1), out.Items[0].ID)
		assert.Equal(t, int64(2), out.Items[1].ID)
	})

	t.Run("InvalidEntryNamesItsIndex", func(t *testing.T) {
		srv, _ := newTestServer(t)
		bad := createPayload("2024-01-06")
		delete(bad, "name")
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask/bulk", []map[string]interface{}{
			createPayload("2024-01-05"),
			bad,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out struct {
			Details map[string]string `json:"details"`
		}
		assert.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, "1", out.Details["index"])
	})
}

func TestGenerateEndpoint(t *testing.T) {
	t.Run("EmitsOneTaskPerEligibleWorkingDay", func(t *testing.T) {
		srv, store := newTestServer(t)
		days := make([]models.WorkingDay, 0, 3)
		for _, s := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
			d, err := models.ParseDate(s)
			assert.NoError(t, err)
			days = append(days, models.WorkingDay{Date: d})
		}
		store.SeedWorkingDays(days)

		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask/generate", createPayload("2024-01-01"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var out struct {
			Count int           `json:"count"`
			Items []models.Task `json:"items"`
		}
		assert.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, 3, out.Count)
	})

	t.Run("EmptyCalendarIsBadRequest", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask/generate", createPayload("2024-01-01"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetUpdateDeleteEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", createPayload("2024-01-05"))
	var created models.Task
	assert.NoError(t, json.Unmarshal(body, &created))
	url := fmt.Sprintf("%s/api/assigntask/%d", srv.URL, created.ID)

	t.Run("Get", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, url, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Task
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("GetUnknownIDIs404", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/assigntask/999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("NonNumericIDIsBadRequest", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/assigntask/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UpdateSubmissionRecomputesDelay", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPut, url, map[string]interface{}{
			"status":          "yes",
			"submission_date": "2024-01-08",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.Task
		assert.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, "yes", updated.Status)
		assert.NotNil(t, updated.Delay)
		assert.Equal(t, int64(3), *updated.Delay)
	})

	t.Run("Confirm", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, url+"/confirm", map[string]interface{}{})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var confirmed models.Task
		assert.NoError(t, json.Unmarshal(body, &confirmed))
		assert.Equal(t, "confirmed", confirmed.Attachment)
	})

	t.Run("Delete", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, url, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodDelete, url, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	submitted := createPayload("2024-01-05")
	submitted["status"] = "no"
	submitted["submission_date"] = "2024-01-06"
	doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", submitted)
	doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", createPayload("2024-01-09"))
	doJSON(t, http.MethodPost, srv.URL+"/api/assigntask", createPayload("2024-01-15"))

	listOf := func(t *testing.T, path string) []models.Task {
		t.Helper()
		resp, body := doJSON(t, http.MethodGet, srv.URL+path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var items []models.Task
		assert.NoError(t, json.Unmarshal(body, &items))
		return items
	}

	t.Run("List", func(t *testing.T) {
		assert.Len(t, listOf(t, "/api/assigntask"), 3)
	})

	t.Run("DepartmentFilter", func(t *testing.T) {
		assert.Empty(t, listOf(t, "/api/assigntask?department=security"))
	})

	t.Run("Overdue", func(t *testing.T) {
		items := listOf(t, "/api/assigntask/overdue?cutoff=2024-01-10")
		assert.Len(t, items, 1)
		assert.Equal(t, "2024-01-09", items[0].StartDate.String())
	})

	t.Run("Pending", func(t *testing.T) {
		items := listOf(t, "/api/assigntask/pending?cutoff=2024-01-10")
		assert.Len(t, items, 1)
		assert.Equal(t, "2024-01-15", items[0].StartDate.String())
	})

	t.Run("History", func(t *testing.T) {
		items := listOf(t, "/api/assigntask/history?cutoff=2024-01-10")
		assert.Len(t, items, 1)
		assert.Equal(t, "2024-01-05", items[0].StartDate.String())
	})

	t.Run("Today", func(t *testing.T) {
		items := listOf(t, "/api/assigntask/today?date=2024-01-09")
		assert.Len(t, items, 1)
	})

	t.Run("NotDone", func(t *testing.T) {
		items := listOf(t, "/api/assigntask/not-done")
		assert.Len(t, items, 1)
		assert.Equal(t, "no", items[0].Status)
	})

	t.Run("BadCutoffIsBadRequest", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/assigntask/overdue?cutoff=01-10-2024", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSummaryEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	yesterday := models.Today().AddDays(-1)
	lastWeek := models.Today().AddDays(-7)
	tomorrow := models.Today().AddDays(1)

	save := func(t *testing.T, task models.Task) {
		t.Helper()
		_, err := store.SaveTask(task)
		assert.NoError(t, err)
	}
	base := models.Task{Department: "Housekeeping", Name: "John Doe", Description: "Clean lobby"}

	done := base
	done.StartDate = &lastWeek
	done.SubmissionDate = &yesterday
	done.Status = models.StatusDone
	save(t, done)

	open := base
	open.StartDate = &lastWeek
	save(t, open)

	upcoming := base
	upcoming.StartDate = &tomorrow
	save(t, upcoming)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard/summary?upto=yesterday", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snap models.DashboardSnapshot
	assert.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Completed)
	assert.Equal(t, int64(1), snap.Overdue)
	assert.Equal(t, int64(1), snap.Pending)
	assert.Equal(t, 50, snap.ProgressPercent)
}

func TestWorkingDaysEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	d, err := models.ParseDate("2024-01-01")
	assert.NoError(t, err)
	store.SeedWorkingDays([]models.WorkingDay{{Date: d, Day: "Monday"}})

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/working-days", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var days []models.WorkingDay
	assert.NoError(t, json.Unmarshal(body, &days))
	assert.Len(t, days, 1)
	assert.Equal(t, "Monday", days[0].Day)
}
