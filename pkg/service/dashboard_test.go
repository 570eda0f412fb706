package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/service"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
)

func TestDashboardSummary(t *testing.T) {
	addTask := func(t *testing.T, store *storage.MemoryStore, start string, status string, submitted string) {
		task := template(t, start, models.DailyFrequency)
		task.Status = status
		if submitted != "" {
			task.SubmissionDate = datePtr(t, submitted)
		}
		_, err := store.SaveTask(task)
		assert.NoError(t, err)
	}

	t.Run("CountsAndProgress", func(t *testing.T) {
		store := storage.NewMemoryStore()
		for i := 0; i < 6; i++ {
			addTask(t, store, "2024-01-05", models.StatusDone, "2024-01-06")
		}
		for i := 0; i < 2; i++ {
			addTask(t, store, "2024-01-05", models.StatusNotDone, "2024-01-06")
		}
		for i := 0; i < 2; i++ {
			addTask(t, store, "2024-01-08", "", "")
		}
		addTask(t, store, "2024-01-20", "", "")

		svc := service.NewDashboardService(store, logger{})
		snap, err := svc.Summary(date(t, "2024-01-10"))
		assert.NoError(t, err)
		assert.Equal(t, models.DashboardSnapshot{
			Total:           10,
			Completed:       6,
			Pending:         1,
			NotDone:         2,
			Overdue:         2,
			ProgressPercent: 60,
		}, snap)
	})

	t.Run("EmptyStoreYieldsZeroProgress", func(t *testing.T) {
		svc := service.NewDashboardService(storage.NewMemoryStore(), logger{})
		snap, err := svc.Summary(date(t, "2024-01-10"))
		assert.NoError(t, err)
		assert.Equal(t, models.DashboardSnapshot{}, snap)
	})

	t.Run("ProgressRoundsHalfUp", func(t *testing.T) {
		store := storage.NewMemoryStore()
		addTask(t, store, "2024-01-05", models.StatusDone, "2024-01-06")
		addTask(t, store, "2024-01-05", models.StatusNotDone, "2024-01-06")
		addTask(t, store, "2024-01-05", models.StatusNotDone, "2024-01-06")
		// 1/3 = 33.33 rounds to 33
		svc := service.NewDashboardService(store, logger{})
		snap, err := svc.Summary(date(t, "2024-01-10"))
		assert.NoError(t, err)
		assert.Equal(t, 33, snap.ProgressPercent)

		addTask(t, store, "2024-01-05", models.StatusDone, "2024-01-06")
		// 2/4 = 50
		snap, err = svc.Summary(date(t, "2024-01-10"))
		assert.NoError(t, err)
		assert.Equal(t, 50, snap.ProgressPercent)
	})

	t.Run("TasksWithoutStartDateAreIgnored", func(t *testing.T) {
		store := storage.NewMemoryStore()
		task := template(t, "2024-01-05", models.DailyFrequency)
		task.StartDate = nil
		_, err := store.SaveTask(task)
		assert.NoError(t, err)

		svc := service.NewDashboardService(store, logger{})
		snap, err := svc.Summary(date(t, "2024-01-10"))
		assert.NoError(t, err)
		assert.Equal(t, int64(0), snap.Total)
	})
}
