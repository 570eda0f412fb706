package service

import (
	"math"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/taskerr"
)

// DashboardService reduces the store's raw counts into the snapshot the
// dashboard renders.
type DashboardService struct {
	store  storage.Store
	logger Logger
}

func NewDashboardService(store storage.Store, logger Logger) *DashboardService {
	return &DashboardService{store: store, logger: logger}
}

// Summary aggregates over the cutoff date. Total, completed, not-done and
// overdue all count the same active population (start date on or before
// the cutoff); progress is completed over total, rounded half-up.
func (s *DashboardService) Summary(cutoff models.Date) (models.DashboardSnapshot, error) {
	counts, err := s.store.AggregateStats(cutoff)
	if err != nil {
		return models.DashboardSnapshot{}, taskerr.Wrap(err, taskerr.KindStore, "failed to aggregate stats")
	}
	progress := 0
	if counts.Total > 0 {
		progress = int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100))
	}
	return models.DashboardSnapshot{
		Total:           counts.Total,
		Completed:       counts.Completed,
		Pending:         counts.Pending,
		NotDone:         counts.NotDone,
		Overdue:         counts.Overdue,
		ProgressPercent: progress,
	}, nil
}
