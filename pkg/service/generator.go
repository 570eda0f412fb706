package service

import (
	"sort"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/taskerr"
)

// Generate expands a task template into concrete instances aligned to the
// working day calendar. The template's start date anchors the recurrence;
// each emitted instance is a clone with its own start date, a cleared
// submission date and a freshly derived delay. Instances are persisted
// strictly in emission order so ids stay monotone with dates; a store
// failure aborts the remainder but already persisted instances stay.
func (s *TaskService) Generate(template models.Task) ([]models.Task, error) {
	if err := validateTask(&template); err != nil {
		return nil, err
	}
	if template.StartDate == nil {
		return nil, taskerr.New(taskerr.KindValidation, "task_start_date is required for generation")
	}

	days, err := s.store.ListWorkingDays()
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.KindStore, "failed to load working days")
	}
	dates, err := occurrences(*template.StartDate, template.Frequency, days)
	if err != nil {
		return nil, err
	}

	created := make([]models.Task, 0, len(dates))
	for _, date := range dates {
		instance := template
		d := date
		instance.StartDate = &d
		instance.SubmissionDate = nil
		instance.Delay = nil
		saved, err := s.persist(instance)
		if err != nil {
			// No rollback of earlier instances: generation is
			// documented as non-atomic.
			s.logger.Errorf("Generation aborted after %d of %d instances: %v", len(created), len(dates), err)
			return created, err
		}
		created = append(created, saved)
	}
	s.logger.Infof("Generated %d '%s' task(s) for department '%s' starting %s",
		len(created), template.Frequency, template.Department, template.StartDate)
	return created, nil
}

// occurrences computes the emitted dates: the first working day on or
// after the start, then repeated frequency increments, each snapped to the
// next working day strictly after the previous occurrence.
func occurrences(start models.Date, frequency models.Frequency, workingDays []models.WorkingDay) ([]models.Date, error) {
	if len(workingDays) == 0 {
		return nil, taskerr.New(taskerr.KindNoWorkingDays, "working day calendar is empty")
	}

	days := make([]models.Date, len(workingDays))
	for i, wd := range workingDays {
		days[i] = models.NewDate(wd.Date.Time)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	last := days[len(days)-1]
	if start.After(last) {
		return nil, taskerr.Newf(taskerr.KindNoEligibleDates,
			"no working day on or after %s", start).WithDetail("last_working_day", last.String())
	}

	cursor := sort.Search(len(days), func(i int) bool { return !days[i].Before(start) })
	if cursor == len(days) {
		return nil, taskerr.Newf(taskerr.KindNoEligibleDates, "no working day on or after %s", start)
	}

	emitted := []models.Date{days[cursor]}
	if frequency == models.OneTimeFrequency {
		return emitted, nil
	}
	for {
		candidate := increment(emitted[len(emitted)-1], frequency)
		if candidate.After(last) {
			break
		}
		// Strictly after the cursor, so increments that land between
		// working days never re-select an earlier or equal day.
		next := cursor + 1 + sort.Search(len(days)-cursor-1, func(i int) bool {
			return !days[cursor+1+i].Before(candidate)
		})
		if next == len(days) {
			break
		}
		cursor = next
		emitted = append(emitted, days[cursor])
	}
	return emitted, nil
}

func increment(d models.Date, frequency models.Frequency) models.Date {
	switch frequency {
	case models.WeeklyFrequency:
		return d.AddDays(7)
	case models.MonthlyFrequency:
		return d.AddMonths(1)
	case models.YearlyFrequency:
		return d.AddYears(1)
	default:
		return d.AddDays(1)
	}
}
