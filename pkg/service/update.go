package service

import (
	"encoding/json"
	"strings"

	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/taskerr"
)

// OptionalDate distinguishes "field absent" from "field set to null":
// clearing a submission date is a meaningful write.
type OptionalDate struct {
	Set  bool
	Date *models.Date
}

func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Date = nil
		return nil
	}
	var d models.Date
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	o.Date = &d
	return nil
}

// OptionalInt is the same presence-aware wrapper for the delay field.
type OptionalInt struct {
	Set   bool
	Value *int64
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// TaskPatch is a partial update; nil (or unset) fields are left alone.
type TaskPatch struct {
	Department     *string            `json:"department"`
	GivenBy        *string            `json:"given_by"`
	Name           *string            `json:"name"`
	Description    *string            `json:"task_description"`
	Remark         *string            `json:"remark"`
	Status         *string            `json:"status"`
	Image          *string            `json:"image"`
	Attachment     *string            `json:"attachment"`
	DoerName2      *string            `json:"doer_name2"`
	Hod            *models.StringList `json:"hod"`
	Remainder      *string            `json:"remainder"`
	Frequency      *string            `json:"frequency"`
	StartDate      *models.Date       `json:"task_start_date"`
	SubmissionDate OptionalDate       `json:"submission_date"`
	Delay          OptionalInt        `json:"delay"`
}

// ApplyUpdate merges a patch over an existing record and returns the new
// record. Pure: the inputs are never mutated, and no store call happens
// here, which keeps the delay-recompute rule testable in isolation.
// Whenever either date changes and the caller did not pin the delay, the
// delay is rederived from the merged dates.
func ApplyUpdate(existing models.Task, patch TaskPatch) (models.Task, error) {
	merged := existing

	setRequired := func(dst *string, src *string, field string) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return taskerr.Newf(taskerr.KindValidation, "%s cannot be empty", field)
		}
		*dst = v
		return nil
	}

	if err := setRequired(&merged.Department, patch.Department, "department"); err != nil {
		return models.Task{}, err
	}
	if err := setRequired(&merged.Name, patch.Name, "name"); err != nil {
		return models.Task{}, err
	}
	if err := setRequired(&merged.Description, patch.Description, "task_description"); err != nil {
		return models.Task{}, err
	}
	if patch.GivenBy != nil {
		merged.GivenBy = *patch.GivenBy
	}
	if patch.Remark != nil {
		merged.Remark = *patch.Remark
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	if patch.Image != nil {
		merged.Image = *patch.Image
	}
	if patch.Attachment != nil {
		merged.Attachment = *patch.Attachment
	}
	if patch.DoerName2 != nil {
		merged.DoerName2 = *patch.DoerName2
	}
	if patch.Hod != nil {
		merged.Hod = patch.Hod.Join()
	}
	if patch.Remainder != nil {
		merged.Remainder = *patch.Remainder
	}
	if patch.Frequency != nil {
		merged.Frequency = models.NormalizeFrequency(*patch.Frequency)
	}

	datesChanged := false
	if patch.StartDate != nil {
		d := *patch.StartDate
		merged.StartDate = &d
		datesChanged = true
	}
	if patch.SubmissionDate.Set {
		merged.SubmissionDate = patch.SubmissionDate.Date
		datesChanged = true
	}
	if merged.Frequency == models.OneTimeFrequency && merged.StartDate == nil {
		return models.Task{}, taskerr.New(taskerr.KindValidation, "task_start_date is required for one-time tasks")
	}

	switch {
	case patch.Delay.Set:
		merged.Delay = patch.Delay.Value
	case datesChanged:
		merged.Delay = models.ComputeDelay(merged.StartDate, merged.SubmissionDate)
	}
	return merged, nil
}
