package models

// ComputeDelay returns the whole-day lag between a task's start date and
// its submission date. Nil when either date is missing; an early or
// on-time submission counts as zero, never negative.
func ComputeDelay(start, submission *Date) *int64 {
	if start == nil || submission == nil {
		return nil
	}
	days := int64(submission.Sub(start.Time).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
