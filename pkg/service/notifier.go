package service

import "github.com/missagar01/Housekeeping-backend-aws/pkg/models"

// Notifier receives a one-way message after a task update commits. Errors
// are logged by the caller and never propagate into the update.
type Notifier interface {
	TaskUpdated(t models.Task) error
}

// LogNotifier is the default sink when no external channel is configured.
type LogNotifier struct {
	Logger Logger
}

func (n LogNotifier) TaskUpdated(t models.Task) error {
	n.Logger.Infof("Task %d updated (department '%s', status '%s')", t.ID, t.Department, t.Status)
	return nil
}
