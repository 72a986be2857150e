package timer

import (
	"context"
	"log/slog"
	"time"

	"dcl/internal/clockify"
	"dcl/internal/logging"
	"dcl/internal/store"
)

// OverheadTag marks time that is never billable.
const OverheadTag = "Overhead"

// StopOffset is subtracted from the stop instant so consecutive entries
// never overlap.
const StopOffset = time.Minute

// Remote is the subset of the Clockify client used to drive the timer.
type Remote interface {
	StopTimer(ctx context.Context, workspaceID, userID string, end time.Time) (bool, error)
	StartTimeEntry(ctx context.Context, workspaceID string, entry clockify.NewTimeEntry) (string, error)
}

var _ Remote = (*clockify.Client)(nil)

// Controller issues stop and start calls against Clockify.
type Controller struct {
	remote Remote
	logger *slog.Logger
}

// StopResult describes the outcome of Stop.
type StopResult struct {
	End     time.Time
	Stopped bool
}

// Entry describes a started time entry.
type Entry struct {
	ID       string
	Start    time.Time
	Billable bool
}

func New(remote Remote, logger *slog.Logger) *Controller {
	return &Controller{remote: remote, logger: logging.NewComponentLogger(logger, "timer")}
}

// Stop ends the user's running timer at one minute before at. When no timer
// is running the result has Stopped=false and no error.
func (c *Controller) Stop(ctx context.Context, workspace store.Workspace, user store.User, at time.Time) (StopResult, error) {
	end := at.Add(-StopOffset)
	stopped, err := c.remote.StopTimer(ctx, workspace.ID, user.ID, end)
	if err != nil {
		return StopResult{}, err
	}
	if stopped {
		c.logger.Info("stopped running timer", logging.String("end", clockify.FormatZulu(end)))
	} else {
		c.logger.Debug("no running timer to stop")
	}
	return StopResult{End: end, Stopped: stopped}, nil
}

// Start creates a running entry beginning at at.
func (c *Controller) Start(
	ctx context.Context,
	workspace store.Workspace,
	project store.Project,
	task store.Task,
	tags []store.Tag,
	description string,
	at time.Time,
) (Entry, error) {
	tagIDs := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	billable := Billable(tags)
	id, err := c.remote.StartTimeEntry(ctx, workspace.ID, clockify.NewTimeEntry{
		Start:       clockify.FormatZulu(at),
		Billable:    billable,
		Description: description,
		ProjectID:   project.ID,
		TaskID:      task.ID,
		TagIDs:      tagIDs,
	})
	if err != nil {
		return Entry{}, err
	}
	c.logger.Info("started time entry",
		logging.String("entry_id", id),
		logging.String("start", clockify.FormatZulu(at)),
		logging.Bool("billable", billable),
	)
	return Entry{ID: id, Start: at, Billable: billable}, nil
}

// Billable reports false iff a tag is named exactly OverheadTag.
func Billable(tags []store.Tag) bool {
	for _, tag := range tags {
		if tag.Name == OverheadTag {
			return false
		}
	}
	return true
}
