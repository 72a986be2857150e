package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"dcl/internal/config"
	"dcl/internal/logging"
	"dcl/internal/resolver"
	"dcl/internal/services"
	"dcl/internal/store"
	"dcl/internal/timer"
)

// Result summarises one run for CLI output.
type Result struct {
	CorrelationID string
	Bucket        string
	Description   string
	WorkspaceID   string
	UserID        string
	Project       store.Project
	Task          store.Task
	Tags          []store.Tag
	Billable      bool
	// Stopped is true when a running timer was ended.
	Stopped bool
	StopEnd time.Time
	EntryID string
	Start   time.Time
}

// Runner executes the bucket workflows.
type Runner struct {
	resolver *resolver.Resolver
	timer    *timer.Controller
	logger   *slog.Logger
}

func New(res *resolver.Resolver, ctrl *timer.Controller, logger *slog.Logger) *Runner {
	return &Runner{
		resolver: res,
		timer:    ctrl,
		logger:   logging.NewComponentLogger(logger, "workflow"),
	}
}

// WorkOn switches the timer to bucket starting at since: it resolves every
// entity, stops the running timer at since minus one minute and starts a new
// entry at since. The stop call completes before the start call is issued.
func (r *Runner) WorkOn(ctx context.Context, name string, bucket config.Bucket, since time.Time) (Result, error) {
	ctx = services.WithBucket(withCorrelation(ctx), name)
	logger := logging.WithContext(ctx, r.logger)
	result := Result{Bucket: name, Description: bucket.Description}
	result.CorrelationID, _ = services.RequestIDFromContext(ctx)

	workspace, err := r.resolver.Workspace(ctx)
	if err != nil {
		return result, fail(logger, "resolve workspace", err)
	}
	result.WorkspaceID = workspace.ID

	project, err := r.resolver.Project(ctx, workspace, bucket.Project)
	if err != nil {
		return result, fail(logger, "resolve project", err)
	}
	result.Project = project

	tags, err := r.resolver.Tags(ctx, workspace, bucket.Tags)
	if err != nil {
		return result, fail(logger, "resolve tags", err)
	}
	result.Tags = tags

	user, err := r.resolver.User(ctx)
	if err != nil {
		return result, fail(logger, "resolve user", err)
	}
	result.UserID = user.ID

	task, err := r.resolver.Task(ctx, project, bucket.Task)
	if err != nil {
		return result, fail(logger, "resolve task", err)
	}
	result.Task = task

	stop, err := r.timer.Stop(ctx, workspace, user, since)
	if err != nil {
		return result, fail(logger, "stop timer", err)
	}
	result.Stopped = stop.Stopped
	result.StopEnd = stop.End

	entry, err := r.timer.Start(ctx, workspace, project, task, tags, bucket.Description, since)
	if err != nil {
		return result, fail(logger, "start timer", err)
	}
	result.EntryID = entry.ID
	result.Start = entry.Start
	result.Billable = entry.Billable

	logger.Info("switched bucket",
		logging.String("project", project.Name),
		logging.String("task", task.Name),
		logging.String("entry_id", entry.ID),
	)
	return result, nil
}

// Stop ends the running timer at at minus one minute without starting a
// new entry.
func (r *Runner) Stop(ctx context.Context, at time.Time) (Result, error) {
	ctx = withCorrelation(ctx)
	logger := logging.WithContext(ctx, r.logger)
	result := Result{}
	result.CorrelationID, _ = services.RequestIDFromContext(ctx)

	workspace, err := r.resolver.Workspace(ctx)
	if err != nil {
		return result, fail(logger, "resolve workspace", err)
	}
	result.WorkspaceID = workspace.ID

	user, err := r.resolver.User(ctx)
	if err != nil {
		return result, fail(logger, "resolve user", err)
	}
	result.UserID = user.ID

	stop, err := r.timer.Stop(ctx, workspace, user, at)
	if err != nil {
		return result, fail(logger, "stop timer", err)
	}
	result.Stopped = stop.Stopped
	result.StopEnd = stop.End
	return result, nil
}

func withCorrelation(ctx context.Context) context.Context {
	if _, ok := services.RequestIDFromContext(ctx); ok {
		return ctx
	}
	return services.WithRequestID(ctx, uuid.NewString())
}

func fail(logger *slog.Logger, step string, err error) error {
	logger.Debug(step+" failed",
		logging.String(logging.FieldEventType, "workflow_step_failed"),
		logging.String(logging.FieldErrorHint, Hint(err)),
		logging.String("step", step),
		logging.Error(err),
	)
	return services.Wrap(nil, step, "", err)
}

// Hint suggests what the operator should check for err.
func Hint(err error) string {
	var (
		lookupErr *resolver.LookupError
		aliasErr  *resolver.AliasError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &lookupErr):
		return "check the " + string(lookupErr.Kind) + " name in the bucket definition"
	case errors.As(err, &aliasErr):
		return "rename the " + string(aliasErr.Kind) + " in the bucket definition to " + strconv.Quote(aliasErr.CachedName)
	case errors.Is(err, store.ErrLocked):
		return "another dcl command is running; retry when it finishes"
	case errors.Is(err, services.ErrConfiguration):
		return "fix the configuration and retry"
	case errors.Is(err, services.ErrUnavailable):
		return "check network connectivity"
	case errors.Is(err, services.ErrRemote):
		return "check the API key and that the Clockify entities still exist"
	default:
		return ""
	}
}
