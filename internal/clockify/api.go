package clockify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dcl/internal/services"
)

// CurrentUser is the subset of GET /user dcl relies on.
type CurrentUser struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	DefaultWorkspace string `json:"defaultWorkspace"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
}

type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
}

type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"projectId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// NewTimeEntry is the POST body for starting a timer. An entry without an
// end keeps running until stopped.
type NewTimeEntry struct {
	Start       string   `json:"start"`
	Billable    bool     `json:"billable"`
	Description string   `json:"description"`
	ProjectID   string   `json:"projectId"`
	TaskID      string   `json:"taskId"`
	TagIDs      []string `json:"tagIds"`
}

type stopRequest struct {
	End string `json:"end"`
}

type timeEntry struct {
	ID string `json:"id"`
}

// CurrentUser returns the user owning the API key and their default
// workspace.
func (c *Client) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	var user CurrentUser
	if err := c.do(ctx, http.MethodGet, "/user", nil, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" || user.DefaultWorkspace == "" {
		return nil, services.Wrap(services.ErrRemote, "GET /user", "response missing id or defaultWorkspace", nil)
	}
	return &user, nil
}

// FindProjects lists workspace projects matching name. Clockify matches
// names partially, so callers must handle more than one result.
func (c *Client) FindProjects(ctx context.Context, workspaceID, name string) ([]Project, error) {
	var projects []Project
	path := SlashJoin("/workspaces", workspaceID, "projects")
	if err := c.do(ctx, http.MethodGet, path, nameQuery(name), nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindTags lists the workspace's non-archived tags matching name.
func (c *Client) FindTags(ctx context.Context, workspaceID, name string) ([]Tag, error) {
	query := nameQuery(name)
	query.Set("archived", "false")
	var tags []Tag
	path := SlashJoin("/workspaces", workspaceID, "tags")
	if err := c.do(ctx, http.MethodGet, path, query, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// FindTasks lists a project's tasks matching name.
func (c *Client) FindTasks(ctx context.Context, workspaceID, projectID, name string) ([]Task, error) {
	var tasks []Task
	path := SlashJoin("/workspaces", workspaceID, "projects", projectID, "tasks")
	if err := c.do(ctx, http.MethodGet, path, nameQuery(name), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// StopTimer ends the user's running time entry at end. It reports false
// without error when Clockify answers 404, meaning no timer was running.
func (c *Client) StopTimer(ctx context.Context, workspaceID, userID string, end time.Time) (bool, error) {
	path := SlashJoin("/workspaces", workspaceID, "user", userID, "time-entries")
	err := c.do(ctx, http.MethodPatch, path, nil, stopRequest{End: FormatZulu(end)}, nil)
	if err == nil {
		return true, nil
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// StartTimeEntry creates a running time entry and returns its ID.
func (c *Client) StartTimeEntry(ctx context.Context, workspaceID string, entry NewTimeEntry) (string, error) {
	if entry.TagIDs == nil {
		entry.TagIDs = []string{}
	}
	var created timeEntry
	path := SlashJoin("/workspaces", workspaceID, "time-entries")
	if err := c.do(ctx, http.MethodPost, path, nil, entry, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func nameQuery(name string) url.Values {
	query := url.Values{}
	if strings.TrimSpace(name) != "" {
		query.Set("name", name)
	}
	return query
}
